package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/2lastview/haello-Rest-Service/internal/config"
	"github.com/2lastview/haello-Rest-Service/internal/domain"
	"github.com/2lastview/haello-Rest-Service/internal/service"
)

const uploadForm = `<html><head></head><body>
<form method="POST" enctype="multipart/form-data" action="">
<input type="file" name="image" /><input type="submit" />
</form></body></html>`

type Handler struct {
	service service.EnrichService
	cfg     *config.Config
	log     *zap.Logger
}

func NewHandler(service service.EnrichService, cfg *config.Config, log *zap.Logger) *Handler {
	return &Handler{
		service: service,
		cfg:     cfg,
		log:     log,
	}
}

// GetEnrich serves the multipart upload form.
func (h *Handler) GetEnrich(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(uploadForm))
}

// PostEnrich parses the multipart submission and runs the enrichment
// pipeline. Field semantics: "text" (base64 corrected text) overrides
// "image"; "source" is optional; "target" is required.
func (h *Handler) PostEnrich(c *gin.Context) {
	req := domain.EnrichRequest{
		EncodedText: c.PostForm("text"),
		Source:      c.PostForm("source"),
		Target:      c.PostForm("target"),
		Filetype:    c.PostForm("filetype"),
	}

	if file, err := c.FormFile("image"); err == nil {
		if file.Size > h.cfg.App.MaxUploadSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Image too large."})
			return
		}

		req.Filename = file.Filename

		f, err := file.Open()
		if err != nil {
			h.log.Error("Failed to open uploaded file", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded image."})
			return
		}
		defer f.Close()

		req.Image, err = io.ReadAll(f)
		if err != nil {
			h.log.Error("Failed to read uploaded file", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded image."})
			return
		}
	}

	result, err := h.service.Enrich(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// respondError maps the fault taxonomy onto HTTP statuses. Full detail is
// logged internally; internal faults cross the wire with a generic message.
func (h *Handler) respondError(c *gin.Context, err error) {
	var fault *domain.Fault
	if !errors.As(err, &fault) {
		h.log.Error("Enrichment failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error."})
		return
	}

	switch fault.Kind {
	case domain.FaultBadRequest:
		h.log.Debug("Request rejected", zap.String("reason", fault.Message))
		c.JSON(http.StatusBadRequest, gin.H{"error": fault.Message})
	case domain.FaultNotFound:
		h.log.Debug("Nothing extracted", zap.String("reason", fault.Message))
		c.JSON(http.StatusNotFound, gin.H{"error": fault.Message})
	default:
		h.log.Error("Enrichment failed",
			zap.String("message", fault.Message),
			zap.Bool("transient", fault.Transient),
			zap.Error(fault.Err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fault.Message})
	}
}
