package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/2lastview/haello-Rest-Service/internal/config"
	"github.com/2lastview/haello-Rest-Service/internal/handler"
	"github.com/2lastview/haello-Rest-Service/internal/language"
	"github.com/2lastview/haello-Rest-Service/internal/ocr"
	"github.com/2lastview/haello-Rest-Service/internal/service"
	"github.com/2lastview/haello-Rest-Service/internal/storage"
	"github.com/2lastview/haello-Rest-Service/internal/translate"
)

type Server struct {
	httpServer *http.Server
	cfg        *config.Config
	log        *zap.Logger
}

func New(cfg *config.Config, log *zap.Logger) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	registry := language.NewRegistry()
	store := storage.NewDiskStore(cfg.App.UploadDir, log)

	var archiver storage.Archiver
	if cfg.Archive.Enabled {
		a, err := storage.NewS3Archiver(&cfg.Archive, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 archiver: %w", err)
		}
		archiver = a
	}

	extractor := ocr.NewExtractor(cfg.OCR.TessdataPrefix, cfg.OCR.Timeout, log)
	translator := translate.NewClient(cfg.Translate.BaseURL, cfg.Translate.APIKey, cfg.Translate.Timeout, log)

	enrichService := service.NewEnrichService(registry, store, archiver, extractor, translator, translator, log)

	h := handler.NewHandler(enrichService, cfg, log)

	router.GET("/health", h.HealthCheck)
	router.GET("/enrich", h.GetEnrich)
	router.POST("/enrich", h.PostEnrich)

	server := &Server{
		httpServer: &http.Server{
			Addr:           cfg.Server.Host + ":" + cfg.Server.Port,
			Handler:        router,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   60 * time.Second,
			MaxHeaderBytes: 1 << 20, // 1 MB
		},
		cfg: cfg,
		log: log,
	}

	log.Info("Server created successfully",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port))

	return server, nil
}

func (s *Server) Run() error {
	s.log.Info("Server is running",
		zap.String("address", s.httpServer.Addr))

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down server")
	return s.httpServer.Shutdown(ctx)
}
