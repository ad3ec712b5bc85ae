package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/2lastview/haello-Rest-Service/internal/config"
	"github.com/2lastview/haello-Rest-Service/internal/domain"
)

type fakeEnrichService struct {
	gotReq domain.EnrichRequest
	result *domain.EnrichResult
	err    error
}

func (f *fakeEnrichService) Enrich(_ context.Context, req domain.EnrichRequest) (*domain.EnrichResult, error) {
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newTestRouter(svc *fakeEnrichService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.App.MaxUploadSize = 10 * 1024 * 1024

	h := NewHandler(svc, cfg, zap.NewNop())

	router := gin.New()
	router.GET("/enrich", h.GetEnrich)
	router.POST("/enrich", h.PostEnrich)
	router.GET("/health", h.HealthCheck)
	return router
}

func multipartBody(t *testing.T, fields map[string]string, image []byte, filename string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if image != nil {
		fw, err := w.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestGetEnrichServesForm(t *testing.T) {
	router := newTestRouter(&fakeEnrichService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/enrich", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `enctype="multipart/form-data"`)
}

func TestPostEnrichSuccess(t *testing.T) {
	svc := &fakeEnrichService{
		result: &domain.EnrichResult{
			Detected:    "en",
			Text:        "hello",
			Translation: "hallo",
		},
	}
	router := newTestRouter(svc)

	body, contentType := multipartBody(t, map[string]string{
		"filetype": "jpg",
		"target":   "de",
		"source":   "en",
	}, []byte{0xFF, 0xD8}, "scan.jpg")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/enrich", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.EnrichResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, *svc.result, got)

	assert.Equal(t, "scan.jpg", svc.gotReq.Filename)
	assert.Equal(t, []byte{0xFF, 0xD8}, svc.gotReq.Image)
	assert.Equal(t, "jpg", svc.gotReq.Filetype)
	assert.Equal(t, "en", svc.gotReq.Source)
	assert.Equal(t, "de", svc.gotReq.Target)
}

func TestPostEnrichStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"bad request", domain.BadRequest("No file-type specified."), http.StatusBadRequest},
		{"not found", domain.NotFound("No text detected in image."), http.StatusNotFound},
		{"internal", domain.Internal("Could not store image.", errors.New("disk full")), http.StatusInternalServerError},
		{"transient internal", domain.TransientInternal("Could not translate text.", errors.New("refused")), http.StatusInternalServerError},
		{"untyped", errors.New("surprise"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&fakeEnrichService{err: tt.err})

			body, contentType := multipartBody(t, map[string]string{"target": "de"}, nil, "")

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/enrich", body)
			req.Header.Set("Content-Type", contentType)
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var payload map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
			assert.NotEmpty(t, payload["error"])
		})
	}
}

func TestPostEnrichUntypedErrorIsGeneric(t *testing.T) {
	router := newTestRouter(&fakeEnrichService{err: errors.New("pq: connection reset")})

	body, contentType := multipartBody(t, map[string]string{"target": "de"}, nil, "")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/enrich", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection reset",
		"internal detail must not cross the wire")
}

func TestPostEnrichTooLargeUpload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.App.MaxUploadSize = 4 // below the payload size

	svc := &fakeEnrichService{result: &domain.EnrichResult{Detected: "en", Text: "t", Translation: "t"}}
	h := NewHandler(svc, cfg, zap.NewNop())
	router := gin.New()
	router.POST("/enrich", h.PostEnrich)

	body, contentType := multipartBody(t, map[string]string{
		"filetype": "jpg",
		"target":   "de",
	}, []byte{1, 2, 3, 4, 5, 6}, "big.jpg")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/enrich", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostEnrichTextOnly(t *testing.T) {
	svc := &fakeEnrichService{
		result: &domain.EnrichResult{Detected: "de", Text: "Hallo Welt", Translation: "Hello world"},
	}
	router := newTestRouter(svc)

	body, contentType := multipartBody(t, map[string]string{
		"text":   "SGFsbG8gV2VsdA==",
		"target": "en",
	}, nil, "")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/enrich", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SGFsbG8gV2VsdA==", svc.gotReq.EncodedText)
	assert.Empty(t, svc.gotReq.Image)
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(&fakeEnrichService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
