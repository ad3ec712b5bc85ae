// Package translate talks to a LibreTranslate-compatible service for both
// language detection and translation.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/2lastview/haello-Rest-Service/internal/domain"
)

// UnknownLanguage is the sentinel returned when the service cannot identify
// the language of a text.
const UnknownLanguage = "unk"

// Client is a shared, connection-pooled client for the external service.
// Construct one at startup and inject it wherever detection or translation
// is needed.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	log     *zap.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: timeout},
		log:     log,
	}
}

type detectRequest struct {
	Q      string `json:"q"`
	APIKey string `json:"api_key,omitempty"`
}

type detectResponse struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

// Detect guesses the source language of text. It returns UnknownLanguage
// when the service has no guess.
func (c *Client) Detect(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", domain.Internal("No text specified.", nil)
	}

	var out []detectResponse
	if err := c.post(ctx, "/detect", detectRequest{Q: text, APIKey: c.apiKey}, &out); err != nil {
		return "", domain.TransientInternal("Could not detect language.", err)
	}

	if len(out) == 0 || out[0].Language == "" {
		return UnknownLanguage, nil
	}

	c.log.Debug("Language detected",
		zap.String("language", out[0].Language),
		zap.Float64("confidence", out[0].Confidence))

	return out[0].Language, nil
}

// Translate converts text into target. When source is empty the service
// auto-detects the source language internally.
func (c *Client) Translate(ctx context.Context, text, target, source string) (string, error) {
	if text == "" {
		return "", domain.Internal("No text specified.", nil)
	}
	if target == "" {
		return "", domain.Internal("Target language is not valid.", nil)
	}
	if source == "" {
		source = "auto"
	}

	req := translateRequest{
		Q:      text,
		Source: source,
		Target: target,
		Format: "text",
		APIKey: c.apiKey,
	}

	var out translateResponse
	if err := c.post(ctx, "/translate", req, &out); err != nil {
		return "", domain.TransientInternal("Could not translate text.", err)
	}

	return out.TranslatedText, nil
}

func (c *Client) post(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, string(b))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
