// Package ocr wraps the tesseract engine (via gosseract) behind the typed
// fault taxonomy of the enrichment pipeline.
package ocr

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"os"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"

	"github.com/2lastview/haello-Rest-Service/internal/domain"
)

// Extractor runs tesseract against stored image files. A fresh gosseract
// client is created per call; the underlying engine is not safe for
// concurrent use of a shared client.
type Extractor struct {
	tessdataPrefix string
	timeout        time.Duration
	log            *zap.Logger
}

func NewExtractor(tessdataPrefix string, timeout time.Duration, log *zap.Logger) *Extractor {
	return &Extractor{
		tessdataPrefix: tessdataPrefix,
		timeout:        timeout,
		log:            log,
	}
}

// Extract runs OCR on the image at path. hint, when non-empty, must already
// be a tesseract language identifier (see language.Registry.OCRIdentifier);
// the extractor itself knows nothing about the supported-language set.
//
// Failure modes:
//   - empty or missing path: internal fault (the path is produced by the
//     pipeline, never by the caller)
//   - undecodable image: internal fault
//   - any engine error or timeout: internal fault, opaque
//   - empty engine output: not-found fault
func (e *Extractor) Extract(ctx context.Context, path, hint string) (string, error) {
	e.log.Info("Extracting text from image",
		zap.String("path", path),
		zap.String("hint", hint))

	if path == "" {
		return "", domain.Internal("Path to image is not valid.", nil)
	}
	if _, err := os.Stat(path); err != nil {
		return "", domain.Internal("Path to image is not valid.", err)
	}

	if err := e.decodeCheck(path); err != nil {
		return "", domain.Internal("Could not open image.", err)
	}

	timeout := e.timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)

	go func() {
		text, err := e.runEngine(path, hint)
		ch <- result{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", domain.Internal("Could not extract text from image.", ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return "", domain.Internal("Could not extract text from image.", r.err)
		}
		text := strings.TrimSpace(r.text)
		if text == "" {
			return "", domain.NotFound("No text detected in image.")
		}
		e.log.Debug("Text extracted", zap.Int("length", len(text)))
		return text, nil
	}
}

// decodeCheck verifies the file holds a decodable image before handing it to
// tesseract, so corrupt uploads surface as a distinct fault.
func (e *Extractor) decodeCheck(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, _, err := image.Decode(f); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (e *Extractor) runEngine(path, hint string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if e.tessdataPrefix != "" {
		if err := client.SetTessdataPrefix(e.tessdataPrefix); err != nil {
			return "", fmt.Errorf("set tessdata prefix: %w", err)
		}
	}

	if err := client.SetImage(path); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	if hint != "" {
		if err := client.SetLanguage(hint); err != nil {
			return "", fmt.Errorf("set language: %w", err)
		}
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr: %w", err)
	}
	return text, nil
}
