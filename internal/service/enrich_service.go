package service

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/2lastview/haello-Rest-Service/internal/domain"
	"github.com/2lastview/haello-Rest-Service/internal/language"
	"github.com/2lastview/haello-Rest-Service/internal/storage"
)

// The only filetype the pipeline currently accepts.
var supportedFiletypes = map[string]struct{}{
	"jpg": {},
}

// Extractor pulls text out of a stored image, optionally steered by a
// tesseract language hint.
type Extractor interface {
	Extract(ctx context.Context, path, hint string) (string, error)
}

// Detector guesses the language of a text blob.
type Detector interface {
	Detect(ctx context.Context, text string) (string, error)
}

// Translator converts text into a target language; an empty source means
// the service auto-detects.
type Translator interface {
	Translate(ctx context.Context, text, target, source string) (string, error)
}

// EnrichService runs the enrichment pipeline for one request: input
// validation, image storage, the extract/detect/re-extract pass, translation
// and result assembly. It holds no per-request state.
type EnrichService interface {
	Enrich(ctx context.Context, req domain.EnrichRequest) (*domain.EnrichResult, error)
}

type enrichService struct {
	reg      *language.Registry
	store    storage.ImageStore
	archiver storage.Archiver // may be nil
	ext      Extractor
	det      Detector
	tr       Translator
	log      *zap.Logger
}

// NewEnrichService wires the pipeline. archiver may be nil to disable
// best-effort mirroring of stored uploads.
func NewEnrichService(
	reg *language.Registry,
	store storage.ImageStore,
	archiver storage.Archiver,
	ext Extractor,
	det Detector,
	tr Translator,
	log *zap.Logger,
) EnrichService {
	return &enrichService{
		reg:      reg,
		store:    store,
		archiver: archiver,
		ext:      ext,
		det:      det,
		tr:       tr,
		log:      log,
	}
}

func (s *enrichService) Enrich(ctx context.Context, req domain.EnrichRequest) (*domain.EnrichResult, error) {
	corrected, err := s.decodeCorrectedText(req.EncodedText)
	if err != nil {
		return nil, err
	}

	// A declared source outside the supported set is silently dropped, not
	// rejected.
	source := strings.ToLower(req.Source)
	if !s.reg.IsSupported(source) {
		source = ""
	}

	// Target validation happens before any storage or OCR work so an invalid
	// target costs no disk write and no engine call.
	target := strings.ToLower(req.Target)
	if target == "" {
		s.log.Debug("400 Bad Request: no target language specified")
		return nil, domain.BadRequest("No language to translate into specified.")
	}
	if !s.reg.IsSupported(target) {
		s.log.Debug("400 Bad Request: unsupported target language",
			zap.String("target", target))
		return nil, domain.BadRequest("This target language is not supported.")
	}

	if corrected == "" && len(req.Image) == 0 && req.Filename == "" {
		s.log.Debug("400 Bad Request: neither image nor text supplied")
		return nil, domain.BadRequest("No image or text to process.")
	}

	var text, detected string
	if corrected != "" {
		// Corrected text wins outright; any uploaded image is ignored. The
		// re-extraction heuristic exists only to compensate for OCR
		// inaccuracy, so it never runs here.
		text = corrected
		detected, err = s.det.Detect(ctx, corrected)
		if err != nil {
			return nil, err
		}
	} else {
		text, detected, err = s.enrichFromImage(ctx, req, source)
		if err != nil {
			return nil, err
		}
	}

	detected = s.detectedLabel(detected)

	// Only the caller-declared source is forwarded; the heuristic guess from
	// the retry pass never steers translation.
	translation, err := s.tr.Translate(ctx, text, target, source)
	if err != nil {
		return nil, err
	}

	result := &domain.EnrichResult{
		Detected:    detected,
		Text:        text,
		Translation: translation,
	}
	if result.Detected == "" || result.Text == "" || result.Translation == "" {
		return nil, domain.Internal("Incomplete enrichment result.", nil)
	}

	s.log.Info("Enrichment completed",
		zap.String("detected", result.Detected),
		zap.String("target", target),
		zap.Bool("corrected", corrected != ""))

	return result, nil
}

// enrichFromImage validates and stores the upload, then runs the
// extract/detect/re-extract pass. It returns the extracted text and the raw
// detected language code.
func (s *enrichService) enrichFromImage(ctx context.Context, req domain.EnrichRequest, source string) (string, string, error) {
	if len(req.Image) == 0 {
		s.log.Debug("400 Bad Request: no image value")
		return "", "", domain.BadRequest("No image to process. No value.")
	}
	if req.Filename == "" {
		s.log.Debug("400 Bad Request: no image filename")
		return "", "", domain.BadRequest("No image to process. No filename.")
	}

	filetype := strings.ToLower(req.Filetype)
	if filetype == "" {
		s.log.Debug("400 Bad Request: no filetype specified")
		return "", "", domain.BadRequest("No file-type specified.")
	}
	if _, ok := supportedFiletypes[filetype]; !ok {
		s.log.Debug("400 Bad Request: unsupported filetype",
			zap.String("filetype", filetype))
		return "", "", domain.BadRequest("No support for this filetype.")
	}

	name := uuid.New().String() + "." + filetype
	path, err := s.store.Save(ctx, name, req.Image)
	if err != nil {
		return "", "", domain.Internal("Server: Could not store image.", err)
	}
	s.archive(ctx, name, req.Image)

	hint := ""
	if source != "" {
		hint, _ = s.reg.OCRIdentifier(source)
	}

	text, err := s.ext.Extract(ctx, path, hint)
	if err != nil {
		return "", "", err
	}

	detected, err := s.det.Detect(ctx, text)
	if err != nil {
		return "", "", err
	}

	// Second pass: tesseract performs noticeably better with an explicit
	// language hint, so when the caller declared no source and the guess is
	// OCR-capable the image is read again. At most once, never recursively.
	if source == "" {
		if id, ok := s.reg.OCRIdentifier(detected); ok {
			s.log.Info("Re-reading image with detected language hint",
				zap.String("detected", detected))
			text, err = s.ext.Extract(ctx, path, id)
			if err != nil {
				return "", "", err
			}
		}
	}

	return text, detected, nil
}

// detectedLabel converts a raw language code into the response form: codes in
// the supported set pass through, OCR-only or foreign codes become
// "detected:<Name>", and unmapped codes become "Unknown".
func (s *enrichService) detectedLabel(code string) string {
	if s.reg.IsSupported(code) {
		return code
	}
	if name, ok := s.reg.DisplayName(code); ok {
		return "detected:" + name
	}
	return "Unknown"
}

func (s *enrichService) decodeCorrectedText(encoded string) (string, error) {
	if encoded == "" {
		return "", nil
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		s.log.Debug("400 Bad Request: corrected text is not valid base64",
			zap.Error(err))
		return "", domain.BadRequest("Corrected text is not valid base64.")
	}
	return string(decoded), nil
}

// archive mirrors the upload to secondary storage; failures only warn.
func (s *enrichService) archive(ctx context.Context, key string, data []byte) {
	if s.archiver == nil {
		return
	}
	if err := s.archiver.Archive(ctx, key, data, "image/jpeg"); err != nil {
		s.log.Warn("Failed to archive upload",
			zap.String("key", key),
			zap.Error(err))
	}
}
