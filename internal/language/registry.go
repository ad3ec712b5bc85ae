// Package language holds the static language tables used across the
// enrichment pipeline: the translation-supported set, the tesseract
// identifiers for OCR-capable languages, and human-readable display names.
package language

// Registry maps two-letter language codes onto the identifiers the rest of
// the system needs. It is built once at startup and never mutated.
type Registry struct {
	supported map[string]struct{}
	tesseract map[string]string
	names     map[string]string
}

// NewRegistry builds the registry. The translation-supported set {en,de,it}
// is a strict subset of the OCR-capable set: fr, es and sv are detectable and
// usable as OCR hints but never selectable as translation targets.
func NewRegistry() *Registry {
	return &Registry{
		supported: map[string]struct{}{
			"en": {},
			"de": {},
			"it": {},
		},
		tesseract: map[string]string{
			"en": "eng",
			"de": "deu",
			"it": "ita",
			"fr": "fra",
			"es": "spa",
			"sv": "swe",
		},
		names: map[string]string{
			"ar": "Arabic",
			"cs": "Czech",
			"da": "Danish",
			"de": "German",
			"el": "Greek",
			"en": "English",
			"es": "Spanish",
			"fi": "Finnish",
			"fr": "French",
			"hu": "Hungarian",
			"it": "Italian",
			"ja": "Japanese",
			"nl": "Dutch",
			"no": "Norwegian",
			"pl": "Polish",
			"pt": "Portuguese",
			"ro": "Romanian",
			"ru": "Russian",
			"sv": "Swedish",
			"tr": "Turkish",
			"zh": "Chinese",
		},
	}
}

// IsSupported reports whether code is in the translation-supported set.
func (r *Registry) IsSupported(code string) bool {
	_, ok := r.supported[code]
	return ok
}

// OCRIdentifier returns the tesseract language code for code. The second
// return value is false when the language cannot be used as an OCR hint.
func (r *Registry) OCRIdentifier(code string) (string, bool) {
	id, ok := r.tesseract[code]
	return id, ok
}

// DisplayName returns the human-readable name for code. The second return
// value is false when the registry has no mapping; callers are expected to
// fall back to "Unknown".
func (r *Registry) DisplayName(code string) (string, bool) {
	name, ok := r.names[code]
	return name, ok
}
