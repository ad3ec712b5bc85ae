package domain

// EnrichRequest carries the raw fields of one POST /enrich submission.
// Exactly one of Image and EncodedText drives the pipeline; when both are
// present the corrected text wins and the image is ignored.
type EnrichRequest struct {
	Image       []byte
	Filename    string
	Filetype    string
	EncodedText string // base64-encoded corrected text
	Source      string // declared source language code, may be empty
	Target      string // requested target language code
}

// EnrichResult is the response payload of a fully successful enrichment.
// All three fields are non-empty; the orchestrator rejects anything less.
type EnrichResult struct {
	Detected    string `json:"detected"`
	Text        string `json:"text"`
	Translation string `json:"translation"`
}
