package domain

import "fmt"

// FaultKind classifies a pipeline failure for HTTP status mapping.
type FaultKind int

const (
	// FaultBadRequest covers malformed or unsupported caller input (400).
	FaultBadRequest FaultKind = iota
	// FaultNotFound marks a genuinely textless image (404). The request was
	// well-formed; the content had nothing to extract.
	FaultNotFound
	// FaultInternal covers storage, OCR engine, translation service and
	// invariant failures (500).
	FaultInternal
)

// Fault is the error boundary around every pipeline step. It carries the
// public message sent to the caller, the wrapped cause for internal logging,
// and whether the failure looks transient (network, remote 5xx) or permanent.
type Fault struct {
	Kind      FaultKind
	Transient bool
	Message   string
	Err       error
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", f.Message, f.Err)
	}
	return f.Message
}

func (f *Fault) Unwrap() error { return f.Err }

// BadRequest builds a caller fault with the given public message.
func BadRequest(message string) *Fault {
	return &Fault{Kind: FaultBadRequest, Message: message}
}

// NotFound builds a not-found fault with the given public message.
func NotFound(message string) *Fault {
	return &Fault{Kind: FaultNotFound, Message: message}
}

// Internal builds a permanent server fault wrapping err.
func Internal(message string, err error) *Fault {
	return &Fault{Kind: FaultInternal, Message: message, Err: err}
}

// TransientInternal builds a server fault for failures that may succeed on a
// later attempt, such as an unreachable translation service.
func TransientInternal(message string, err error) *Fault {
	return &Fault{Kind: FaultInternal, Transient: true, Message: message, Err: err}
}
