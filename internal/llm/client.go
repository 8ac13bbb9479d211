package llm

import (
	"context"
	"errors"
)

// Prompt is the composed instruction payload for one audit invocation.
// Text-bearing documents are inlined in DocumentText; PDFs travel as a
// binary Attachment for multimodal invocation.
type Prompt struct {
	SystemInstruction string
	DocumentText      string
	Attachment        []byte
	AttachmentMIME    string
}

// Client invokes the external reasoning service.
type Client interface {
	GenerateAudit(ctx context.Context, prompt Prompt) (string, error)
}

// Transport/quota error categories. Implementations wrap the upstream
// error so its diagnostic detail survives errors.Is classification.
var (
	ErrRateLimited = errors.New("model rate limited")
	ErrTimeout     = errors.New("model timeout")
	ErrUnavailable = errors.New("model unavailable")
)

// IsRetryable reports whether an invocation error is a transient transport
// or quota condition worth retrying. Validation failures never are.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrUnavailable)
}
