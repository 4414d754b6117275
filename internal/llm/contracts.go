package llm

import "context"

// ExtractRequest carries one receipt image, already encoded for transport.
type ExtractRequest struct {
	ImageDataURL string
	MIMEType     string
}

// VisionExtractor is the interface the extraction pipeline depends on.
// Implementations return the model's raw text content, which may or may
// not be valid JSON; decoding is the caller's concern.
type VisionExtractor interface {
	ExtractReceipt(ctx context.Context, req ExtractRequest) (string, error)
}
