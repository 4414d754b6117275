package extraction

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/yachiey/ocr-final/internal/entity"
	"github.com/yachiey/ocr-final/internal/llm"
)

// Output is the response contract for one extraction: the reconciled
// structured record plus the model's raw text, kept for debugging/audit.
type Output struct {
	RawText string             `json:"raw_text"`
	Parsed  *entity.Extraction `json:"parsed"`
}

// Service sequences one extraction: encode image, invoke the vision model,
// decode, reconcile, assemble. Stateless; safe for concurrent use.
type Service struct {
	extractor       llm.VisionExtractor
	defaultCurrency string
	logger          *slog.Logger
}

func NewService(extractor llm.VisionExtractor, defaultCurrency string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		extractor:       extractor,
		defaultCurrency: defaultCurrency,
		logger:          logger,
	}
}

// Extract runs the full pipeline for one receipt image. Transport/API
// failures propagate (no automatic retry); decode degradation is absorbed
// into a valid, mostly-null result.
func (s *Service) Extract(ctx context.Context, image []byte, mimeType string) (*Output, error) {
	rid := uuid.New().String()
	start := time.Now()

	s.logger.Info("extract.start",
		"req_id", rid,
		"mime_type", mimeType,
		"image_bytes", len(image),
	)

	dataURL := llm.EncodeDataURL(image, mimeType)
	raw, err := s.extractor.ExtractReceipt(ctx, llm.ExtractRequest{
		ImageDataURL: dataURL,
		MIMEType:     mimeType,
	})
	if err != nil {
		s.logger.Error("extract.upstream_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	parsed, degraded := Decode(raw)
	if degraded {
		s.logger.Warn("extract.decode.fallback",
			"req_id", rid, "raw_len", len(raw),
		)
	} else if b, merr := json.Marshal(parsed); merr == nil {
		if verr := ValidateAgainstSchema(b); verr != nil {
			s.logger.Warn("extract.schema.mismatch", "req_id", rid, "error", verr)
		}
	}

	Reconcile(parsed, s.defaultCurrency)

	s.logger.Info("extract.ok",
		"req_id", rid,
		"degraded", degraded,
		"items", len(parsed.Items),
		"currency", parsed.Totals.Currency,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &Output{RawText: raw, Parsed: parsed}, nil
}
