package groq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yachiey/ocr-final/internal/common"
	"github.com/yachiey/ocr-final/internal/llm"
)

// ExtractReceipt implements llm.VisionExtractor over chat/completions with
// a two-part user message: the extraction prompt and the image data URL.
func (c *Client) ExtractReceipt(ctx context.Context, req llm.ExtractRequest) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"max_tokens", c.cfg.MaxTokens,
		"mime_type", req.MIMEType,
		"data_url_len", len(req.ImageDataURL),
	)

	body := map[string]any{
		"model": c.cfg.Model,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "text", "text": llm.ExtractionPrompt},
					{"type": "image_url", "image_url": map[string]any{"url": req.ImageDataURL}},
				},
			},
		},
		"temperature": c.cfg.Temperature,
		"max_tokens":  c.cfg.MaxTokens,
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	raw, status, err := llm.SendJSON(ctx, c.http, endpoint, body, headers, c.logger)
	if err != nil {
		c.logger.Error("llm.extract.http_error",
			"req_id", rid, "status", status, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		if status != 0 {
			return "", &common.UpstreamError{StatusCode: status, Body: string(raw)}
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("vision api timeout after %s: %w", c.cfg.Timeout, err)
		}
		return "", fmt.Errorf("vision api request: %w", err)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.logger.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("decode chat completion: %w", err)
	}
	if len(cc.Choices) == 0 {
		c.logger.Error("llm.extract.no_choices",
			"req_id", rid, "raw", string(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("no choices in chat completion")
	}

	content := strings.TrimSpace(cc.Choices[0].Message.Content)
	c.logger.Info("llm.extract.ok",
		"req_id", rid,
		"content_len", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}
