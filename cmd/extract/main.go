package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/yachiey/ocr-final/internal/common"
	"github.com/yachiey/ocr-final/internal/extraction"
	"github.com/yachiey/ocr-final/internal/llm/groq"
)

// One-shot extraction: reads an image file, runs the pipeline, and prints
// the reconciled JSON. Needs GROQ_OCR; no database required.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: extract <image-path>")
		os.Exit(2)
	}
	path := os.Args[1]

	cfg := common.LoadConfig()
	if cfg.LLM.APIKey == "" {
		fmt.Fprintln(os.Stderr, "GROQ_OCR env var is required")
		os.Exit(1)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read image: %v\n", err)
		os.Exit(1)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := groq.NewClient(groq.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	svc := extraction.NewService(client, cfg.Extraction.DefaultCurrency, logger)

	out, err := svc.Extract(ctx, data, mimeType)
	if err != nil {
		fmt.Fprintf(os.Stderr, "extract: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "encode output: %v\n", err)
		os.Exit(1)
	}
}
