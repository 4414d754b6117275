package groq

import (
	"log/slog"
	"net/http"
	"os"
	"time"
)

// Config for the Groq chat-completions client. Groq exposes an
// OpenAI-compatible API, so the request/response wire shapes match
// /chat/completions.
type Config struct {
	APIKey      string        // if empty, falls back to env GROQ_OCR
	BaseURL     string        // default https://api.groq.com/openai/v1
	Model       string        // vision-capable model
	Temperature float32       // kept low for factual extraction
	MaxTokens   int           // upper bound to avoid truncation on long receipts
	Timeout     time.Duration // http client timeout
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GROQ_OCR")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "meta-llama/llama-4-scout-17b-16e-instruct"
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.1
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}
