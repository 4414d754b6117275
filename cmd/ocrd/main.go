package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yachiey/ocr-final/internal/common"
	"github.com/yachiey/ocr-final/internal/export"
	"github.com/yachiey/ocr-final/internal/extraction"
	"github.com/yachiey/ocr-final/internal/llm/groq"
	"github.com/yachiey/ocr-final/internal/repository"
	"github.com/yachiey/ocr-final/internal/server"
	"github.com/yachiey/ocr-final/internal/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Persistence is optional: without DB_URL the daemon extracts but does
	// not store results.
	var (
		results server.Pinger
		repo    repository.ResultRepository
		expsvc  *export.Service
	)
	if cfg.Database.DSN != "" {
		pool, err := repository.Open(ctx, cfg.Database, logger)
		if err != nil {
			logger.Error("open database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := repository.EnsureSchema(ctx, pool); err != nil {
			logger.Error("ensure schema", "error", err)
			os.Exit(1)
		}
		results = pool
		repo = repository.NewResultRepository(pool, logger)
		expsvc = export.NewService(repo, logger)
	} else {
		logger.Warn("DB_URL not set; running without persistence")
	}

	images, err := storage.NewLocalStorage(cfg.Storage.Dir)
	if err != nil {
		logger.Error("open image storage", "error", err)
		os.Exit(1)
	}

	client := groq.NewClient(groq.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	svc := extraction.NewService(client, cfg.Extraction.DefaultCurrency, logger)

	srv := server.New(cfg.Server.HTTPAddr, svc, repo, expsvc, images, results, logger)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	logger.Info("stopped")
}
