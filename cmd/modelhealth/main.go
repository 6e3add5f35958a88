package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gastosbot/receipts-engine/internal/common"
	"github.com/gastosbot/receipts-engine/internal/llm"
)

// modelhealth probes the configured Ollama host and reports whether the
// vision model is available. Exit 0 = available, 1 = missing or unreachable.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	client := llm.NewClient(llm.Config{
		BaseURL:   cfg.Ollama.BaseURL,
		Model:     cfg.Ollama.Model,
		Timeout:   cfg.Ollama.Timeout,
		KeepAlive: cfg.Ollama.KeepAlive,
	}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ok, err := client.CheckConnection(ctx)
	if err != nil {
		logger.Error("model host unreachable", "base_url", cfg.Ollama.BaseURL, "error", err)
		os.Exit(1)
	}
	if !ok {
		logger.Error("model not available", "model", cfg.Ollama.Model)
		os.Exit(1)
	}
	logger.Info("model available", "model", cfg.Ollama.Model)
}
