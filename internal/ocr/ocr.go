// Package ocr implements the multi-engine text acquisition layer. Every
// engine is an adapter over an external OCR binary driven through the Runner
// interface; a Selector runs all configured engines and keeps the best-scored
// result. One engine failing never aborts an analysis.
package ocr

import (
	"context"
	"log/slog"
	"time"

	"github.com/gastosbot/receipts-engine/constants"
)

// RawResult is one engine's attempt at a receipt image. Confidence is on the
// 0..100 scale regardless of what the underlying engine reports natively.
type RawResult struct {
	Text       string
	Confidence float64
	Engine     string
}

// Engine is one OCR backend.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, imagePath string) (RawResult, error)
}

// Config assembles the engine set for a Selector.
type Config struct {
	Engines     []string // ordered subset of tesseract|easyocr|paddleocr
	Tesseract   string   // binary name or absolute path; if empty -> "tesseract"
	EasyOCR     string
	PaddleOCR   string
	Lang        string        // tesseract language spec, default "spa+eng"
	ArtifactDir string        // scratch dir for preprocessed images
	Window      time.Duration // per-engine deadline; 0 means no limit
}

// NewSelector builds a Selector with one adapter per configured engine, all
// sharing an exec runner and a resource cache.
func NewSelector(cfg Config, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.EasyOCR == "" {
		cfg.EasyOCR = "easyocr"
	}
	if cfg.PaddleOCR == "" {
		cfg.PaddleOCR = "paddleocr"
	}
	if cfg.Lang == "" {
		cfg.Lang = "spa+eng"
	}
	if len(cfg.Engines) == 0 {
		cfg.Engines = []string{constants.EngineTesseract, constants.EngineEasyOCR, constants.EnginePaddleOCR}
	}

	runner := newExecRunner(logger)
	cache := NewCache()
	engines := make([]Engine, 0, len(cfg.Engines))
	for _, name := range cfg.Engines {
		switch name {
		case constants.EngineTesseract:
			engines = append(engines, NewTesseract(cfg.Tesseract, cfg.Lang, cfg.ArtifactDir, runner, cache, logger))
		case constants.EngineEasyOCR:
			engines = append(engines, NewEasyOCR(cfg.EasyOCR, runner, cache, logger))
		case constants.EnginePaddleOCR:
			engines = append(engines, NewPaddleOCR(cfg.PaddleOCR, runner, cache, logger))
		default:
			logger.Warn("ocr.config.unknown_engine", "engine", name)
		}
	}
	return &Selector{engines: engines, cache: cache, window: cfg.Window, logger: logger}
}
