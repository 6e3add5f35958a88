package analyzer

import (
	"log/slog"

	"github.com/gastosbot/receipts-engine/internal/common"
	"github.com/gastosbot/receipts-engine/internal/llm"
	"github.com/gastosbot/receipts-engine/internal/ocr"
)

// FromConfig builds the analyzer variant the configuration selects. The
// returned closer releases engine resources (OCR cache); it is a no-op for
// the vision variant.
func FromConfig(cfg *common.Config, logger *slog.Logger) (ReceiptAnalyzer, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	switch cfg.Analyzer.Mode {
	case "classical":
		selector := ocr.NewSelector(ocr.Config{
			Engines:     cfg.OCR.Engines,
			Tesseract:   cfg.OCR.Tesseract,
			EasyOCR:     cfg.OCR.EasyOCR,
			PaddleOCR:   cfg.OCR.PaddleOCR,
			Lang:        cfg.OCR.Lang,
			ArtifactDir: cfg.OCR.ArtifactDir,
			Window:      cfg.OCR.EngineWindow,
		}, logger)
		return NewClassical(selector, cfg.Analyzer.RetainRawText, logger), selector.Close, nil
	default: // "vision", already validated
		client := llm.NewClient(llm.Config{
			BaseURL:   cfg.Ollama.BaseURL,
			Model:     cfg.Ollama.Model,
			Timeout:   cfg.Ollama.Timeout,
			KeepAlive: cfg.Ollama.KeepAlive,
		}, logger)
		return NewVision(client, cfg.Analyzer.RetainRawText, logger), func() {}, nil
	}
}
