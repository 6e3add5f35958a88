package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gastosbot/receipts-engine/constants"
)

// Tesseract runs the tesseract binary twice per image: once on the raw file
// and once on an advanced-preprocessed copy, then keeps the better run. Clear
// prints usually win raw; crumpled or low-contrast receipts win preprocessed.
type Tesseract struct {
	bin         string
	lang        string
	artifactDir string
	runner      Runner
	cache       *Cache
	logger      *slog.Logger
}

func NewTesseract(bin, lang, artifactDir string, runner Runner, cache *Cache, logger *slog.Logger) *Tesseract {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tesseract{bin: bin, lang: lang, artifactDir: artifactDir, runner: runner, cache: cache, logger: logger}
}

func (t *Tesseract) Name() string { return constants.EngineTesseract }

func (t *Tesseract) Recognize(ctx context.Context, imagePath string) (RawResult, error) {
	bin, err := t.cache.Resolve(t.Name(), t.bin)
	if err != nil {
		return RawResult{Engine: t.Name()}, err
	}

	rawText, rawConf, rawErr := t.run(ctx, bin, imagePath)

	advText, advConf := "", 0.0
	advPath, cleanup, prepErr := PreprocessAdvanced(imagePath, t.artifactDir)
	if prepErr != nil {
		t.logger.Warn("ocr.tesseract.preprocess_failed", "path", imagePath, "error", prepErr)
	} else {
		defer cleanup()
		var advErr error
		advText, advConf, advErr = t.run(ctx, bin, advPath)
		if advErr != nil {
			t.logger.Warn("ocr.tesseract.advanced_run_failed", "error", advErr)
			advText, advConf = "", 0
		}
	}
	if rawErr != nil {
		t.logger.Warn("ocr.tesseract.raw_run_failed", "error", rawErr)
		if advText == "" && advConf == 0 {
			return RawResult{Engine: t.Name()}, fmt.Errorf("tesseract: %w", rawErr)
		}
		rawText, rawConf = "", 0
	}

	// Prefer the raw run when it reads substantially more text at decent
	// confidence; otherwise keep whichever run maximizes length x confidence.
	text, conf, method := advText, advConf, "advanced"
	if float64(len(rawText)) > float64(len(advText))*1.2 && rawConf > 50 {
		text, conf, method = rawText, rawConf, "raw"
	} else if float64(len(rawText))*(rawConf/100) > float64(len(advText))*(advConf/100) {
		text, conf, method = rawText, rawConf, "raw"
	}

	t.logger.Debug("ocr.tesseract.done",
		"method", method, "chars", len(text), "confidence", conf)
	return RawResult{Text: text, Confidence: conf, Engine: t.Name()}, nil
}

// run performs one OCR pass: plain stdout for the text, TSV mode for the
// per-word confidences.
func (t *Tesseract) run(ctx context.Context, bin, imagePath string) (string, float64, error) {
	out, _, err := t.runner.Run(ctx, bin, imagePath, "stdout", "-l", t.lang)
	if err != nil {
		return "", 0, fmt.Errorf("tesseract text: %w", err)
	}

	tsv, _, err := t.runner.Run(ctx, bin, imagePath, "stdout", "-l", t.lang, "tsv")
	if err != nil {
		return "", 0, fmt.Errorf("tesseract tsv: %w", err)
	}
	return string(out), meanWordConfidence(string(tsv)), nil
}

// meanWordConfidence averages the conf column of tesseract TSV output,
// discarding non-positive values (structural rows report -1).
func meanWordConfidence(tsv string) float64 {
	var sum float64
	var n int
	for i, line := range strings.Split(tsv, "\n") {
		if i == 0 || line == "" { // header
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 12 {
			continue
		}
		v, err := strconv.ParseFloat(cols[10], 64)
		if err != nil || v <= 0 {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
