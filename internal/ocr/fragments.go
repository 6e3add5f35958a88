package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/gastosbot/receipts-engine/constants"
)

// cliEngine adapts an OCR command-line tool that prints detected fragments
// with per-fragment confidences (EasyOCR and PaddleOCR both do). The output
// format drifts between tool versions, so parsing is deliberately tolerant:
// any line carrying a quoted fragment followed by a 0..1 score counts.
type cliEngine struct {
	name   string
	bin    string
	args   func(imagePath string) []string
	runner Runner
	cache  *Cache
	logger *slog.Logger
}

func NewEasyOCR(bin string, runner Runner, cache *Cache, logger *slog.Logger) Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &cliEngine{
		name: constants.EngineEasyOCR,
		bin:  bin,
		args: func(imagePath string) []string {
			return []string{"-l", "es", "en", "-f", imagePath, "--detail", "1"}
		},
		runner: runner,
		cache:  cache,
		logger: logger,
	}
}

func NewPaddleOCR(bin string, runner Runner, cache *Cache, logger *slog.Logger) Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &cliEngine{
		name: constants.EnginePaddleOCR,
		bin:  bin,
		args: func(imagePath string) []string {
			return []string{"--image_dir", imagePath, "--use_angle_cls", "true", "--lang", "es"}
		},
		runner: runner,
		cache:  cache,
		logger: logger,
	}
}

func (e *cliEngine) Name() string { return e.name }

func (e *cliEngine) Recognize(ctx context.Context, imagePath string) (RawResult, error) {
	bin, err := e.cache.Resolve(e.name, e.bin)
	if err != nil {
		return RawResult{Engine: e.name}, err
	}

	out, _, err := e.runner.Run(ctx, bin, e.args(imagePath)...)
	if err != nil {
		return RawResult{Engine: e.name}, fmt.Errorf("%s: %w", e.name, err)
	}

	texts, confidences := parseFragments(string(out))
	if len(texts) == 0 {
		return RawResult{Engine: e.name}, nil
	}

	var sum float64
	for _, c := range confidences {
		sum += c
	}
	res := RawResult{
		Text:       strings.Join(texts, " "),
		Confidence: sum / float64(len(confidences)) * 100,
		Engine:     e.name,
	}
	e.logger.Debug("ocr.cli.done", "engine", e.name, "fragments", len(texts), "confidence", res.Confidence)
	return res, nil
}

// reFragment matches `'text', 0.9876)` / `"text", 0.9876]` tails, the shape
// both tools use when echoing (box, text, score) tuples.
var reFragment = regexp.MustCompile(`['"](.+?)['"]\s*,\s*(?:np\.float\d*\()?([01](?:\.\d+)?(?:[eE]-?\d+)?)\)?\s*[)\]]`)

func parseFragments(out string) ([]string, []float64) {
	var texts []string
	var confidences []float64
	for _, line := range strings.Split(out, "\n") {
		for _, m := range reFragment.FindAllStringSubmatch(line, -1) {
			conf, err := strconv.ParseFloat(m[2], 64)
			if err != nil || conf < 0 || conf > 1 {
				continue
			}
			texts = append(texts, m[1])
			confidences = append(confidences, conf)
		}
	}
	return texts, confidences
}
