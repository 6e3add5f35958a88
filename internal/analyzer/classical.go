package analyzer

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/gastosbot/receipts-engine/constants"
	"github.com/gastosbot/receipts-engine/internal/common"
	"github.com/gastosbot/receipts-engine/internal/entity"
	"github.com/gastosbot/receipts-engine/internal/extract"
	"github.com/gastosbot/receipts-engine/internal/ocr"
)

// TextSource acquires raw text for an image. *ocr.Selector is the production
// implementation.
type TextSource interface {
	BestText(ctx context.Context, imagePath string) ocr.RawResult
}

// Classical analyzes receipts with multi-engine OCR plus the pattern-cascade
// extractors.
type Classical struct {
	selector      TextSource
	retainRawText bool
	logger        *slog.Logger
}

func NewClassical(selector TextSource, retainRawText bool, logger *slog.Logger) *Classical {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classical{selector: selector, retainRawText: retainRawText, logger: logger}
}

// Analyze runs acquisition, the four field extractors, and aggregation.
// Two conditions are fatal: no engine produced text (ErrNoTextExtracted) and
// no amount pattern matched (ErrAmountNotFound). There is never a partial
// record: date, title and category all have in-band fallback values, amount
// does not.
func (a *Classical) Analyze(ctx context.Context, imagePath string) (*entity.AnalysisResult, error) {
	best := a.selector.BestText(ctx, imagePath)
	if best.Engine == constants.EngineNone || strings.TrimSpace(best.Text) == "" {
		a.logger.Warn("analyze.no_text", "path", imagePath)
		return nil, common.ErrNoTextExtracted
	}

	amount, found := extract.Amount(best.Text)
	date := extract.Date(best.Text)
	title := extract.Title(best.Text)
	category := extract.Category(best.Text, title.Value)

	if !found {
		a.logger.Warn("analyze.amount_not_found",
			"path", imagePath, "engine", best.Engine, "chars", len(best.Text))
		return nil, common.ErrAmountNotFound
	}

	result := &entity.AnalysisResult{
		Amount:             amount.Value,
		AmountConfidence:   amount.Confidence,
		Date:               date.Value,
		DateConfidence:     date.Confidence,
		Title:              title.Value,
		TitleConfidence:    title.Confidence,
		Category:           category.Value,
		CategoryConfidence: category.Confidence,
		OverallConfidence:  extract.Overall(amount.Confidence, date.Confidence, title.Confidence, category.Confidence),
		Engine:             best.Engine,
		EngineConfidence:   roundTenth(best.Confidence),
	}
	if a.retainRawText {
		result.RawText = best.Text
	}

	a.logger.Info("analyze.ok",
		"path", imagePath,
		"engine", best.Engine,
		"amount", result.Amount,
		"date", result.Date,
		"category", result.Category,
		"overall_confidence", result.OverallConfidence,
	)
	return result, nil
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
