package llm

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gastosbot/receipts-engine/constants"
	"github.com/gastosbot/receipts-engine/internal/common"
	"github.com/gastosbot/receipts-engine/internal/entity"
)

const maxModelAmount = 100000

// Fields is a normalized model reply: types coerced, ranges enforced,
// category guaranteed to be inside the closed set.
type Fields struct {
	Amount     float64
	Date       string
	Title      string
	Category   constants.Category
	Confidence int
}

// Normalize enforces the field rules independently:
//   - amount must coerce to a number in [0, 100000) or the call fails with
//     ErrInvalidAmount;
//   - an unparseable date silently demotes to the sentinel (recoverable, not
//     an error), while a parseable date outside [2020, now] is accepted with
//     a warning; the model path is laxer here than the classical extractor;
//   - an unknown category coerces to Otros;
//   - title defaults to "Sin título" and truncates at 100 characters;
//   - confidence clamps to [0,100], defaulting to 50 when uncoercible.
func Normalize(raw RawFields, logger *slog.Logger) (Fields, error) {
	if logger == nil {
		logger = slog.Default()
	}
	return normalizeAt(raw, logger, time.Now())
}

func normalizeAt(raw RawFields, logger *slog.Logger, now time.Time) (Fields, error) {
	amount, ok := coerceFloat(raw["amount"])
	if !ok || amount < 0 || amount >= maxModelAmount {
		return Fields{}, fmt.Errorf("%w: %v", common.ErrInvalidAmount, raw["amount"])
	}

	date := strings.TrimSpace(coerceString(raw["date"]))
	if date == "" || date == constants.SentinelDate {
		date = constants.SentinelDate
	} else if parsed, err := time.Parse("2006-01-02", date); err != nil {
		logger.Warn("llm.normalize.date_unparseable", "date", date)
		date = constants.SentinelDate
	} else if parsed.Year() < 2020 || parsed.After(now) {
		logger.Warn("llm.normalize.date_out_of_range", "date", date)
	}

	rawCategory := strings.TrimSpace(coerceString(raw["category"]))
	category, valid := constants.Coerce(rawCategory)
	if !valid {
		logger.Warn("llm.normalize.category_coerced", "label", rawCategory)
	}

	title := strings.TrimSpace(coerceString(raw["title"]))
	if title == "" {
		title = "Sin título"
	}
	if r := []rune(title); len(r) > 100 {
		title = string(r[:100])
	}

	confidence, ok := coerceInt(raw["confidence"])
	if !ok {
		confidence = 50
	}
	confidence = max(0, min(100, confidence))

	return Fields{
		Amount:     math.Round(amount*100) / 100,
		Date:       date,
		Title:      title,
		Category:   category,
		Confidence: confidence,
	}, nil
}

// ToResult maps normalized fields onto the common result shape. Every field
// confidence carries the single model confidence, except the date: a
// sentinel date always reports confidence 0, no matter how sure the model
// claimed to be. Overall confidence is the model confidence verbatim; no
// weighted recombination on this path.
func (f Fields) ToResult(model, rawReply string) *entity.AnalysisResult {
	dateConf := f.Confidence
	if f.Date == constants.SentinelDate {
		dateConf = 0
	}
	return &entity.AnalysisResult{
		Amount:             f.Amount,
		AmountConfidence:   f.Confidence,
		Date:               f.Date,
		DateConfidence:     dateConf,
		Title:              f.Title,
		TitleConfidence:    f.Confidence,
		Category:           f.Category,
		CategoryConfidence: f.Confidence,
		OverallConfidence:  float64(f.Confidence),
		Engine:             "ollama-" + model,
		EngineConfidence:   float64(f.Confidence),
		RawText:            rawReply,
		Model:              model,
	}
}

func coerceFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func coerceInt(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(t))
		return i, err == nil
	default:
		return 0, false
	}
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}
