// Package analyzer orchestrates acquisition, extraction/validation, and
// aggregation into one normalized result per receipt image. Two
// interchangeable strategies exist: the classical multi-engine OCR path and
// the vision-model path. Callers pick one via configuration.
package analyzer

import (
	"context"

	"github.com/gastosbot/receipts-engine/internal/entity"
)

// ReceiptAnalyzer is the capability both strategies implement. A nil result
// is never paired with a nil error: the call either yields one complete
// record or a typed failure.
type ReceiptAnalyzer interface {
	Analyze(ctx context.Context, imagePath string) (*entity.AnalysisResult, error)
}
