package entity

import "github.com/gastosbot/receipts-engine/constants"

// AnalysisResult is the normalized record produced by one analysis call.
// It is constructed once, handed to the caller, and never mutated afterward.
// JSON tags match the record keys the downstream expense tracker consumes.
type AnalysisResult struct {
	Amount             float64            `json:"amount"`
	AmountConfidence   int                `json:"amount_confidence"`
	Date               string             `json:"date"` // YYYY-MM-DD, sentinel allowed
	DateConfidence     int                `json:"date_confidence"`
	Title              string             `json:"title"`
	TitleConfidence    int                `json:"title_confidence"`
	Category           constants.Category `json:"category"`
	CategoryConfidence int                `json:"category_confidence"`
	OverallConfidence  float64            `json:"overall_confidence"`
	Engine             string             `json:"ocr_engine"`
	EngineConfidence   float64            `json:"ocr_confidence"`
	RawText            string             `json:"raw_text,omitempty"`
	Model              string             `json:"model,omitempty"`
}
