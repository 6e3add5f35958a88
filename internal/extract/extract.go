// Package extract implements the pattern-cascade field extractors for the
// classical OCR path. Each extractor scans the single winning raw text and
// returns a value with a confidence tier; the cascades are declarative tables
// in patterns.go so each rung can be tested on its own.
package extract

// Extraction is one extracted field with its confidence in [0,100].
type Extraction[T any] struct {
	Value      T
	Confidence int
}
