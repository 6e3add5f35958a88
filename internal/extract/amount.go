package extract

import (
	"math"
	"strconv"
	"strings"
)

const (
	minAmount = 0
	maxAmount = 10000
)

// Amount extracts the paid total from raw receipt text. The priority tier
// returns the first accepted match; the secondary tier collects every
// accepted match across all its patterns and returns the largest VALUE (not
// the highest confidence). The second return is false when nothing matched:
// amount is the one mandatory field, so a miss fails the whole analysis.
func Amount(text string) (Extraction[float64], bool) {
	for _, p := range amountPriority {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			if v, ok := parseAmount(m[1], p.directDecimal); ok {
				return Extraction[float64]{Value: round2(v), Confidence: p.confidence}, true
			}
		}
	}

	var best Extraction[float64]
	found := false
	for _, p := range amountSecondary {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			v, ok := parseAmount(m[1], p.directDecimal)
			if !ok {
				continue
			}
			if !found || v > best.Value {
				best = Extraction[float64]{Value: round2(v), Confidence: p.confidence}
				found = true
			}
		}
	}
	if found {
		return best, true
	}
	return Extraction[float64]{}, false
}

// parseAmount converts a matched token to a value and applies the range gate.
// The default rule treats dots as thousands separators and the comma as the
// decimal point; directDecimal parses the token verbatim.
func parseAmount(token string, directDecimal bool) (float64, bool) {
	var cleaned string
	if directDecimal {
		cleaned = token
	} else {
		cleaned = strings.ReplaceAll(token, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	if v <= minAmount || v >= maxAmount {
		return 0, false
	}
	return v, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
