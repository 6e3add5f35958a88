package extract

import (
	"fmt"
	"time"

	"github.com/gastosbot/receipts-engine/constants"
)

const (
	minYear = 2020
	maxYear = 2030
)

// Date extracts the receipt date as YYYY-MM-DD. Priority patterns (context
// keyword adjacent to the digits) are scanned before bare secondary patterns;
// within a tier, pattern order then match order. A candidate must be a valid
// calendar date, in [2020,2030], and not in the future. A miss yields the
// sentinel with confidence 0, a first-class value rather than an error.
func Date(text string) Extraction[string] {
	return dateAt(text, time.Now())
}

func dateAt(text string, now time.Time) Extraction[string] {
	for _, tier := range [][]datePattern{datePriority, dateSecondary} {
		for _, p := range tier {
			for _, m := range p.re.FindAllStringSubmatch(text, -1) {
				candidate, ok := buildDate(m, p.shape)
				if !ok {
					continue
				}
				if validDate(candidate, now) {
					return Extraction[string]{Value: candidate, Confidence: p.confidence}
				}
			}
		}
	}
	return Extraction[string]{Value: constants.SentinelDate, Confidence: 0}
}

func buildDate(match []string, shape dateShape) (string, bool) {
	switch shape {
	case shapeCode:
		code := match[1]
		if len(code) != 8 {
			return "", false
		}
		return code[:4] + "-" + code[4:6] + "-" + code[6:8], true
	case shapeDMY:
		day, month, year := match[1], match[2], match[3]
		if len(year) == 2 {
			year = "20" + year
		}
		return fmt.Sprintf("%s-%s-%s", year, pad2(month), pad2(day)), true
	case shapeYMD:
		year, month, day := match[1], match[2], match[3]
		return fmt.Sprintf("%s-%s-%s", year, pad2(month), pad2(day)), true
	}
	return "", false
}

func validDate(candidate string, now time.Time) bool {
	parsed, err := time.Parse("2006-01-02", candidate)
	if err != nil {
		return false
	}
	if parsed.Year() < minYear || parsed.Year() > maxYear {
		return false
	}
	return !parsed.After(now)
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
