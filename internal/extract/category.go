package extract

import (
	"strings"

	"github.com/gastosbot/receipts-engine/constants"
)

// Category predicts the spending category by counting keyword hits (plain
// substring match) over the lowercased raw text plus the extracted title.
// Confidence is min(hits*30, 85). With no signal at all the result is Otros
// at 30: a nonzero floor, since Otros is a legitimate answer rather than a
// failure.
func Category(text, title string) Extraction[constants.Category] {
	haystack := strings.ToLower(text + " " + title)

	best := Extraction[constants.Category]{Value: constants.Otros, Confidence: 30}
	bestScore := 0
	for _, entry := range categoryKeywords {
		score := 0
		for _, kw := range entry.keywords {
			if strings.Contains(haystack, kw) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = Extraction[constants.Category]{
				Value:      entry.category,
				Confidence: min(score*30, 85),
			}
		}
	}
	return best
}
