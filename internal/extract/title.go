package extract

import (
	"regexp"
	"strings"
)

// DefaultTitle is returned when no usable merchant line exists.
const DefaultTitle = "Sin título"

const titleMaxLen = 50

var (
	reDigits   = regexp.MustCompile(`\d+`)
	reNonTitle = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
)

// Title extracts the merchant name from the first three lines of raw text.
// Confidence is positional (85/70/50); the first line that cleans up to at
// least three characters wins, even if a later line would be cleaner.
func Title(text string) Extraction[string] {
	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines) && i < 3; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		title := reDigits.ReplaceAllString(line, "")
		title = reNonTitle.ReplaceAllString(title, "")
		title = strings.Join(strings.Fields(title), " ")

		if len([]rune(title)) < 3 {
			continue
		}
		if r := []rune(title); len(r) > titleMaxLen {
			title = string(r[:titleMaxLen])
		}

		confidence := 50
		switch i {
		case 0:
			confidence = 85
		case 1:
			confidence = 70
		}
		return Extraction[string]{Value: title, Confidence: confidence}
	}
	return Extraction[string]{Value: DefaultTitle, Confidence: 0}
}
