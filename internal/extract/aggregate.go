package extract

import "math"

// Field weights for the overall score. Amount dominates because it is the
// one mandatory field.
const (
	weightAmount   = 0.4
	weightDate     = 0.2
	weightTitle    = 0.2
	weightCategory = 0.2
)

// Overall combines the four per-field confidences into one weighted score,
// rounded to one decimal place.
func Overall(amount, date, title, category int) float64 {
	v := float64(amount)*weightAmount +
		float64(date)*weightDate +
		float64(title)*weightTitle +
		float64(category)*weightCategory
	return math.Round(v*10) / 10
}
