package extract

import (
	"regexp"

	"github.com/gastosbot/receipts-engine/constants"
)

// amountToken matches a European-formatted money token: optional dot-grouped
// thousands, comma or dot before the two decimal digits.
const amountToken = `(\d{1,6}(?:[.,]\d{3})*[.,]\d{2})`

type amountPattern struct {
	re         *regexp.Regexp
	confidence int
	// directDecimal parses the token as-is with a dot decimal point instead
	// of the European strip-dots-then-comma rule. Only the bare EUR-suffix
	// pattern behaves this way; the two rules are intentionally not unified.
	directDecimal bool
}

// Priority tier: first accepted match wins outright.
var amountPriority = []amountPattern{
	{re: regexp.MustCompile(`(?is)IMPORTE\s*TARJETA[^\d]*` + amountToken), confidence: 95},
	{re: regexp.MustCompile(`(?is)IMPORTE\s*PAGADO[^\d]*` + amountToken), confidence: 95},
	{re: regexp.MustCompile(`(?is)TOTAL\s*A\s*PAGAR[^\d€]*` + amountToken), confidence: 90},
	{re: regexp.MustCompile(`(?is)A\s*PAGAR[^\d€]*` + amountToken + `\s*EUR`), confidence: 90},
}

// Secondary tier: every accepted match is collected and the LARGEST value
// wins, carrying its own pattern confidence.
var amountSecondary = []amountPattern{
	{re: regexp.MustCompile(`(?is)` + amountToken + `\s*EUR`), confidence: 85, directDecimal: true},
	{re: regexp.MustCompile(`(?is)TOTAL\s*(?:DE\s*COMPRA|COMPRA)[^\d€]*` + amountToken), confidence: 80},
	{re: regexp.MustCompile(`(?is)TOTAL[^\d€]*` + amountToken), confidence: 70},
	{re: regexp.MustCompile(`(?is)IMPORTE[^\d€]*` + amountToken), confidence: 60},
}

type dateShape int

const (
	shapeCode dateShape = iota // compact YYYYMMDD
	shapeDMY
	shapeYMD
)

type datePattern struct {
	re         *regexp.Regexp
	shape      dateShape
	confidence int
}

// Priority tier requires a contextual keyword next to the digits.
var datePriority = []datePattern{
	{re: regexp.MustCompile(`(?i)(?:fecha|date|dia|ticket|operation)[^\d]*(20[2-4][0-9](?:0[1-9]|1[0-2])(?:0[1-9]|[12][0-9]|3[01]))`), shape: shapeCode, confidence: 90},
	{re: regexp.MustCompile(`(?i)(?:fecha|date|dia)[^\d]*(\d{1,2})[/-](\d{1,2})[/-](20[2-4][0-9])`), shape: shapeDMY, confidence: 90},
	{re: regexp.MustCompile(`(?i)(?:fecha|date|dia)[^\d]*(20[2-4][0-9])[/-](\d{1,2})[/-](\d{1,2})`), shape: shapeYMD, confidence: 90},
}

// Secondary tier accepts bare numeric dates; two-digit years get a 20 prefix.
var dateSecondary = []datePattern{
	{re: regexp.MustCompile(`(20[2-4][0-9])[/-](\d{1,2})[/-](\d{1,2})`), shape: shapeYMD, confidence: 70},
	{re: regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](20[2-4][0-9])`), shape: shapeDMY, confidence: 70},
	{re: regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](2[0-9])`), shape: shapeDMY, confidence: 60},
	{re: regexp.MustCompile(`(20[2-4][0-9](?:0[1-9]|1[0-2])(?:0[1-9]|[12][0-9]|3[01]))`), shape: shapeCode, confidence: 50},
}

// categoryKeywords drives keyword scoring. Otros carries no keywords and is
// only ever the fallback. Order matters: score ties resolve to the first
// entry.
var categoryKeywords = []struct {
	category constants.Category
	keywords []string
}{
	{constants.Comida, []string{
		"supermerc", "alimenta", "restaur", "cafe", "bar", "comida",
		"mercado", "carniceria", "panaderia", "dia", "mercadona", "carrefour",
	}},
	{constants.Transporte, []string{
		"gasolina", "combustible", "parking", "taxi", "uber",
		"metro", "bus", "tren", "peaje", "autopista",
	}},
	{constants.Compras, []string{
		"optic", "ropa", "zapato", "moda", "tienda", "store",
		"electronica", "mueble", "decathlon",
	}},
	{constants.Entretenimiento, []string{
		"cine", "teatro", "concert", "museo", "parque",
		"juego", "deporte", "gym",
	}},
}
