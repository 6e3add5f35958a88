package constants

import "strings"

// SentinelDate marks "no valid date determined". It is a first-class value,
// not an error: results carrying it are still well-formed.
const SentinelDate = "1900-01-01"

// OCR engine identifiers. EngineNone is the sentinel returned when no engine
// produced usable text.
const (
	EngineTesseract = "tesseract"
	EngineEasyOCR   = "easyocr"
	EnginePaddleOCR = "paddleocr"
	EngineNone      = "none"
)

// AllowedExtensions holds the image extensions the analyzers accept.
var AllowedExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsImageExt reports whether ext names a supported receipt image format.
func IsImageExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}
