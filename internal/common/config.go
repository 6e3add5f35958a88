package common

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Analyzer AnalyzerConfig
	OCR      OCRConfig
	Ollama   OllamaConfig
	Storage  StorageConfig
	Bot      BotConfig
}

// AnalyzerConfig selects the extraction strategy and output shape.
type AnalyzerConfig struct {
	Mode          string // "classical" | "vision"
	RetainRawText bool   // include raw OCR/model text in results
}

// OCRConfig holds the classical multi-engine path configuration.
type OCRConfig struct {
	Engines      []string // ordered; ties in scoring break on this order
	Tesseract    string   // binary name or absolute path; if empty -> "tesseract"
	EasyOCR      string
	PaddleOCR    string
	Lang         string // tesseract language spec, default "spa+eng"
	ArtifactDir  string // temp dir for preprocessed images
	EngineWindow time.Duration
}

// OllamaConfig holds the vision-model path configuration.
type OllamaConfig struct {
	BaseURL   string
	Model     string
	Timeout   time.Duration
	KeepAlive int // seconds the host keeps the model loaded; 0 = unload after each call
}

// StorageConfig holds expense persistence configuration.
type StorageConfig struct {
	DataDir     string
	CSVFile     string
	ReceiptsDir string
	DatabaseURL string // postgres:// or sqlite:// DSN; empty disables the relational store
}

// BotConfig holds the Telegram collaborator configuration.
type BotConfig struct {
	Token  string
	Payers []string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	dataDir := getEnv("DATA_DIR", "data")
	return &Config{
		Analyzer: AnalyzerConfig{
			Mode:          getEnv("ANALYZER_MODE", "vision"),
			RetainRawText: getEnvAsBool("STORE_RAW_TEXT", false),
		},
		OCR: OCRConfig{
			Engines:      splitList(getEnv("OCR_ENGINES", "tesseract,easyocr,paddleocr")),
			Tesseract:    getEnv("TESSERACT_BIN", "tesseract"),
			EasyOCR:      getEnv("EASYOCR_BIN", "easyocr"),
			PaddleOCR:    getEnv("PADDLEOCR_BIN", "paddleocr"),
			Lang:         getEnv("TESSERACT_LANG", "spa+eng"),
			ArtifactDir:  getEnv("ARTIFACT_CACHE_DIR", "./tmp"),
			EngineWindow: getEnvAsDuration("OCR_ENGINE_TIMEOUT", 90*time.Second),
		},
		Ollama: OllamaConfig{
			BaseURL:   getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			Model:     getEnv("OLLAMA_MODEL", "qwen3-vl:4b-instruct"),
			Timeout:   getEnvAsDuration("OLLAMA_TIMEOUT", 120*time.Second),
			KeepAlive: getEnvAsInt("OLLAMA_KEEP_ALIVE", 0),
		},
		Storage: StorageConfig{
			DataDir:     dataDir,
			CSVFile:     getEnv("CSV_FILE", filepath.Join(dataDir, "expenses.csv")),
			ReceiptsDir: getEnv("RECEIPTS_DIR", filepath.Join(dataDir, "receipts")),
			DatabaseURL: getEnv("DATABASE_URL", ""),
		},
		Bot: BotConfig{
			Token:  getEnv("TELEGRAM_BOT_TOKEN", ""),
			Payers: splitList(getEnv("PAYERS", "Exe,Ceci")),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "1" || strings.EqualFold(value, "true")
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// bare integers are treated as seconds
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate checks the loaded configuration for the selected mode.
func (c *Config) Validate() error {
	switch c.Analyzer.Mode {
	case "classical":
		if len(c.OCR.Engines) == 0 {
			return NewAppError("CONFIG_ERROR", "OCR_ENGINES must name at least one engine", nil)
		}
	case "vision":
		if c.Ollama.BaseURL == "" {
			return NewAppError("CONFIG_ERROR", "OLLAMA_BASE_URL is required", nil)
		}
		if c.Ollama.Model == "" {
			return NewAppError("CONFIG_ERROR", "OLLAMA_MODEL is required", nil)
		}
	default:
		return NewAppError("CONFIG_ERROR", "ANALYZER_MODE must be classical or vision", nil)
	}
	return nil
}
