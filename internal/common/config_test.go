package common

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.Analyzer.Mode != "vision" {
		t.Errorf("mode = %q, want vision", cfg.Analyzer.Mode)
	}
	if len(cfg.OCR.Engines) != 3 {
		t.Errorf("engines = %v, want all three", cfg.OCR.Engines)
	}
	if cfg.Ollama.Model != "qwen3-vl:4b-instruct" {
		t.Errorf("model = %q", cfg.Ollama.Model)
	}
	if cfg.Ollama.Timeout != 120*time.Second {
		t.Errorf("timeout = %v", cfg.Ollama.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("ANALYZER_MODE", "classical")
	t.Setenv("OCR_ENGINES", "tesseract, easyocr")
	t.Setenv("OLLAMA_TIMEOUT", "45")
	t.Setenv("OCR_ENGINE_TIMEOUT", "2m")
	t.Setenv("STORE_RAW_TEXT", "true")
	t.Setenv("PAYERS", "Ana,Luis,")

	cfg := LoadConfig()

	if cfg.Analyzer.Mode != "classical" {
		t.Errorf("mode = %q", cfg.Analyzer.Mode)
	}
	if len(cfg.OCR.Engines) != 2 || cfg.OCR.Engines[1] != "easyocr" {
		t.Errorf("engines = %v, want trimmed pair", cfg.OCR.Engines)
	}
	if cfg.Ollama.Timeout != 45*time.Second {
		t.Errorf("timeout = %v, want bare seconds accepted", cfg.Ollama.Timeout)
	}
	if cfg.OCR.EngineWindow != 2*time.Minute {
		t.Errorf("engine window = %v", cfg.OCR.EngineWindow)
	}
	if !cfg.Analyzer.RetainRawText {
		t.Error("raw text retention not enabled")
	}
	if len(cfg.Bot.Payers) != 2 {
		t.Errorf("payers = %v, want empty element dropped", cfg.Bot.Payers)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "vision defaults", mutate: func(*Config) {}},
		{
			name:   "classical with engines",
			mutate: func(c *Config) { c.Analyzer.Mode = "classical" },
		},
		{
			name: "classical without engines",
			mutate: func(c *Config) {
				c.Analyzer.Mode = "classical"
				c.OCR.Engines = nil
			},
			wantErr: true,
		},
		{
			name: "vision without model",
			mutate: func(c *Config) {
				c.Ollama.Model = ""
			},
			wantErr: true,
		},
		{
			name:    "unknown mode",
			mutate:  func(c *Config) { c.Analyzer.Mode = "hybrid" },
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LoadConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
