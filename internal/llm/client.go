// Package llm implements the vision-model extraction path: an Ollama chat
// client plus the strict parse/normalize pipeline that turns a model reply
// into validated receipt fields.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gastosbot/receipts-engine/internal/common"
)

// Config for the Ollama client.
type Config struct {
	BaseURL   string        // default http://localhost:11434
	Model     string        // e.g. "qwen3-vl:4b-instruct"
	Timeout   time.Duration // whole-request deadline
	KeepAlive int           // seconds the host keeps the model loaded after a call; 0 = unload immediately
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = "qwen3-vl:4b-instruct"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

func (c *Client) Model() string { return c.cfg.Model }

// Chat sends one receipt image (base64) through /api/chat and returns the
// assistant's raw reply text. Decoding is deterministic (temperature 0, fixed
// seed); keep_alive forwards the caller's resource-lifetime hint to the host.
// Transport failures, timeouts and non-2xx statuses surface as ErrTransport;
// there is no retry here.
func (c *Client) Chat(ctx context.Context, imageBase64 string) (string, error) {
	reqID := uuid.New().String()
	start := time.Now()

	payload := map[string]any{
		"model": c.cfg.Model,
		"messages": []map[string]any{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt, "images": []string{imageBase64}},
		},
		"stream": false,
		"options": map[string]any{
			"temperature": 0,
			"top_p":       1,
			"seed":        42,
		},
		"keep_alive": c.cfg.KeepAlive,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode chat payload: %w", err)
	}

	url := c.cfg.BaseURL + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Info("llm.chat.request",
		"req_id", reqID,
		"model", c.cfg.Model,
		"keep_alive", c.cfg.KeepAlive,
		"image_b64_bytes", len(imageBase64),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("llm.chat.send_error",
			"req_id", reqID, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("%w: %v", common.ErrTransport, err)
	}
	defer func(b io.ReadCloser) {
		if cerr := b.Close(); cerr != nil {
			c.logger.Warn("llm.chat.body_close_error", "req_id", reqID, "error", cerr)
		}
	}(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("llm.chat.read_error",
			"req_id", reqID, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("%w: read response body: %v", common.ErrTransport, err)
	}
	c.logger.Info("llm.chat.response",
		"req_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("%w: status %d: %s", common.ErrTransport, resp.StatusCode, truncate(string(raw), 512))
	}

	var chat struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := json.Unmarshal(raw, &chat); err != nil {
		return "", fmt.Errorf("%w: decode chat envelope: %v", common.ErrMalformedReply, err)
	}
	if chat.Message.Content == "" {
		return "", fmt.Errorf("%w: empty assistant content", common.ErrMalformedReply)
	}
	return strings.TrimSpace(chat.Message.Content), nil
}

// CheckConnection probes /api/tags and reports whether the configured model
// is present on the host. Matching tolerates version-tag suffixes: a listed
// name counts if it contains the full model name or starts with the family
// prefix (the part before ":").
func (c *Client) CheckConnection(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/api/tags", nil)
	if err != nil {
		return false, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", common.ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode/100 != 2 {
		return false, fmt.Errorf("%w: status %d", common.ErrTransport, resp.StatusCode)
	}

	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return false, fmt.Errorf("decode tags: %w", err)
	}

	family := strings.SplitN(c.cfg.Model, ":", 2)[0]
	for _, m := range tags.Models {
		if strings.Contains(m.Name, c.cfg.Model) || strings.HasPrefix(m.Name, family) {
			c.logger.Info("llm.health.model_available", "model", c.cfg.Model, "match", m.Name)
			return true, nil
		}
	}
	c.logger.Warn("llm.health.model_missing", "model", c.cfg.Model, "available", len(tags.Models))
	return false, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
