package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gastosbot/receipts-engine/internal/common"
)

func TestClientChat(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %q, want /api/chat", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{"role": "assistant", "content": "  " + goodReply + "  "},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Model: "qwen3-vl:4b-instruct", KeepAlive: 300}, discardLogger())
	reply, err := c.Chat(context.Background(), "aW1hZ2U=")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply != goodReply {
		t.Errorf("reply = %q, want trimmed content", reply)
	}

	if got := captured["model"]; got != "qwen3-vl:4b-instruct" {
		t.Errorf("model = %v", got)
	}
	if got := captured["stream"]; got != false {
		t.Errorf("stream = %v, want false", got)
	}
	if got := captured["keep_alive"]; got != 300.0 {
		t.Errorf("keep_alive = %v, want 300", got)
	}
	opts, ok := captured["options"].(map[string]any)
	if !ok {
		t.Fatalf("options missing: %v", captured["options"])
	}
	if opts["temperature"] != 0.0 || opts["top_p"] != 1.0 || opts["seed"] != 42.0 {
		t.Errorf("options = %v, want deterministic decoding", opts)
	}
	msgs, ok := captured["messages"].([]any)
	if !ok || len(msgs) != 2 {
		t.Fatalf("messages = %v, want system+user", captured["messages"])
	}
	user := msgs[1].(map[string]any)
	images := user["images"].([]any)
	if len(images) != 1 || images[0] != "aW1hZ2U=" {
		t.Errorf("images = %v", images)
	}
}

func TestClientChatErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model not loaded", http.StatusInternalServerError)
			},
			want: common.ErrTransport,
		},
		{
			name: "empty assistant content",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"message": {"role": "assistant", "content": ""}}`))
			},
			want: common.ErrMalformedReply,
		},
		{
			name: "undecodable envelope",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
			want: common.ErrMalformedReply,
		},
		{
			name: "body truncated mid transfer",
			handler: func(w http.ResponseWriter, r *http.Request) {
				// declaring more bytes than are written makes the server
				// cut the connection, so the client read fails partway
				w.Header().Set("Content-Length", "4096")
				_, _ = w.Write([]byte(`{"message": {"role": "assist`))
			},
			want: common.ErrTransport,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewClient(Config{BaseURL: srv.URL}, discardLogger())
			if _, err := c.Chat(context.Background(), "aW1hZ2U="); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestClientChatConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, discardLogger())
	if _, err := c.Chat(context.Background(), "aW1hZ2U="); !errors.Is(err, common.ErrTransport) {
		t.Errorf("error = %v, want %v", err, common.ErrTransport)
	}
}

func TestCheckConnection(t *testing.T) {
	tests := []struct {
		name   string
		model  string
		listed []string
		want   bool
	}{
		{name: "exact name", model: "qwen3-vl:4b-instruct", listed: []string{"qwen3-vl:4b-instruct"}, want: true},
		{name: "family prefix", model: "qwen3-vl:4b-instruct", listed: []string{"qwen3-vl:8b"}, want: true},
		{name: "different family", model: "qwen3-vl:4b-instruct", listed: []string{"llava:13b"}, want: false},
		{name: "empty host", model: "qwen3-vl:4b-instruct", listed: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/tags" {
					t.Errorf("path = %q, want /api/tags", r.URL.Path)
				}
				models := make([]map[string]string, 0, len(tt.listed))
				for _, n := range tt.listed {
					models = append(models, map[string]string{"name": n})
				}
				_ = json.NewEncoder(w).Encode(map[string]any{"models": models})
			}))
			defer srv.Close()

			c := NewClient(Config{BaseURL: srv.URL, Model: tt.model}, discardLogger())
			got, err := c.CheckConnection(context.Background())
			if err != nil {
				t.Fatalf("CheckConnection: %v", err)
			}
			if got != tt.want {
				t.Errorf("available = %v, want %v", got, tt.want)
			}
		})
	}
}
