package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"answerthere/internal/agent"
)

func serveContent(t *testing.T, content, doneReason string, capture *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if capture != nil {
			var payload map[string]any
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Errorf("decoding request: %v", err)
			}
			*capture = payload
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message":     map[string]any{"role": "assistant", "content": content},
			"done_reason": doneReason,
		})
	}))
}

func TestChat_RequestShape(t *testing.T) {
	var captured map[string]any
	srv := serveContent(t, "hello", "stop", &captured)
	defer srv.Close()

	c := NewClient(srv.URL, "llama3.1", 0.7)
	tools := []map[string]any{{"type": "function"}}
	resp, err := c.Chat(context.Background(), "system prompt", "user prompt", tools)
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Text != "hello" || resp.Stop != agent.StopComplete {
		t.Fatalf("unexpected response: %#v", resp)
	}

	if captured["model"] != "llama3.1" {
		t.Fatalf("model not sent: %#v", captured["model"])
	}
	if captured["stream"] != false {
		t.Fatalf("stream must be false: %#v", captured["stream"])
	}
	msgs, _ := captured["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system + latest user message only, got %d messages", len(msgs))
	}
	first, _ := msgs[0].(map[string]any)
	second, _ := msgs[1].(map[string]any)
	if first["role"] != "system" || second["role"] != "user" || second["content"] != "user prompt" {
		t.Fatalf("unexpected messages: %#v", msgs)
	}
	opts, _ := captured["options"].(map[string]any)
	if opts["temperature"] != 0.7 {
		t.Fatalf("temperature not sent: %#v", opts)
	}
	if captured["tools"] == nil {
		t.Fatalf("tools not sent")
	}
}

func TestChat_FencedBlockBecomesToolCall(t *testing.T) {
	content := "I'll query the database.\n```json\n{\"name\":\"read_query\",\"input\":{\"query\":\"SELECT 1\"}}\n```"
	srv := serveContent(t, content, "stop", nil)
	defer srv.Close()

	c := NewClient(srv.URL, "llama3.1", 0.7)
	resp, err := c.Chat(context.Background(), "sys", "user", nil)
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Stop != agent.StopToolCall {
		t.Fatalf("expected tool_call stop, got %q", resp.Stop)
	}
	if resp.Call == nil || resp.Call.Name != "read_query" {
		t.Fatalf("tool call not extracted: %#v", resp.Call)
	}
	if resp.Call.Input["query"] != "SELECT 1" {
		t.Fatalf("unexpected input: %#v", resp.Call.Input)
	}
	if resp.Text != content {
		t.Fatalf("raw text must be preserved for history")
	}
}

func TestChat_UndecodableFencedBlockStaysText(t *testing.T) {
	content := "```json\n{\"name\": truncated\n```"
	srv := serveContent(t, content, "stop", nil)
	defer srv.Close()

	c := NewClient(srv.URL, "llama3.1", 0.7)
	resp, err := c.Chat(context.Background(), "sys", "user", nil)
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Call != nil || resp.Stop != agent.StopComplete {
		t.Fatalf("broken block should stay plain text: %#v", resp)
	}
}

func TestChat_LengthMapsToTruncated(t *testing.T) {
	srv := serveContent(t, "partial", "length", nil)
	defer srv.Close()

	c := NewClient(srv.URL, "llama3.1", 0.7)
	resp, err := c.Chat(context.Background(), "sys", "user", nil)
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Stop != agent.StopTruncated {
		t.Fatalf("expected truncated, got %q", resp.Stop)
	}
}

func TestChat_Non2xxIsBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "nope", 0.7)
	_, err := c.Chat(context.Background(), "sys", "user", nil)
	var be *agent.BackendError
	if !errors.As(err, &be) {
		t.Fatalf("expected BackendError, got %v", err)
	}
	if be.Status != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", be.Status)
	}
}

func TestChat_UnreachableIsBackendError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "llama3.1", 0.7)
	_, err := c.Chat(context.Background(), "sys", "user", nil)
	var be *agent.BackendError
	if !errors.As(err, &be) {
		t.Fatalf("expected BackendError, got %v", err)
	}
}
