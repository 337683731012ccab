// Package ollama implements the model backend over a local Ollama-compatible
// chat-completion HTTP API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"answerthere/internal/agent"
)

type Client struct {
	BaseURL     string
	Model       string
	Temperature float64

	httpClient *http.Client
}

func NewClient(baseURL, model string, temperature float64) *Client {
	return &Client{
		BaseURL:     strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		Model:       model,
		Temperature: temperature,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string           `json:"model"`
	Messages []chatMessage    `json:"messages"`
	Stream   bool             `json:"stream"`
	Options  chatOptions      `json:"options"`
	Tools    []map[string]any `json:"tools,omitempty"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
}

type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	DoneReason string `json:"done_reason"`
}

var fencedBlockPattern = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// Chat sends one completion request carrying only the system prompt and the
// latest user message. A fenced JSON block decoding to {name, input} is
// promoted to a structured tool call; an undecodable block leaves the reply
// as plain text for the interpreter's fallback path.
func (c *Client) Chat(ctx context.Context, system, user string, tools []map[string]any) (agent.ChatResponse, error) {
	payload := chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Stream:  false,
		Options: chatOptions{Temperature: c.Temperature},
		Tools:   tools,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return agent.ChatResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return agent.ChatResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return agent.ChatResponse{}, &agent.BackendError{Message: err.Error(), Cause: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return agent.ChatResponse{}, &agent.BackendError{Status: resp.StatusCode, Message: err.Error(), Cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(respBody))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return agent.ChatResponse{}, &agent.BackendError{Status: resp.StatusCode, Message: msg}
	}

	var decoded chatResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return agent.ChatResponse{}, &agent.BackendError{Status: resp.StatusCode, Message: fmt.Sprintf("malformed response: %v", err), Cause: err}
	}

	out := agent.ChatResponse{
		Text: decoded.Message.Content,
		Stop: stopReasonFrom(decoded.DoneReason),
	}
	if call := extractToolCall(decoded.Message.Content); call != nil {
		out.Call = call
		out.Stop = agent.StopToolCall
	}
	return out, nil
}

func stopReasonFrom(doneReason string) agent.StopReason {
	switch doneReason {
	case "", "stop":
		return agent.StopComplete
	case "length":
		return agent.StopTruncated
	default:
		return agent.StopReason(doneReason)
	}
}

func extractToolCall(content string) *agent.ToolCall {
	m := fencedBlockPattern.FindStringSubmatch(content)
	if m == nil {
		return nil
	}
	var call struct {
		Name  string         `json:"name"`
		Input map[string]any `json:"input"`
	}
	if err := json.Unmarshal([]byte(m[1]), &call); err != nil {
		return nil
	}
	if call.Name == "" {
		return nil
	}
	if call.Input == nil {
		call.Input = map[string]any{}
	}
	return &agent.ToolCall{Name: call.Name, Input: call.Input}
}
