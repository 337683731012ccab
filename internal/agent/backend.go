package agent

import "context"

// StopReason mirrors why the model backend stopped generating. Values the
// engine does not recognize abort the turn.
type StopReason string

const (
	StopComplete  StopReason = "complete"
	StopToolCall  StopReason = "tool_call"
	StopTruncated StopReason = "truncated"
)

// ToolCall is a structured tool invocation extracted by the backend client.
type ToolCall struct {
	Name  string
	Input map[string]any
}

// ChatResponse is one transient model reply; never persisted.
type ChatResponse struct {
	Text string
	Call *ToolCall
	Stop StopReason
}

// Backend is the model side of a turn: one chat completion over the system
// prompt and the latest user message only.
type Backend interface {
	Chat(ctx context.Context, system, user string, tools []map[string]any) (ChatResponse, error)
}
