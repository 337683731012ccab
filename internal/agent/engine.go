package agent

import (
	"context"
	"errors"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one entry in the append-only conversation history. History is
// kept for audit only; the backend sees just the latest user message.
type Message struct {
	Role    Role
	Content string
}

// TurnResult is the terminal outcome of one turn: either plain text, or the
// operation that was dispatched together with its result. The engine never
// loops a tool result back into the model.
type TurnResult struct {
	Text   string
	Op     Operation
	Result *ToolResult
}

// Output flattens a turn result for display.
func (r TurnResult) Output() string {
	if r.Result != nil {
		if r.Result.OK {
			return r.Result.Payload
		}
		return r.Result.ErrorMessage
	}
	return r.Text
}

const continuationPrompt = "Please continue."

// Engine orchestrates one user turn at a time. It owns the conversation
// history and the registry exclusively; the single-turn model means no
// locking is needed.
type Engine struct {
	backend      Backend
	dispatcher   *Dispatcher
	systemPrompt string
	history      []Message
}

func NewEngine(backend Backend, dispatcher *Dispatcher, systemPrompt string) *Engine {
	return &Engine{
		backend:      backend,
		dispatcher:   dispatcher,
		systemPrompt: systemPrompt,
	}
}

// History returns a copy of the recorded conversation.
func (e *Engine) History() []Message {
	out := make([]Message, len(e.history))
	copy(out, e.history)
	return out
}

// Turn runs one user input to its terminal response.
//
// Direct commands are checked first and dispatched without invoking the
// model. Otherwise the backend is called with the system prompt and the
// latest user message, the response is interpreted, and a recognized tool
// call is dispatched once. A truncated response is retried with a fixed
// continuation prompt before interpretation; an unrecognized stop reason
// aborts the turn.
func (e *Engine) Turn(ctx context.Context, input string) (TurnResult, error) {
	if op, ok := ParseDirectCommand(input); ok {
		res := e.dispatcher.Dispatch(ctx, op)
		return TurnResult{Op: op, Result: &res}, nil
	}

	e.history = append(e.history, Message{Role: RoleUser, Content: input})
	resp, err := e.chat(ctx, input)
	if err != nil {
		return TurnResult{}, err
	}

	if resp.Stop == StopTruncated {
		e.history = append(e.history, Message{Role: RoleUser, Content: continuationPrompt})
		resp, err = e.chat(ctx, continuationPrompt)
		if err != nil {
			return TurnResult{}, err
		}
		// One continuation only; a second truncation is interpreted as-is.
		if resp.Stop == StopTruncated {
			resp.Stop = StopComplete
		}
	}

	switch resp.Stop {
	case StopComplete, StopToolCall:
	default:
		return TurnResult{}, &UnknownStopReasonError{Stop: string(resp.Stop)}
	}

	var op Operation
	var text string
	if resp.Call != nil {
		op, err = OperationFromCall(resp.Call.Name, resp.Call.Input)
		if err != nil {
			return TurnResult{Text: recoveredText(err)}, nil
		}
	} else {
		in := Interpret(resp.Text, e.lastUserMessage())
		op, text = in.Op, in.Text
	}

	if op != nil {
		res := e.dispatcher.Dispatch(ctx, op)
		return TurnResult{Op: op, Result: &res}, nil
	}
	return TurnResult{Text: text}, nil
}

func (e *Engine) chat(ctx context.Context, user string) (ChatResponse, error) {
	resp, err := e.backend.Chat(ctx, e.systemPrompt, user, e.dispatcher.Registry().OllamaSpec())
	if err != nil {
		var be *BackendError
		if !errors.As(err, &be) {
			err = &BackendError{Message: err.Error(), Cause: err}
		}
		return ChatResponse{}, err
	}
	if resp.Text != "" {
		e.history = append(e.history, Message{Role: RoleAssistant, Content: resp.Text})
	}
	return resp, nil
}

func (e *Engine) lastUserMessage() string {
	for i := len(e.history) - 1; i >= 0; i-- {
		if e.history[i].Role == RoleUser {
			return e.history[i].Content
		}
	}
	return ""
}
