package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// ToolResult is the uniform envelope a dispatched operation produces. It is
// terminal: either displayed or folded into the next turn's context.
type ToolResult struct {
	OK           bool
	Payload      string
	ErrorMessage string
}

// Dispatcher executes operations against the tool-execution channel through
// the registry. Channel failures are folded into a failed ToolResult so a
// single malformed query cannot crash the conversation loop.
type Dispatcher struct {
	registry *Registry
	sink     io.Writer
}

func NewDispatcher(registry *Registry, sink io.Writer) *Dispatcher {
	if sink == nil {
		sink = io.Discard
	}
	return &Dispatcher{registry: registry, sink: sink}
}

func (d *Dispatcher) Registry() *Registry { return d.registry }

// Dispatch runs op and never returns an error: lookup misses and channel
// failures both come back as ToolResult{OK: false}.
func (d *Dispatcher) Dispatch(ctx context.Context, op Operation) ToolResult {
	switch op.(type) {
	case ReadQuery, ListTables, DescribeTable:
	default:
		return ToolResult{ErrorMessage: fmt.Sprintf("Unknown operation %T", op)}
	}

	name := op.ToolName()
	tool, ok := d.registry.Lookup(name)
	if !ok {
		return ToolResult{ErrorMessage: fmt.Sprintf("Unknown operation %q: not in the tool catalog", name)}
	}

	fmt.Fprintf(d.sink, "[tool] -> %s %v\n", name, op.Params())
	payload, err := tool.Invoke(ctx, op.Params())
	if err != nil {
		fmt.Fprintf(d.sink, "[tool] <- %s failed: %v\n", name, err)
		return ToolResult{ErrorMessage: err.Error()}
	}
	fmt.Fprintf(d.sink, "[tool] <- %s ok (%d bytes)\n", name, len(payload))
	return ToolResult{OK: true, Payload: prettyPayload(payload)}
}

// prettyPayload re-indents payloads that happen to be JSON. Anything else is
// shown as-is; a parse failure is never an error.
func prettyPayload(s string) string {
	if !json.Valid([]byte(s)) {
		return s
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(s), "", "  "); err != nil {
		return s
	}
	return buf.String()
}
