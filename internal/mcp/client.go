// Package mcp carries both ends of the tool-execution channel: a stdio
// JSON-RPC client that spawns and drives a tool server process, and the
// built-in server exposing the SQLite tools.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"answerthere/internal/protocol"
)

// Client talks JSON-RPC to a tool server over its stdin/stdout. The server
// process lifetime is scoped to the client: spawned on Initialize, reaped on
// Close.
type Client struct {
	command string
	verbose bool

	mu     sync.Mutex
	nextID int

	proc *serverProc
}

type serverProc struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	callMu sync.Mutex
}

func New(command string, verbose bool) *Client {
	return &Client{
		command: strings.TrimSpace(command),
		verbose: verbose,
		nextID:  1,
	}
}

func (c *Client) Close() error {
	if c.proc == nil {
		return nil
	}
	if c.proc.stdin != nil {
		_ = c.proc.stdin.Close()
	}
	err := c.proc.cmd.Wait()
	c.proc = nil
	if err == nil {
		return nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 0 {
		return nil
	}
	return err
}

func (c *Client) Initialize(ctx context.Context) error {
	if err := c.start(ctx); err != nil {
		return err
	}
	params := map[string]any{
		"protocolVersion": protocol.ProtocolVersion,
		"capabilities":    map[string]any{"tools": map[string]any{}},
		"clientInfo":      map[string]any{"name": "answerthere", "version": "0.1.0"},
	}
	if _, err := c.call(ctx, protocol.RPCMethodInitialize, params, true); err != nil {
		return err
	}
	if _, err := c.call(ctx, protocol.RPCMethodNotificationsInitialized, map[string]any{}, false); err != nil {
		return fmt.Errorf("notifications/initialized failed: %w", err)
	}
	return nil
}

func (c *Client) ListTools(ctx context.Context) ([]Tool, error) {
	body, err := c.call(ctx, protocol.RPCMethodToolsList, map[string]any{}, true)
	if err != nil {
		return nil, err
	}
	result, ok := body["result"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid tools/list result")
	}
	items, ok := result["tools"].([]any)
	if !ok {
		return nil, fmt.Errorf("invalid tools/list payload")
	}

	tools := make([]Tool, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		tools = append(tools, Tool{
			Name:        asString(m["name"]),
			Description: asString(m["description"]),
			InputSchema: asMap(m["inputSchema"]),
		})
	}
	return tools, nil
}

func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (*ToolCallResult, error) {
	params := map[string]any{
		"name":      name,
		"arguments": args,
	}
	body, err := c.call(ctx, protocol.RPCMethodToolsCall, params, true)
	if err != nil {
		return nil, err
	}
	resultMap, ok := body["result"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid tools/call result")
	}
	content := []ContentItem{}
	if items, ok := resultMap["content"].([]any); ok {
		for _, it := range items {
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			content = append(content, ContentItem{Type: asString(m["type"]), Text: asString(m["text"])})
		}
	}
	return &ToolCallResult{
		Content: content,
		IsError: asBool(resultMap["isError"]),
	}, nil
}

func (c *Client) start(ctx context.Context) error {
	if c.proc != nil {
		return nil
	}
	parts := strings.Fields(c.command)
	if len(parts) == 0 {
		return fmt.Errorf("tool channel requires a command")
	}
	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return err
	}
	c.proc = &serverProc{cmd: cmd, stdin: stdin, stdout: bufio.NewReader(stdout)}
	return nil
}

func (c *Client) call(ctx context.Context, method string, params map[string]any, withID bool) (map[string]any, error) {
	if c.proc == nil {
		if err := c.start(ctx); err != nil {
			return nil, err
		}
	}
	c.proc.callMu.Lock()
	defer c.proc.callMu.Unlock()

	var id *int
	if withID {
		c.mu.Lock()
		n := c.nextID
		c.nextID++
		c.mu.Unlock()
		id = &n
	}
	message := jsonRPCRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params}
	payload, err := json.Marshal(message)
	if err != nil {
		return nil, err
	}

	if c.verbose {
		fmt.Fprintf(os.Stderr, "[mcp] -> %s\n", method)
	}
	if err := writeMessage(c.proc.stdin, payload); err != nil {
		return nil, err
	}
	if !withID {
		return map[string]any{}, nil
	}

	type readResult struct {
		body []byte
		err  error
	}
	readCh := make(chan readResult, 1)
	stdout := c.proc.stdout
	go func() {
		body, readErr := readMessage(stdout)
		readCh <- readResult{body: body, err: readErr}
	}()

	var bodyBytes []byte
	select {
	case <-ctx.Done():
		if c.proc != nil && c.proc.cmd != nil && c.proc.cmd.Process != nil {
			_ = c.proc.cmd.Process.Kill()
		}
		<-readCh
		_ = c.Close()
		return nil, ctx.Err()
	case res := <-readCh:
		if res.err != nil {
			return nil, res.err
		}
		bodyBytes = res.body
	}

	if len(bodyBytes) == 0 {
		return nil, fmt.Errorf("empty response from tool server")
	}
	var envelope jsonRPCResponse
	if err := json.Unmarshal(bodyBytes, &envelope); err != nil {
		return nil, err
	}
	if envelope.Error != nil {
		return nil, &jsonRPCError{Code: envelope.Error.Code, Message: envelope.Error.Message}
	}
	var raw map[string]any
	if err := json.Unmarshal(bodyBytes, &raw); err != nil {
		return nil, err
	}
	if c.verbose {
		fmt.Fprintf(os.Stderr, "[mcp] <- %s\n", method)
	}
	return raw, nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}
