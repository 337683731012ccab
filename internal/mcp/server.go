package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"answerthere/internal/protocol"
	"answerthere/internal/store"
)

// Server is the built-in stdio tool server. It exposes exactly the three
// SQLite operations over the same framed JSON-RPC dialect the Client speaks.
type Server struct {
	store *store.Store

	outMu sync.Mutex
	out   io.Writer
}

func NewServer(st *store.Store) *Server {
	return &Server{store: st}
}

// Serve reads framed requests from in until EOF or ctx cancellation.
// Notifications (no id) get no response.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.out = out
	reader := bufio.NewReader(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		payload, err := readMessage(reader)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var req jsonRPCRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			continue
		}
		if req.ID == nil {
			continue
		}
		result, rpcErr := s.handle(ctx, req.Method, req.Params)
		resp := jsonRPCResponse{JSONRPC: "2.0", ID: *req.ID}
		if rpcErr != nil {
			resp.Error = rpcErr
		} else {
			resp.Result = result
		}
		if err := s.write(resp); err != nil {
			return err
		}
	}
}

func (s *Server) write(resp jsonRPCResponse) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	s.outMu.Lock()
	defer s.outMu.Unlock()
	return writeMessage(s.out, payload)
}

func (s *Server) handle(ctx context.Context, method string, params map[string]any) (any, *rpcErrorBody) {
	switch method {
	case protocol.RPCMethodInitialize:
		return map[string]any{
			"protocolVersion": protocol.ProtocolVersion,
			"capabilities":    map[string]any{"tools": map[string]any{}},
			"serverInfo":      map[string]any{"name": "answerthere", "version": "0.1.0"},
		}, nil
	case protocol.RPCMethodToolsList:
		return map[string]any{"tools": toolCatalog()}, nil
	case protocol.RPCMethodToolsCall:
		name := asString(params["name"])
		args := asMap(params["arguments"])
		if name == "" {
			return nil, &rpcErrorBody{Code: codeInvalidParams, Message: "missing tool name"}
		}
		return s.callTool(ctx, name, args), nil
	default:
		return nil, &rpcErrorBody{Code: codeMethodNotFound, Message: fmt.Sprintf("unknown method %q", method)}
	}
}

// callTool maps tool failures onto isError results rather than JSON-RPC
// errors, so the conversation side can fold them into a failed ToolResult.
func (s *Server) callTool(ctx context.Context, name string, args map[string]any) map[string]any {
	text, err := s.runTool(ctx, name, args)
	if err != nil {
		return toolResultPayload("Error executing tool: "+err.Error(), true)
	}
	return toolResultPayload(text, false)
}

func (s *Server) runTool(ctx context.Context, name string, args map[string]any) (string, error) {
	switch name {
	case protocol.ToolNameReadQuery:
		query := asString(args["query"])
		if query == "" {
			return "", fmt.Errorf("read_query requires a query parameter")
		}
		return s.store.Query(ctx, query)
	case protocol.ToolNameListTables:
		tables, err := s.store.ListTables(ctx)
		if err != nil {
			return "", err
		}
		encoded, err := json.Marshal(tables)
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	case protocol.ToolNameDescribeTable:
		table := asString(args["table_name"])
		if table == "" {
			return "", fmt.Errorf("describe_table requires a table_name parameter")
		}
		cols, err := s.store.DescribeTable(ctx, table)
		if err != nil {
			return "", err
		}
		encoded, err := json.Marshal(cols)
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	default:
		return "", fmt.Errorf("unknown tool %q", name)
	}
}

func toolResultPayload(text string, isError bool) map[string]any {
	return map[string]any{
		"content": []map[string]any{{"type": "text", "text": text}},
		"isError": isError,
	}
}

func toolCatalog() []map[string]any {
	return []map[string]any{
		{
			"name":        protocol.ToolNameReadQuery,
			"description": "Execute a read-only SQL query against the Jeopardy database",
			"inputSchema": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "SELECT statement to run",
					},
				},
				"required": []any{"query"},
			},
		},
		{
			"name":        protocol.ToolNameListTables,
			"description": "List all tables in the Jeopardy database",
			"inputSchema": map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			"name":        protocol.ToolNameDescribeTable,
			"description": "Describe the schema of a specific table",
			"inputSchema": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"table_name": map[string]any{
						"type":        "string",
						"description": "Name of the table to describe",
					},
				},
				"required": []any{"table_name"},
			},
		},
	}
}
