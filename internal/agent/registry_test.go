package agent

import (
	"context"
	"reflect"
	"testing"
)

func noopInvoke(context.Context, map[string]any) (string, error) { return "", nil }

func TestRegistry_RegistrationOrderAndOverwrite(t *testing.T) {
	r := NewRegistry()
	r.Register("read_query", "first", map[string]any{"type": "object"}, noopInvoke)
	r.Register("list_tables", "lists", map[string]any{"type": "object"}, noopInvoke)
	r.Register("read_query", "second", map[string]any{"type": "object"}, noopInvoke)

	tools := r.List()
	if len(tools) != 2 {
		t.Fatalf("expected 2 entries after re-registration, got %d", len(tools))
	}
	if tools[0].Name != "read_query" || tools[1].Name != "list_tables" {
		t.Fatalf("registration order not preserved: %#v", tools)
	}
	if tools[0].Description != "second" {
		t.Fatalf("second registration should win, got %q", tools[0].Description)
	}
}

func TestRegistry_OllamaSpec(t *testing.T) {
	r := NewRegistry()
	schema := map[string]any{
		"type":       "object",
		"properties": map[string]any{"query": map[string]any{"type": "string"}},
	}
	r.Register("read_query", "runs SQL", schema, noopInvoke)

	specs := r.OllamaSpec()
	if len(specs) != 1 {
		t.Fatalf("expected one spec, got %d", len(specs))
	}
	want := map[string]any{
		"type": "function",
		"function": map[string]any{
			"name":        "read_query",
			"description": "runs SQL",
			"parameters":  schema,
		},
	}
	if !reflect.DeepEqual(specs[0], want) {
		t.Fatalf("unexpected spec: %#v", specs[0])
	}
}

func TestRegistry_GenericSpec(t *testing.T) {
	r := NewRegistry()
	schema := map[string]any{"type": "object"}
	r.Register("list_tables", "lists", schema, noopInvoke)

	specs := r.GenericSpec()
	if len(specs) != 1 {
		t.Fatalf("expected one spec, got %d", len(specs))
	}
	toolSpec, ok := specs[0]["toolSpec"].(map[string]any)
	if !ok {
		t.Fatalf("missing toolSpec wrapper: %#v", specs[0])
	}
	if toolSpec["name"] != "list_tables" || toolSpec["inputSchema"] == nil {
		t.Fatalf("unexpected toolSpec: %#v", toolSpec)
	}
}

func TestRegistry_Clear(t *testing.T) {
	r := NewRegistry()
	r.Register("read_query", "", nil, noopInvoke)
	r.Clear()
	if len(r.List()) != 0 {
		t.Fatalf("registry not empty after Clear")
	}
	if _, ok := r.Lookup("read_query"); ok {
		t.Fatalf("Lookup found entry after Clear")
	}
}
