package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func registryWith(t *testing.T, name string, invoke InvokeFunc) *Registry {
	t.Helper()
	r := NewRegistry()
	r.Register(name, "", map[string]any{"type": "object"}, invoke)
	return r
}

func TestDispatch_Success(t *testing.T) {
	var gotParams map[string]any
	r := registryWith(t, "read_query", func(_ context.Context, params map[string]any) (string, error) {
		gotParams = params
		return `[{"category_name":"POTPOURRI"}]`, nil
	})
	d := NewDispatcher(r, nil)

	res := d.Dispatch(context.Background(), ReadQuery{Query: "SELECT 1"})
	if !res.OK {
		t.Fatalf("expected success, got %#v", res)
	}
	if gotParams["query"] != "SELECT 1" {
		t.Fatalf("unexpected params: %#v", gotParams)
	}
	// JSON payloads get re-indented for display
	if !strings.Contains(res.Payload, "\n") || !strings.Contains(res.Payload, "POTPOURRI") {
		t.Fatalf("payload not prettified: %q", res.Payload)
	}
}

func TestDispatch_UnregisteredOperation(t *testing.T) {
	d := NewDispatcher(NewRegistry(), nil)
	res := d.Dispatch(context.Background(), ListTables{})
	if res.OK {
		t.Fatalf("expected failure for empty registry")
	}
	if !strings.Contains(res.ErrorMessage, "Unknown") {
		t.Fatalf("error should mention Unknown, got %q", res.ErrorMessage)
	}
}

func TestDispatch_ChannelErrorNeverPropagates(t *testing.T) {
	r := registryWith(t, "read_query", func(context.Context, map[string]any) (string, error) {
		return "", errors.New("near \"FROOM\": syntax error")
	})
	d := NewDispatcher(r, nil)

	res := d.Dispatch(context.Background(), ReadQuery{Query: "SELECT * FROOM t"})
	if res.OK {
		t.Fatalf("expected failed result")
	}
	if !strings.Contains(res.ErrorMessage, "syntax error") {
		t.Fatalf("channel error not surfaced: %q", res.ErrorMessage)
	}
}

func TestDispatch_NonJSONPayloadUnchanged(t *testing.T) {
	r := registryWith(t, "list_tables", func(context.Context, map[string]any) (string, error) {
		return "categories, games, contestants", nil
	})
	d := NewDispatcher(r, nil)

	res := d.Dispatch(context.Background(), ListTables{})
	if !res.OK || res.Payload != "categories, games, contestants" {
		t.Fatalf("non-JSON payload should pass through unchanged: %#v", res)
	}
}
