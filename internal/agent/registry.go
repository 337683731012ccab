package agent

import "context"

// InvokeFunc executes a tool against the tool-execution channel and returns
// the raw payload text.
type InvokeFunc func(ctx context.Context, params map[string]any) (string, error)

// RegisteredTool is one entry in the session's tool catalog.
type RegisteredTool struct {
	Name        string
	Description string
	InputSchema map[string]any
	Invoke      InvokeFunc
}

// Registry holds the operations the tool-execution channel exposes and
// projects them into the shapes the model backend expects. It is a pure
// data structure; no I/O happens here.
type Registry struct {
	order []string
	tools map[string]RegisteredTool
}

func NewRegistry() *Registry {
	return &Registry{tools: map[string]RegisteredTool{}}
}

// Register stores a tool keyed by name. Re-registering a name overwrites the
// existing entry in place; registration is idempotent on purpose.
func (r *Registry) Register(name, description string, inputSchema map[string]any, invoke InvokeFunc) {
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = RegisteredTool{
		Name:        name,
		Description: description,
		InputSchema: inputSchema,
		Invoke:      invoke,
	}
}

// Lookup returns the tool bound to name.
func (r *Registry) Lookup(name string) (RegisteredTool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// List returns tools in registration order.
func (r *Registry) List() []RegisteredTool {
	out := make([]RegisteredTool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// OllamaSpec renders the catalog in the model backend's tool-calling shape.
func (r *Registry) OllamaSpec() []map[string]any {
	specs := make([]map[string]any, 0, len(r.order))
	for _, t := range r.List() {
		specs = append(specs, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        t.Name,
				"description": t.Description,
				"parameters":  t.InputSchema,
			},
		})
	}
	return specs
}

// GenericSpec renders the catalog as provider-neutral toolSpec records.
func (r *Registry) GenericSpec() []map[string]any {
	specs := make([]map[string]any, 0, len(r.order))
	for _, t := range r.List() {
		specs = append(specs, map[string]any{
			"toolSpec": map[string]any{
				"name":        t.Name,
				"description": t.Description,
				"inputSchema": t.InputSchema,
			},
		})
	}
	return specs
}

// Clear drops every entry. Called on session teardown.
func (r *Registry) Clear() {
	r.order = nil
	r.tools = map[string]RegisteredTool{}
}
