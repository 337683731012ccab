package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"answerthere/internal/agent"
	"answerthere/internal/config"
	"answerthere/internal/mcp"
	"answerthere/internal/ollama"
)

// Session wires one conversation: config, the spawned tool server, the
// populated registry and the engine. Close releases the tool server process
// and must run on every exit path.
type Session struct {
	Config   config.Config
	Engine   *agent.Engine
	Tools    []mcp.Tool
	client   *mcp.Client
	registry *agent.Registry
}

func OpenSession(ctx context.Context) (*Session, error) {
	cfg, err := config.Load(config.Options{Path: globalFlags.ConfigPath})
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	applyFlagOverrides(&cfg)

	command := cfg.Channel.Command
	if command == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, err
		}
		command = fmt.Sprintf("%s serve --db %s", exe, cfg.DB.Path)
	}

	client := mcp.New(command, cfg.Verbose)
	if err := client.Initialize(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("tool channel: %w", err)
	}
	tools, err := client.ListTools(ctx)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("tools/list: %w", err)
	}

	registry := agent.NewRegistry()
	for _, tool := range tools {
		name := tool.Name
		registry.Register(name, tool.Description, tool.InputSchema,
			func(ctx context.Context, params map[string]any) (string, error) {
				res, err := client.CallTool(ctx, name, params)
				if err != nil {
					return "", err
				}
				text := res.Text()
				if res.IsError {
					if text == "" {
						text = "tool reported an error"
					}
					return "", errors.New(text)
				}
				return text, nil
			})
	}

	var sink io.Writer
	if cfg.Verbose {
		sink = os.Stderr
	}
	backend := ollama.NewClient(cfg.Ollama.URL, cfg.Model, cfg.Ollama.Temperature)
	dispatcher := agent.NewDispatcher(registry, sink)
	engine := agent.NewEngine(backend, dispatcher, agent.SystemPrompt)

	return &Session{
		Config:   cfg,
		Engine:   engine,
		Tools:    tools,
		client:   client,
		registry: registry,
	}, nil
}

func (s *Session) Close() error {
	s.registry.Clear()
	return s.client.Close()
}

func applyFlagOverrides(cfg *config.Config) {
	if globalFlags.DBPath != "" {
		cfg.DB.Path = globalFlags.DBPath
	}
	if globalFlags.Model != "" {
		cfg.Model = globalFlags.Model
	}
	if globalFlags.OllamaURL != "" {
		cfg.Ollama.URL = globalFlags.OllamaURL
	}
	if globalFlags.Verbose {
		cfg.Verbose = true
	}
}
