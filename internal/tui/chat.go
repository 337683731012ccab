// Package tui is the bubbletea chat screen. It only captures input and
// renders output; every turn goes through the runner the caller provides.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"answerthere/internal/ui"
)

// Runner executes one conversation turn and returns the rendered output.
type Runner func(ctx context.Context, input string) (string, error)

type turnMsg struct {
	output string
	err    error
}

type chatModel struct {
	ctx       context.Context
	run       Runner
	viewport  viewport.Model
	textInput textinput.Model
	spinner   spinner.Model
	messages  []string
	isLoading bool
	ready     bool
	width     int
	height    int
}

// Run starts the chat screen and blocks until the user quits.
func Run(ctx context.Context, banner []string, run Runner) error {
	p := tea.NewProgram(initialModel(ctx, banner, run), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func initialModel(ctx context.Context, banner []string, run Runner) chatModel {
	ti := textinput.New()
	ti.Placeholder = "Ask about the Jeopardy database, or type a direct command..."
	ti.Focus()
	ti.CharLimit = 1000
	ti.Width = 80

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ui.ClrBrand)

	return chatModel{
		ctx:       ctx,
		run:       run,
		textInput: ti,
		spinner:   s,
		messages:  append([]string(nil), banner...),
	}
}

func (m chatModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		spCmd tea.Cmd
	)
	m.textInput, tiCmd = m.textInput.Update(msg)
	m.spinner, spCmd = m.spinner.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.isLoading {
				return m, nil
			}
			input := strings.TrimSpace(m.textInput.Value())
			if input == "" {
				return m, nil
			}
			m.textInput.SetValue("")
			switch strings.ToLower(input) {
			case "quit", "exit", "q":
				return m, tea.Quit
			}
			m.messages = append(m.messages, ui.Prompt("answerthere")+input)
			m.isLoading = true
			m.refreshViewport()
			run := m.run
			ctx := m.ctx
			return m, tea.Batch(tiCmd, spCmd, func() tea.Msg {
				output, err := run(ctx, input)
				return turnMsg{output: output, err: err}
			})
		}
	case turnMsg:
		m.isLoading = false
		if msg.err != nil {
			m.messages = append(m.messages,
				ui.Errorf("%v", msg.err),
				ui.Dim("Try a direct command like 'read_query <SQL>'."))
		} else if strings.TrimSpace(msg.output) != "" {
			m.messages = append(m.messages, msg.output)
		}
		m.refreshViewport()
		m.viewport.GotoBottom()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.applyWindowSize(msg.Width, msg.Height)
	}

	var vpCmd tea.Cmd
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(tiCmd, spCmd, vpCmd)
}

func (m *chatModel) applyWindowSize(width, height int) {
	inputHeight := 3
	vpHeight := height - inputHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	if !m.ready {
		m.viewport = viewport.New(width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	}
	m.textInput.Width = width - 4
	m.refreshViewport()
	m.viewport.GotoBottom()
}

func (m *chatModel) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.messages, "\n\n"))
}

func (m chatModel) View() string {
	if !m.ready {
		return "starting..."
	}
	input := m.textInput.View()
	if m.isLoading {
		input = m.spinner.View() + " thinking..."
	}
	return m.viewport.View() + "\n\n" + input
}
