// Package ui provides shared terminal styling for the console and TUI
// front-ends.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette (256-color).
var (
	ClrBrand  = lipgloss.Color("33")  // blue
	ClrMuted  = lipgloss.Color("245") // gray
	ClrSubtle = lipgloss.Color("242") // darker gray
	ClrGreen  = lipgloss.Color("114") // green
	ClrRed    = lipgloss.Color("203") // red/error
	ClrCyan   = lipgloss.Color("81")  // cyan for payloads
)

var (
	Bold   = lipgloss.NewStyle().Bold(true)
	Brand  = lipgloss.NewStyle().Foreground(ClrBrand).Bold(true)
	Muted  = lipgloss.NewStyle().Foreground(ClrMuted)
	Subtle = lipgloss.NewStyle().Foreground(ClrSubtle)
	Green  = lipgloss.NewStyle().Foreground(ClrGreen)
	Red    = lipgloss.NewStyle().Foreground(ClrRed)
	Cyan   = lipgloss.NewStyle().Foreground(ClrCyan)
)

// Prompt renders the input prompt like "answerthere> " with color.
func Prompt(mode string) string {
	return Brand.Render(mode+">") + " "
}

// Error formats an error message.
func Error(msg string) string {
	return Red.Render("error: " + msg)
}

// Errorf formats an error with printf-style formatting.
func Errorf(format string, a ...any) string {
	return Error(fmt.Sprintf(format, a...))
}

// Info formats an informational label with details.
func Info(label, detail string) string {
	return Brand.Render(label) + " " + Muted.Render(detail)
}

// Dim renders dimmed/muted text.
func Dim(text string) string {
	return Subtle.Render(text)
}

// Payload renders tool result text.
func Payload(text string) string {
	return Cyan.Render(text)
}

// Enabled reports whether color output is enabled.
func Enabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return strings.ToLower(strings.TrimSpace(os.Getenv("TERM"))) != "dumb"
}

// Interactive reports whether stdin is a terminal.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
