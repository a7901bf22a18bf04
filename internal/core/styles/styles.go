// Package styles provides the lipgloss styles used for command output.
package styles

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/colonyops/tasktracker/internal/core/task"
)

// Color modes accepted by New.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Styles is a set of styles bound to one output writer.
type Styles struct {
	Palette Palette
	enabled bool

	Header  lipgloss.Style
	Section lipgloss.Style
	Divider lipgloss.Style
	Muted   lipgloss.Style

	Todo       lipgloss.Style
	InProgress lipgloss.Style
	Done       lipgloss.Style

	Pass lipgloss.Style
	Warn lipgloss.Style
	Fail lipgloss.Style
}

// New builds styles for w using the named theme. Unknown themes fall back to
// DefaultTheme. In auto mode colour is enabled only when w is a terminal and
// NO_COLOR is unset.
func New(w io.Writer, theme, mode string) *Styles {
	p, ok := GetPalette(theme)
	if !ok {
		p = themes[DefaultTheme]
	}

	enabled := ColorEnabled(w, mode)

	r := lipgloss.NewRenderer(w)
	if enabled {
		if mode == ColorAlways {
			r.SetColorProfile(termenv.TrueColor)
		}
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Styles{
		Palette: p,
		enabled: enabled,

		Header:  r.NewStyle().Foreground(p.Primary).Bold(true),
		Section: r.NewStyle().Foreground(p.Secondary).Bold(true),
		Divider: r.NewStyle().Foreground(p.Muted),
		Muted:   r.NewStyle().Foreground(p.Muted),

		Todo:       r.NewStyle().Foreground(p.Foreground),
		InProgress: r.NewStyle().Foreground(p.Warning).Bold(true),
		Done:       r.NewStyle().Foreground(p.Success),

		Pass: r.NewStyle().Foreground(p.Success),
		Warn: r.NewStyle().Foreground(p.Warning),
		Fail: r.NewStyle().Foreground(p.Error).Bold(true),
	}
}

// Plain returns styles that never emit escape sequences.
func Plain() *Styles {
	return New(io.Discard, DefaultTheme, ColorNever)
}

// Enabled reports whether these styles emit colour.
func (s *Styles) Enabled() bool {
	return s.enabled
}

// Status returns the style for a task status.
func (s *Styles) Status(st task.Status) lipgloss.Style {
	switch st {
	case task.StatusInProgress:
		return s.InProgress
	case task.StatusDone:
		return s.Done
	default:
		return s.Todo
	}
}

// RenderStatus renders the canonical status text with its icon and colour.
// Without colour the bare status text is returned so output stays stable for
// scripts.
func (s *Styles) RenderStatus(st task.Status) string {
	if !s.enabled {
		return st.String()
	}
	return s.Status(st).Render(StatusIcon(st) + " " + st.String())
}

// ColorEnabled resolves a colour mode against the writer.
func ColorEnabled(w io.Writer, mode string) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
