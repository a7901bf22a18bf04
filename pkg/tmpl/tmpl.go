// Package tmpl renders user supplied Go templates for command output.
package tmpl

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"
)

// shellQuote returns a shell-safe quoted string. It wraps the string in single
// quotes and escapes embedded single quotes by closing the quote, emitting an
// escaped quote and reopening.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	// Replace ' with '\'' (end quote, escaped quote, start quote)
	escaped := strings.ReplaceAll(s, "'", `'\''`)
	return "'" + escaped + "'"
}

// pad right-pads s with spaces to width runes.
func pad(width int, s string) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// trunc shortens s to at most width runes, marking the cut with "...".
func trunc(width int, s string) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

var funcs = template.FuncMap{
	"shq":   shellQuote,
	"join":  strings.Join,
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
	"pad":   pad,
	"trunc": trunc,
}

// Template is a parsed template that can be executed many times.
type Template struct {
	t *template.Template
}

// Parse compiles text. References to undefined keys fail at execution time.
//
// Available template functions:
//   - shq: Shell-quote a string for safe use in shell commands
//   - join: Join string slice with separator (e.g., join .Tags " ")
//   - upper, lower: Change case
//   - pad: Right-pad to a width (e.g., pad 12 .Status)
//   - trunc: Truncate to a width (e.g., trunc 30 .Description)
func Parse(text string) (*Template, error) {
	t, err := template.New("").Funcs(funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return &Template{t: t}, nil
}

// Execute renders the template with data.
func (t *Template) Execute(data any) (string, error) {
	var buf bytes.Buffer
	if err := t.t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}

// Render parses and executes tmpl in one step.
func Render(tmpl string, data any) (string, error) {
	t, err := Parse(tmpl)
	if err != nil {
		return "", err
	}
	return t.Execute(data)
}
