package ui

import (
	"fmt"
	"sort"
	"strings"
)

// RawOutput is a box for the fields of a camera response.
// Used in verbose mode to show exactly what the camera returned.
type RawOutput struct {
	Title    string   // e.g., "Camera Response"
	Lines    []string // One "key = value" line per field
	Width    int
	MaxLines int // 0 = unlimited
}

// NewRawOutput creates a box from pre-formatted content.
func NewRawOutput(content string) *RawOutput {
	return &RawOutput{
		Title: "Camera Response",
		Lines: strings.Split(strings.TrimRight(content, "\n"), "\n"),
		Width: GetTerminalWidth(),
	}
}

// NewRawFields creates a box listing response fields sorted by name.
func NewRawFields(command string, fields map[string]string) *RawOutput {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s = %s", k, fields[k]))
	}

	r := NewRawOutput("")
	r.Lines = lines
	if command != "" {
		r.Title = "Camera Response (" + command + ")"
	}
	return r
}

// SetWidth sets the terminal width for responsive rendering
func (r *RawOutput) SetWidth(width int) *RawOutput {
	r.Width = width
	return r
}

// SetTitle sets a custom title for the box
func (r *RawOutput) SetTitle(title string) *RawOutput {
	r.Title = title
	return r
}

// SetMaxLines limits the number of lines displayed
func (r *RawOutput) SetMaxLines(max int) *RawOutput {
	r.MaxLines = max
	return r
}

// FilterPrefix keeps only lines starting with one of the prefixes,
// e.g. "schedule" to show just the day masks.
func (r *RawOutput) FilterPrefix(prefixes ...string) *RawOutput {
	var filtered []string
	for _, line := range r.Lines {
		for _, prefix := range prefixes {
			if strings.HasPrefix(strings.TrimSpace(line), prefix) {
				filtered = append(filtered, line)
				break
			}
		}
	}
	r.Lines = filtered
	return r
}

// Render returns the styled box as a string
func (r *RawOutput) Render() string {
	lines := r.Lines
	truncated := 0
	if r.MaxLines > 0 && len(lines) > r.MaxLines {
		truncated = len(lines) - r.MaxLines
		lines = lines[:r.MaxLines]
	}

	body := RawContentStyle.Render(strings.Join(lines, "\n"))
	if truncated > 0 {
		body += "\n" + StepNoteStyle.Render(fmt.Sprintf("... %d more line(s)", truncated))
	}

	content := RawTitleStyle.Render(r.Title) + "\n" + body
	return RawBoxStyle(clampWidth(r.Width)).Render(content)
}

// String implements fmt.Stringer
func (r *RawOutput) String() string {
	return r.Render()
}
