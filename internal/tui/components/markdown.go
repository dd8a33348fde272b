package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// MarkdownStyle picks the glamour standard style for the active color
// profile: "notty" when colors are off, "dark" otherwise.
func MarkdownStyle() string {
	if lipgloss.ColorProfile() == termenv.Ascii {
		return "notty"
	}
	return "dark"
}

// RenderMarkdown renders md word-wrapped to width, falling back to the raw
// text when rendering fails.
func RenderMarkdown(md string, width int, style string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	if style == "" {
		style = MarkdownStyle()
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(width, 20)),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}
