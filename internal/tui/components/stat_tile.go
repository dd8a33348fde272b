package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/alpha-mechanism/internal/tui/styles"
)

// StatTile displays a single headline value above its label.
type StatTile struct {
	Label string
	Value string
	Color lipgloss.Color // zero means TextPrimary
	Width int
}

// ReturnColor picks green for gains and red for losses from a formatted
// percentage such as "-3.20%". The string is not parsed beyond its sign.
func ReturnColor(s string) lipgloss.Color {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return styles.TextMuted
	case strings.HasPrefix(s, "-"):
		return styles.StatusError
	case strings.Trim(s, "0.%+") == "":
		return styles.TextPrimary
	default:
		return styles.StatusOK
	}
}

// Render returns the styled tile.
func (t StatTile) Render() string {
	color := t.Color
	if color == "" {
		color = styles.TextPrimary
	}
	value := t.Value
	if value == "" {
		value = "--"
	}

	box := lipgloss.NewStyle().
		Border(styles.ThinBorder).
		BorderForeground(styles.BorderNormal).
		Padding(0, 1)
	if t.Width > 0 {
		box = box.Width(t.Width)
	}

	return box.Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.Label.Render(t.Label),
		lipgloss.NewStyle().Foreground(color).Bold(true).Render(value),
	))
}
