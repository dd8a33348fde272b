package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/alpha-mechanism/internal/tui/styles"
)

// StrategyCard shows the strategy produced by analysis.
type StrategyCard struct {
	Name        string
	Description string // pre-rendered; may span several lines
	Width       int
}

// Render returns the card as a multi-line block.
func (s StrategyCard) Render() string {
	nameStyle := lipgloss.NewStyle().Foreground(styles.TextPrimary).Bold(true)
	heading := styles.Label.Render("Strategy Detected") + "  " + styles.Badge("READY", styles.StatusOK)

	body := strings.TrimRight(s.Description, "\n")
	if strings.TrimSpace(body) == "" {
		body = styles.Dim("No description returned.")
	}

	card := styles.Card
	if s.Width > 0 {
		card = card.Width(s.Width)
	}
	return card.Render(lipgloss.JoinVertical(lipgloss.Left,
		heading,
		nameStyle.Render(s.Name),
		"",
		body,
	))
}

// RenderCompact returns a single-line representation for headless output.
func (s StrategyCard) RenderCompact() string {
	dot := lipgloss.NewStyle().Foreground(styles.StatusOK).Render("●")
	name := lipgloss.NewStyle().Foreground(styles.TextPrimary).Bold(true).
		Render(styles.Truncate(s.Name, 40))
	first := strings.TrimSpace(strings.SplitN(strings.TrimSpace(s.Description), "\n", 2)[0])
	return dot + " " + name + "  " + styles.Dim(styles.Truncate(first, 60))
}
