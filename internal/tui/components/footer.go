package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/alpha-mechanism/internal/tui/styles"
	"github.com/Dallionking/alpha-mechanism/internal/workflow"
)

// KeyHint describes a single keybinding hint for display in the footer.
type KeyHint struct {
	Key      string // "q", "enter", "a"
	Desc     string // "quit", "load", "analyze"
	Disabled bool
}

// Footer renders context-aware keybinding hints.
type Footer struct {
	Hints []KeyHint
	Width int
}

// Render returns the styled footer string. Disabled hints are dimmed rather
// than hidden so the layout does not jump between phases.
func (f Footer) Render() string {
	width := f.Width
	if width <= 0 {
		width = 80
	}

	keyStyle := lipgloss.NewStyle().Foreground(styles.AccentPrimary).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
	offStyle := lipgloss.NewStyle().Foreground(styles.BorderNormal)

	var parts []string
	for _, h := range f.Hints {
		if h.Disabled {
			parts = append(parts, offStyle.Render(h.Key+" "+h.Desc))
			continue
		}
		parts = append(parts, keyStyle.Render(h.Key)+" "+descStyle.Render(h.Desc))
	}

	content := strings.Join(parts, styles.Dim(" • "))
	return styles.Footer.Width(width).Render(content)
}

// DashboardFooter returns the dashboard hints for the given snapshot.
func DashboardFooter(snap workflow.Snapshot, inputFocused bool, width int) Footer {
	if inputFocused {
		return Footer{
			Hints: []KeyHint{
				{Key: "enter", Desc: "load file"},
				{Key: "esc", Desc: "done"},
				{Key: "ctrl+c", Desc: "quit"},
			},
			Width: width,
		}
	}
	return Footer{
		Hints: []KeyHint{
			{Key: "f", Desc: "file", Disabled: !snap.CanSelect()},
			{Key: "a", Desc: "analyze", Disabled: !snap.CanAnalyze()},
			{Key: "b", Desc: "backtest", Disabled: !snap.CanBacktest()},
			{Key: "r", Desc: "retry", Disabled: !snap.CanRetry()},
			{Key: "x", Desc: "reset", Disabled: !snap.CanReset()},
			{Key: "pgup/pgdn", Desc: "scroll"},
			{Key: "q", Desc: "quit"},
		},
		Width: width,
	}
}
