package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/alpha-mechanism/internal/tui/styles"
	"github.com/Dallionking/alpha-mechanism/internal/workflow"
)

// Header renders the app header bar.
type Header struct {
	Asset   string
	Gateway string // base URL
	Phase   workflow.Phase
	Spinner string // current spinner frame, shown while busy
	Width   int
}

// PhaseColor returns the display color for a workflow phase.
func PhaseColor(p workflow.Phase) lipgloss.Color {
	switch p {
	case workflow.Analyzing, workflow.Backtesting:
		return styles.StatusBusy
	case workflow.StrategyReady:
		return styles.AccentSecondary
	case workflow.ResultsReady:
		return styles.StatusOK
	case workflow.Failed:
		return styles.StatusError
	default:
		return styles.TextMuted
	}
}

// PhaseLabel returns the upper-case label for a phase, e.g. "STRATEGY READY".
func PhaseLabel(p workflow.Phase) string {
	name := p.String()
	var b strings.Builder
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}

// PhaseBadge renders the phase as a colored badge.
func PhaseBadge(p workflow.Phase) string {
	return styles.Badge(PhaseLabel(p), PhaseColor(p))
}

// Render returns the styled header string.
func (h Header) Render() string {
	width := h.Width
	if width <= 0 {
		width = 80
	}

	logo := lipgloss.NewStyle().
		Foreground(styles.AccentPrimary).
		Bold(true).
		Render(styles.CompactLogo)

	sep := lipgloss.NewStyle().Foreground(styles.TextMuted).Render("  │  ")

	asset := styles.Label.Render("Asset: ") +
		lipgloss.NewStyle().Foreground(styles.AccentGold).Bold(true).Render(h.Asset)

	gw := styles.Label.Render("Gateway: ") +
		lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(h.Gateway)

	phase := PhaseBadge(h.Phase)
	if h.Phase.Busy() && h.Spinner != "" {
		phase = lipgloss.NewStyle().Foreground(styles.StatusBusy).Render(h.Spinner) + " " + phase
	}

	content := logo + sep + phase + sep + asset + sep + gw

	return styles.Header.Width(width).Render(content)
}
