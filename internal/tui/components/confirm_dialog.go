package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/alpha-mechanism/internal/tui/styles"
)

// ConfirmDialog is a modal two-button dialog.
type ConfirmDialog struct {
	Title        string
	Message      string
	ConfirmLabel string
	CancelLabel  string
	Confirmed    bool
	Done         bool
	confirmFocus bool // cancel is focused by default
}

// NewConfirmDialog creates a dialog with Yes/No buttons.
func NewConfirmDialog(title, message string) ConfirmDialog {
	return ConfirmDialog{
		Title:        title,
		Message:      message,
		ConfirmLabel: "Yes",
		CancelLabel:  "No",
	}
}

// Update handles y/n shortcuts, focus movement and enter.
func (d ConfirmDialog) Update(msg tea.Msg) (ConfirmDialog, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}
	switch key.String() {
	case "y", "Y":
		d.Confirmed, d.Done = true, true
	case "n", "N", "esc":
		d.Confirmed, d.Done = false, true
	case "enter":
		d.Confirmed, d.Done = d.confirmFocus, true
	case "left", "h", "tab":
		d.confirmFocus = true
	case "right", "l", "shift+tab":
		d.confirmFocus = false
	}
	return d, nil
}

// View returns the styled dialog.
func (d ConfirmDialog) View() string {
	focused := lipgloss.NewStyle().
		Background(styles.AccentPrimary).
		Foreground(styles.BgDeep).
		Bold(true).
		Padding(0, 1)
	blurred := lipgloss.NewStyle().
		Background(styles.BgSurface).
		Foreground(styles.TextSecondary).
		Padding(0, 1)

	yes, no := blurred, focused
	if d.confirmFocus {
		yes, no = focused, blurred
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		yes.Render(d.ConfirmLabel), "  ", no.Render(d.CancelLabel))

	content := lipgloss.JoinVertical(lipgloss.Center,
		styles.Title.Render(d.Title),
		"",
		styles.Subtitle.Render(d.Message),
		"",
		buttons,
		"",
		styles.Dim("y/n or ←→ + enter"),
	)

	return lipgloss.NewStyle().
		Border(styles.RoundedBorder).
		BorderForeground(styles.StatusWarn).
		Padding(1, 2).
		Width(48).
		Align(lipgloss.Center).
		Render(content)
}
