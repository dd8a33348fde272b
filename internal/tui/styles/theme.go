package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Logo is the banner printed by the root command.
const Logo = `    _    _       _                __  __           _                 _
   / \  | |_ __ | |__   __ _     |  \/  | ___  ___| |__   __ _ _ __ (_)___ _ __ ___
  / _ \ | | '_ \| '_ \ / _' |____| |\/| |/ _ \/ __| '_ \ / _' | '_ \| / __| '_ ' _ \
 / ___ \| | |_) | | | | (_| |____| |  | |  __/ (__| | | | (_| | | | | \__ \ | | | | |
/_/   \_\_| .__/|_| |_|\__,_|    |_|  |_|\___|\___|_| |_|\__,_|_| |_|_|___/_| |_| |_|
          |_|`

// CompactLogo is the one-line product mark.
const CompactLogo = "α-mechanism"

// ---------------------------------------------------------------------------
// Panel styles
// ---------------------------------------------------------------------------

// Panel is the default panel style: rounded border in BorderNormal with
// 1-cell horizontal padding.
var Panel = lipgloss.NewStyle().
	Border(RoundedBorder).
	BorderForeground(BorderNormal).
	PaddingLeft(1).
	PaddingRight(1)

// PanelFocused is identical to Panel but uses the focus border.
var PanelFocused = Panel.
	BorderForeground(BorderFocused)

// Card is a compact elevated surface used for the strategy box.
var Card = lipgloss.NewStyle().
	Background(BgSurface).
	Border(ThinBorder).
	BorderForeground(BorderNormal).
	PaddingLeft(1).
	PaddingRight(1)

// ErrorBox frames a failure message.
var ErrorBox = lipgloss.NewStyle().
	Border(ThinBorder).
	BorderForeground(StatusError).
	Foreground(StatusError).
	PaddingLeft(1).
	PaddingRight(1)

// ---------------------------------------------------------------------------
// Header / Footer
// ---------------------------------------------------------------------------

// Header spans the full width with bold accent text.
var Header = lipgloss.NewStyle().
	Background(BgDeep).
	Foreground(AccentPrimary).
	Bold(true).
	PaddingLeft(1).
	PaddingRight(1)

// Footer spans the full width with muted text.
var Footer = lipgloss.NewStyle().
	Background(BgDeep).
	Foreground(TextMuted).
	PaddingLeft(1).
	PaddingRight(1)

// ---------------------------------------------------------------------------
// Badge helpers
// ---------------------------------------------------------------------------

// Badge returns an inline colored badge such as "● ANALYZING".
func Badge(text string, color lipgloss.Color) string {
	dot := lipgloss.NewStyle().Foreground(color).Render("●")
	label := lipgloss.NewStyle().
		Foreground(color).
		Bold(true).
		Render(text)
	return dot + " " + label
}

// ---------------------------------------------------------------------------
// Typography styles
// ---------------------------------------------------------------------------

// Title is bold AccentPrimary text for section headings.
var Title = lipgloss.NewStyle().
	Foreground(AccentPrimary).
	Bold(true)

// Subtitle is regular TextSecondary text for secondary headings.
var Subtitle = lipgloss.NewStyle().
	Foreground(TextSecondary)

// Label is TextMuted text for field labels.
var Label = lipgloss.NewStyle().
	Foreground(TextMuted)

// Value is bold TextPrimary text for data values.
var Value = lipgloss.NewStyle().
	Foreground(TextPrimary).
	Bold(true)

// Headline is the large-number style for the total return.
var Headline = lipgloss.NewStyle().
	Foreground(StatusOK).
	Bold(true)

// ---------------------------------------------------------------------------
// Divider
// ---------------------------------------------------------------------------

// Divider returns a horizontal rule of the given width using the ─ character
// rendered in BorderNormal color.
func Divider(width int) string {
	if width <= 0 {
		return ""
	}
	line := strings.Repeat("─", width)
	return lipgloss.NewStyle().Foreground(BorderNormal).Render(line)
}
