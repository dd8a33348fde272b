package styles

import "github.com/charmbracelet/lipgloss"

// Slate -- Dark Palette
// Slate backgrounds, indigo accents, and one fixed color per chart series.

var (
	// Backgrounds (darkest to lightest)
	BgDeep    = lipgloss.Color("#0f172a") // Main background
	BgSurface = lipgloss.Color("#1e293b") // Cards, strategy box

	// Accents
	AccentPrimary   = lipgloss.Color("#818cf8") // Indigo -- titles, focus
	AccentSecondary = lipgloss.Color("#38bdf8") // Sky -- secondary info
	AccentGold      = lipgloss.Color("#fbbf24") // Amber -- headline numbers

	// Status
	StatusOK    = lipgloss.Color("#22c55e")
	StatusWarn  = lipgloss.Color("#f59e0b")
	StatusError = lipgloss.Color("#ef4444")
	StatusBusy  = lipgloss.Color("#a78bfa")

	// Chart series
	SeriesStrategy = lipgloss.Color("#4ade80") // Strategy equity
	SeriesMarket   = lipgloss.Color("#60a5fa") // Buy & hold

	// Text
	TextPrimary   = lipgloss.Color("#e2e8f0")
	TextSecondary = lipgloss.Color("#94a3b8")
	TextMuted     = lipgloss.Color("#64748b")

	// Borders
	BorderNormal  = lipgloss.Color("#334155")
	BorderFocused = lipgloss.Color("#818cf8")
)
