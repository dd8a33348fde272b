package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func paint(c lipgloss.Color) func(string) string {
	st := lipgloss.NewStyle().Foreground(c)
	return func(s string) string { return st.Render(s) }
}

// Foreground shorthands for one-off strings.
var (
	Accent = paint(AccentPrimary)
	Gold   = paint(AccentGold)
	Green  = paint(StatusOK)
	Red    = paint(StatusError)
	Dim    = paint(TextMuted)
)

// Bold renders s in bold TextPrimary.
func Bold(s string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(TextPrimary).Render(s)
}

// ---------------------------------------------------------------------------
// Sparklines
// ---------------------------------------------------------------------------

var blocks = []rune("▁▂▃▄▅▆▇█")

// SparkSeries is one line of a sparkline group.
type SparkSeries struct {
	Values []float64
	Color  lipgloss.Color
}

// Sparklines renders each series as a row of block characters width columns
// wide. All rows share one vertical scale so that they can be compared. An
// empty series renders as "".
func Sparklines(width int, series ...SparkSeries) []string {
	out := make([]string, len(series))
	if width <= 0 {
		return out
	}

	sampled := make([][]float64, len(series))
	lo, hi := 0.0, 0.0
	seen := false
	for i, s := range series {
		sampled[i] = bucketMeans(s.Values, width)
		for _, v := range sampled[i] {
			if !seen || v < lo {
				lo = v
			}
			if !seen || v > hi {
				hi = v
			}
			seen = true
		}
	}

	top := len(blocks) - 1
	for i, s := range series {
		if len(sampled[i]) == 0 {
			continue
		}
		var b strings.Builder
		for _, v := range sampled[i] {
			level := top / 2
			if hi > lo {
				level = int((v - lo) / (hi - lo) * float64(top))
			}
			b.WriteRune(blocks[min(max(level, 0), top)])
		}
		out[i] = lipgloss.NewStyle().Foreground(s.Color).Render(b.String())
	}
	return out
}

// bucketMeans shrinks values to at most width points by averaging
// consecutive runs. Shorter inputs are returned as they are.
func bucketMeans(values []float64, width int) []float64 {
	if len(values) <= width {
		return values
	}
	out := make([]float64, width)
	for i := range width {
		from, to := i*len(values)/width, (i+1)*len(values)/width
		sum := 0.0
		for _, v := range values[from:to] {
			sum += v
		}
		out[i] = sum / float64(to-from)
	}
	return out
}

// Truncate shortens s to at most width terminal cells, ending in an
// ellipsis when anything was cut. Escape sequences are preserved.
func Truncate(s string, width int) string {
	return ansi.Truncate(s, width, "…")
}
