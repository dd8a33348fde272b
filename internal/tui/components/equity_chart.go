package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/alpha-mechanism/internal/tui/styles"
)

// Series labels used by the chart legend.
const (
	StrategyLabel = "AI Strategy"
	MarketLabel   = "Buy & Hold"
)

const (
	strategyMark = '•'
	marketMark   = '·'
	overlapMark  = '◆'
	axisWidth    = 8
)

// EquityChart plots the strategy and market series on a shared scale.
type EquityChart struct {
	Dates    []string
	Strategy []float64
	Market   []float64
	Width    int // total width including the axis
	Height   int // plot rows
}

// Render returns the chart, its date axis, and a legend.
func (c EquityChart) Render() string {
	n := min(len(c.Strategy), len(c.Market))
	if n == 0 {
		return styles.Dim("No samples to plot.")
	}
	width := c.Width
	if width <= 0 {
		width = 72
	}
	height := c.Height
	if height <= 1 {
		height = 10
	}
	plotW := max(width-axisWidth, 8)

	strat := resample(c.Strategy[:n], plotW)
	mkt := resample(c.Market[:n], plotW)
	lo, hi := bounds(strat, mkt)

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", plotW))
	}
	for x := 0; x < plotW; x++ {
		sr := rowFor(strat[x], lo, hi, height)
		mr := rowFor(mkt[x], lo, hi, height)
		grid[mr][x] = marketMark
		if sr == mr {
			grid[sr][x] = overlapMark
		} else {
			grid[sr][x] = strategyMark
		}
	}

	stratStyle := lipgloss.NewStyle().Foreground(styles.SeriesStrategy)
	mktStyle := lipgloss.NewStyle().Foreground(styles.SeriesMarket)
	overlapStyle := lipgloss.NewStyle().Foreground(styles.AccentGold)
	axisStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)

	var b strings.Builder
	for r, row := range grid {
		label := ""
		switch r {
		case 0:
			label = fmt.Sprintf("%.2f", hi)
		case height - 1:
			label = fmt.Sprintf("%.2f", lo)
		case (height - 1) / 2:
			label = fmt.Sprintf("%.2f", (hi+lo)/2)
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s ┤", axisWidth-2, label)))
		for _, ch := range row {
			switch ch {
			case strategyMark:
				b.WriteString(stratStyle.Render(string(ch)))
			case marketMark:
				b.WriteString(mktStyle.Render(string(ch)))
			case overlapMark:
				b.WriteString(overlapStyle.Render(string(ch)))
			default:
				b.WriteRune(ch)
			}
		}
		b.WriteByte('\n')
	}
	b.WriteString(axisStyle.Render(strings.Repeat(" ", axisWidth-1) + "└" + strings.Repeat("─", plotW)))
	b.WriteByte('\n')

	if len(c.Dates) > 0 {
		first, last := c.Dates[0], c.Dates[len(c.Dates)-1]
		gap := max(plotW-len(first)-len(last), 1)
		b.WriteString(axisStyle.Render(strings.Repeat(" ", axisWidth) + first + strings.Repeat(" ", gap) + last))
		b.WriteByte('\n')
	}

	legend := stratStyle.Render(string(strategyMark)+" "+StrategyLabel) + "   " +
		mktStyle.Render(string(marketMark)+" "+MarketLabel)
	b.WriteString(strings.Repeat(" ", axisWidth) + legend)

	return b.String()
}

// resample maps values onto width columns by nearest neighbour.
func resample(values []float64, width int) []float64 {
	out := make([]float64, width)
	for i := range out {
		idx := i * len(values) / width
		if idx >= len(values) {
			idx = len(values) - 1
		}
		out[i] = values[idx]
	}
	return out
}

func bounds(series ...[]float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if hi == lo {
		hi = lo + 1
	}
	return lo, hi
}

// rowFor maps v to a grid row; row 0 is the top.
func rowFor(v, lo, hi float64, height int) int {
	norm := (v - lo) / (hi - lo)
	r := height - 1 - int(math.Round(norm*float64(height-1)))
	return min(max(r, 0), height-1)
}
