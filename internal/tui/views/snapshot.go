package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/alpha-mechanism/internal/projection"
	"github.com/Dallionking/alpha-mechanism/internal/tui/components"
	"github.com/Dallionking/alpha-mechanism/internal/tui/styles"
	"github.com/Dallionking/alpha-mechanism/internal/workflow"
)

// ---------------------------------------------------------------------------
// Non-interactive rendering
// ---------------------------------------------------------------------------
//
// The analyze and run commands print one frame of workflow state without
// starting a Bubble Tea program.

// RenderSnapshot renders the state of a finished workflow as a stack of
// panels: submission, strategy, performance, and any error.
func RenderSnapshot(snap workflow.Snapshot, width int) string {
	if width < 40 {
		width = 80
	}
	inner := width - 6

	var blocks []string
	blocks = append(blocks, components.PhaseBadge(snap.Phase)+"  "+
		styles.Dim("asset "+snap.Asset))

	if sub := snap.Submission; sub != nil {
		body := fmt.Sprintf("%s %s\n%s %s\n%s %d bytes",
			styles.Label.Render("FILE "), styles.Value.Render(sub.Name),
			styles.Label.Render("TYPE "), sub.MediaType,
			styles.Label.Render("SIZE "), sub.Size)
		blocks = append(blocks, panel("Research Paper", body, width))
	}

	if s := snap.Strategy; s != nil {
		blocks = append(blocks, components.StrategyCard{
			Name:        s.Name,
			Description: components.RenderMarkdown(s.Description, inner-4, ""),
			Width:       inner,
		}.Render())
	}

	if r := snap.Result; r != nil {
		blocks = append(blocks, panel("Performance", renderResult(snap, inner), width))
	}

	if snap.Phase == workflow.Failed && snap.Err != nil {
		blocks = append(blocks, styles.ErrorBox.Width(inner).Render(snap.Err.Message))
	}

	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func renderResult(snap workflow.Snapshot, width int) string {
	r := snap.Result
	dates, strat, mkt := projection.Columns(r)

	lines := []string{
		styles.Label.Render("TOTAL RETURN ") +
			styles.Headline.Foreground(components.ReturnColor(r.TotalReturn)).Render(r.TotalReturn),
		styles.Label.Render("SAMPLES      ") + fmt.Sprintf("%d", len(r.Series)),
	}
	if len(dates) > 0 {
		lines = append(lines, styles.Label.Render("WINDOW       ")+dates[0]+" .. "+dates[len(dates)-1])
	}

	sparkW := max(width-16, 10)
	spark := styles.Sparklines(sparkW,
		styles.SparkSeries{Values: strat, Color: styles.SeriesStrategy},
		styles.SparkSeries{Values: mkt, Color: styles.SeriesMarket},
	)
	lines = append(lines, "",
		fmt.Sprintf("%-14s%s", components.StrategyLabel, spark[0]),
		fmt.Sprintf("%-14s%s", components.MarketLabel, spark[1]),
	)
	return strings.Join(lines, "\n")
}

// RenderCompactStatus returns a one-line summary of the workflow.
func RenderCompactStatus(snap workflow.Snapshot) string {
	parts := []string{components.PhaseLabel(snap.Phase)}
	if snap.Strategy != nil {
		parts = append(parts, snap.Strategy.Name)
	}
	if snap.Result != nil {
		parts = append(parts, snap.Result.Asset+" "+snap.Result.TotalReturn)
	}
	if snap.Phase == workflow.Failed && snap.Err != nil {
		parts = append(parts, snap.Err.Message)
	}
	return strings.Join(parts, " | ")
}

func panel(title, content string, width int) string {
	header := styles.Title.Render(title)
	return styles.Panel.Width(width - 2).Render(header + "\n\n" + content)
}
