package health

import (
	"fmt"
	"strings"

	"github.com/Dallionking/alpha-mechanism/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// category display order
var categoryOrder = []string{CategoryConfig, CategoryGateway}

func categoryLabel(cat string) string {
	switch cat {
	case CategoryConfig:
		return "Configuration"
	case CategoryGateway:
		return "Analysis Gateway"
	default:
		return strings.ToUpper(cat)
	}
}

// FormatReport renders the report as one table per category followed by a
// summary line.
func FormatReport(r *Report) string {
	var b strings.Builder

	b.WriteString("\n  " + styles.Title.Render("Health Check") + "\n")

	grouped := make(map[string][]CheckResult)
	for _, res := range r.Results {
		grouped[res.Category] = append(grouped[res.Category], res)
	}

	catStyle := lipgloss.NewStyle().Foreground(styles.AccentSecondary).Bold(true).MarginLeft(2)
	for _, cat := range categoryOrder {
		results := grouped[cat]
		if len(results) == 0 {
			continue
		}
		b.WriteString("\n" + catStyle.Render(categoryLabel(cat)) + "\n")
		b.WriteString(indent(resultTable(results).Render(), "  ") + "\n")
	}

	summary := fmt.Sprintf("%d/%d passed", r.Passed, r.Total)
	if r.Warned > 0 {
		summary += fmt.Sprintf(", %d warning(s)", r.Warned)
	}
	if r.Failed > 0 {
		summary += fmt.Sprintf(", %d failed", r.Failed)
	}
	b.WriteString("\n  " + overallBadge(r) + "  " + styles.Subtitle.Render(summary))
	b.WriteString(styles.Dim(fmt.Sprintf("  (%s)", formatDuration(r.Duration.Milliseconds()))) + "\n")

	return b.String()
}

func resultTable(results []CheckResult) *table.Table {
	rows := make([][]string, 0, len(results))
	for _, res := range results {
		rows = append(rows, []string{
			res.Status.Symbol(),
			res.Name,
			styles.Truncate(res.Message, 56),
			formatDuration(res.Duration.Milliseconds()),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.BorderNormal)).
		BorderRow(false).
		BorderHeader(false).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
			switch col {
			case 0:
				if row >= 0 && row < len(results) {
					return s.Foreground(statusColor(results[row].Status)).Bold(true)
				}
			case 1:
				return s.Foreground(styles.TextPrimary).Width(22)
			case 2:
				return s.Foreground(styles.TextSecondary)
			case 3:
				return s.Foreground(styles.TextMuted).Align(lipgloss.Right)
			}
			return s
		})
}

func statusColor(s Status) lipgloss.Color {
	switch s {
	case StatusPass:
		return styles.StatusOK
	case StatusWarn:
		return styles.StatusWarn
	case StatusFail:
		return styles.StatusError
	default:
		return styles.TextMuted
	}
}

// overallBadge returns HEALTHY, DEGRADED or UNHEALTHY.
func overallBadge(r *Report) string {
	switch {
	case r.Failed > 0:
		return styles.Badge("UNHEALTHY", styles.StatusError)
	case r.Warned > 0:
		return styles.Badge("DEGRADED", styles.StatusWarn)
	default:
		return styles.Badge("HEALTHY", styles.StatusOK)
	}
}

// formatDuration formats milliseconds as a short human-readable string.
func formatDuration(ms int64) string {
	if ms < 1 {
		return "<1ms"
	}
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%.1fs", float64(ms)/1000.0)
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
