package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/alpha-mechanism/internal/tui/styles"
	"github.com/Dallionking/alpha-mechanism/internal/workflow"
)

// ProgressStep shows a multi-step progress indicator.
type ProgressStep struct {
	Steps   []string // step labels
	Current int      // 0-indexed current step; len(Steps) means all done
	Failed  bool     // the current step failed
}

// Render returns the styled progress indicator.
// Completed steps get a filled green dot, the current step an accent dot (or
// a red cross when it failed), and future steps an empty muted circle.
func (p ProgressStep) Render() string {
	if len(p.Steps) == 0 {
		return ""
	}

	var parts []string
	for i, label := range p.Steps {
		var st lipgloss.Style
		mark := "●"
		switch {
		case i < p.Current:
			st = lipgloss.NewStyle().Foreground(styles.StatusOK)
		case i == p.Current && p.Failed:
			st = lipgloss.NewStyle().Foreground(styles.StatusError).Bold(true)
			mark = "✕"
		case i == p.Current:
			st = lipgloss.NewStyle().Foreground(styles.AccentPrimary).Bold(true)
		default:
			st = lipgloss.NewStyle().Foreground(styles.TextMuted)
			mark = "○"
		}
		parts = append(parts, st.Render(mark+" "+label))
	}

	return strings.Join(parts, styles.Dim(" ─ "))
}

// WorkflowSteps are the stages shown above the dashboard panels.
var WorkflowSteps = []string{"Paper", "Analysis", "Backtest", "Results"}

// WorkflowProgress maps a snapshot onto WorkflowSteps.
func WorkflowProgress(snap workflow.Snapshot) ProgressStep {
	p := ProgressStep{Steps: WorkflowSteps}
	switch snap.Phase {
	case workflow.Idle:
		if snap.Submission != nil {
			p.Current = 1
		}
	case workflow.Analyzing:
		p.Current = 1
	case workflow.StrategyReady, workflow.Backtesting:
		p.Current = 2
	case workflow.ResultsReady:
		p.Current = len(WorkflowSteps)
	case workflow.Failed:
		p.Failed = true
		p.Current = 1
		if snap.Resume == workflow.StrategyReady {
			p.Current = 2
		}
	}
	return p
}
