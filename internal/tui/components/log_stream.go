package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/alpha-mechanism/internal/tui/styles"
)

// LogLine represents a single activity entry.
type LogLine struct {
	Time    time.Time
	Level   string // "info", "warn", "error", "success"
	Source  string // "WORKFLOW", "GATEWAY", "WATCH"
	Message string
}

// LogStream is a scrollable activity log backed by a viewport.
type LogStream struct {
	lines      []LogLine
	viewport   viewport.Model
	autoScroll bool
	maxLines   int
}

// NewLogStream creates a LogStream with the given dimensions.
func NewLogStream(width, height int) LogStream {
	return LogStream{
		viewport:   viewport.New(width, height),
		autoScroll: true,
		maxLines:   200,
	}
}

// SetSize resizes the viewport.
func (l *LogStream) SetSize(width, height int) {
	l.viewport.Width = width
	l.viewport.Height = height
	l.viewport.SetContent(l.renderLines())
	if l.autoScroll {
		l.viewport.GotoBottom()
	}
}

// Update scrolls on pgup/pgdown. Scrolling away from the bottom pauses
// auto-scroll until the bottom is reached again.
func (l LogStream) Update(msg tea.Msg) (LogStream, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}
	var cmd tea.Cmd
	switch key.String() {
	case "pgup", "pgdown":
		l.viewport, cmd = l.viewport.Update(msg)
	case "end":
		l.viewport.GotoBottom()
	default:
		return l, nil
	}
	l.autoScroll = l.viewport.AtBottom()
	return l, cmd
}

// View returns the titled viewport.
func (l LogStream) View() string {
	title := lipgloss.NewStyle().Foreground(styles.TextSecondary).Bold(true).Render("Activity")
	if !l.autoScroll {
		title += lipgloss.NewStyle().Foreground(styles.StatusWarn).Render(" (scrolled -- end to follow)")
	}
	return title + "\n" + l.viewport.View()
}

// Len returns the number of retained lines.
func (l LogStream) Len() int { return len(l.lines) }

// Lines returns the retained lines, oldest first.
func (l LogStream) Lines() []LogLine { return l.lines }

// AddLine appends a line, dropping the oldest beyond maxLines.
func (l *LogStream) AddLine(line LogLine) {
	if line.Time.IsZero() {
		line.Time = time.Now()
	}
	l.lines = append(l.lines, line)
	if over := len(l.lines) - l.maxLines; over > 0 {
		l.lines = l.lines[over:]
	}

	l.viewport.SetContent(l.renderLines())
	if l.autoScroll {
		l.viewport.GotoBottom()
	}
}

// levelColor returns the foreground color for a log level.
func levelColor(level string) lipgloss.Color {
	switch strings.ToLower(level) {
	case "warn":
		return styles.StatusWarn
	case "error":
		return styles.StatusError
	case "success":
		return styles.StatusOK
	default:
		return styles.TextSecondary
	}
}

func (l *LogStream) renderLines() string {
	var b strings.Builder
	for i, line := range l.lines {
		color := levelColor(line.Level)
		ts := styles.Dim(line.Time.Format("15:04:05"))
		src := lipgloss.NewStyle().Foreground(styles.AccentSecondary).
			Render(fmt.Sprintf("%-8s", line.Source))
		msg := lipgloss.NewStyle().Foreground(color).Render(line.Message)

		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(ts + " " + src + " " + msg)
	}
	return b.String()
}
