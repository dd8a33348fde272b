package models

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/Dallionking/alpha-mechanism/internal/domain"
	"github.com/Dallionking/alpha-mechanism/internal/gateway"
	"github.com/Dallionking/alpha-mechanism/internal/projection"
	"github.com/Dallionking/alpha-mechanism/internal/tui/components"
	"github.com/Dallionking/alpha-mechanism/internal/tui/styles"
	"github.com/Dallionking/alpha-mechanism/internal/workflow"
)

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

// FileChangedMsg reports that the selected file changed on disk. The
// dashboard view sends it from the file watcher.
type FileChangedMsg struct {
	Path    string
	Removed bool
}

type submissionLoadedMsg struct {
	path    string
	sub     domain.Submission
	err     error
	changed bool // reloaded after a change on disk
}

type callDoneMsg struct {
	outcome workflow.Outcome
}

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

// DashboardOptions configures NewDashboardModel.
type DashboardOptions struct {
	Machine     *workflow.Machine
	GatewayURL  string
	InitialPath string
	// Track is called with the path of every accepted submission so that a
	// file watcher can follow it. Optional.
	Track func(path string) error
	// GlamourStyle is the glamour standard style for descriptions. Empty
	// picks one from the terminal's color profile.
	GlamourStyle string
}

// DashboardModel is the single-screen workflow dashboard: select a paper,
// analyze it, backtest the strategy, and compare against buy & hold.
type DashboardModel struct {
	machine    *workflow.Machine
	gatewayURL string
	track      func(string) error
	mdStyle    string
	initial    string

	// ctx is cancelled on quit so an in-flight call stops early.
	ctx    context.Context
	cancel context.CancelFunc

	input        textinput.Model
	inputFocused bool
	spinner      spinner.Model
	activity     components.LogStream
	confirm      *components.ConfirmDialog

	// description is the rendered strategy description for descKey.
	description string
	descKey     string

	width  int
	height int
}

// NewDashboardModel creates the dashboard.
func NewDashboardModel(opts DashboardOptions) DashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.StatusBusy)

	ti := textinput.New()
	ti.Placeholder = "path/to/paper.pdf"
	ti.Prompt = "› "
	ti.CharLimit = 4096
	ti.SetValue(opts.InitialPath)

	ctx, cancel := context.WithCancel(context.Background())
	m := DashboardModel{
		machine:    opts.Machine,
		gatewayURL: opts.GatewayURL,
		track:      opts.Track,
		mdStyle:    opts.GlamourStyle,
		initial:    opts.InitialPath,
		ctx:        ctx,
		cancel:     cancel,
		input:      ti,
		spinner:    s,
		activity:   components.NewLogStream(80, 6),
		width:      100,
		height:     40,
	}
	if opts.InitialPath == "" {
		m.inputFocused = true
		m.input.Focus()
	}
	return m
}

// ---------------------------------------------------------------------------
// tea.Model interface
// ---------------------------------------------------------------------------

// Init loads the initial file, if one was given.
func (m DashboardModel) Init() tea.Cmd {
	if m.initial != "" {
		return loadSubmission(m.initial, false)
	}
	return textinput.Blink
}

// Update processes messages and key events.
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 60)
		m.height = msg.Height
		m.input.Width = m.leftWidth() - 8
		m.activity.SetSize(m.width-4, m.activityHeight())
		m.refreshDescription()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case submissionLoadedMsg:
		return m.handleLoaded(msg)

	case callDoneMsg:
		return m.handleCallDone(msg)

	case FileChangedMsg:
		return m.handleFileChanged(msg)

	case spinner.TickMsg:
		if m.machine.Snapshot().Phase.Busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.inputFocused {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Key handling
// ---------------------------------------------------------------------------

func (m DashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.confirm != nil {
		d, _ := m.confirm.Update(msg)
		if !d.Done {
			m.confirm = &d
			return m, nil
		}
		m.confirm = nil
		if d.Confirmed {
			m.reset()
		}
		return m, nil
	}

	if m.inputFocused {
		switch msg.String() {
		case "enter":
			path := strings.TrimSpace(m.input.Value())
			if path == "" {
				return m, nil
			}
			m.blurInput()
			return m, loadSubmission(path, false)
		case "esc":
			m.blurInput()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	snap := m.machine.Snapshot()
	switch msg.String() {
	case "q":
		return m.quit()

	case "f", "tab":
		if !snap.CanSelect() {
			m.logf("warn", "WORKFLOW", "A request is in flight; wait before choosing another file.")
			return m, nil
		}
		m.inputFocused = true
		return m, m.input.Focus()

	case "a":
		call, ok := m.machine.RequestAnalyze()
		return m.issue(call, ok, "Analyzing %s...", snapName(snap))

	case "b":
		call, ok := m.machine.RequestBacktest()
		return m.issue(call, ok, "Running backtest on %s...", m.machine.Asset())

	case "r":
		call, ok := m.machine.Retry()
		return m.issue(call, ok, "Retrying %s...", retryLabel(snap))

	case "x", "esc":
		if !snap.CanReset() {
			m.logf("warn", "WORKFLOW", "A request is in flight; wait before resetting.")
			return m, nil
		}
		if snap.Strategy != nil || snap.Result != nil {
			d := components.NewConfirmDialog("Start over?", "The current paper, strategy and results will be cleared.")
			d.ConfirmLabel, d.CancelLabel = "Reset", "Keep"
			m.confirm = &d
			return m, nil
		}
		m.reset()
		return m, nil

	case "pgup", "pgdown", "end":
		var cmd tea.Cmd
		m.activity, cmd = m.activity.Update(msg)
		return m, cmd
	}

	return m, nil
}

// issue starts a gateway call the machine accepted. Refused intents are
// no-ops; the footer already shows them as unavailable.
func (m DashboardModel) issue(call *workflow.Call, ok bool, format string, args ...any) (tea.Model, tea.Cmd) {
	if !ok {
		return m, nil
	}
	m.logf("info", "GATEWAY", format, args...)
	return m, tea.Batch(m.spinner.Tick, execute(m.ctx, call))
}

func (m *DashboardModel) reset() {
	if !m.machine.Reset() {
		m.logf("warn", "WORKFLOW", "A request is in flight; wait before resetting.")
		return
	}
	m.description, m.descKey = "", ""
	m.input.SetValue("")
	m.logf("info", "WORKFLOW", "Workflow reset.")
}

func (m DashboardModel) quit() (tea.Model, tea.Cmd) {
	m.cancel()
	return m, tea.Quit
}

func (m *DashboardModel) blurInput() {
	m.inputFocused = false
	m.input.Blur()
}

// ---------------------------------------------------------------------------
// Async results
// ---------------------------------------------------------------------------

func (m DashboardModel) handleLoaded(msg submissionLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logf("error", "FILE", "Could not open %s: %v", msg.path, msg.err)
		return m, nil
	}
	if !m.machine.SelectFile(msg.sub) {
		m.logf("warn", "FILE", "Ignored %s while a request is in flight.", msg.sub.Name)
		return m, nil
	}

	verb := "Selected"
	if msg.changed {
		verb = "Reloaded"
	}
	m.logf("info", "FILE", "%s %s (%s, %s).", verb, msg.sub.Name, msg.sub.MediaType, humanize.Bytes(uint64(msg.sub.Size())))
	if !msg.sub.IsPDF() {
		m.logf("warn", "FILE", "%s does not look like a PDF; the gateway may reject it.", msg.sub.Name)
	}
	m.input.SetValue(msg.sub.Path)

	if m.track != nil && msg.sub.Path != "" {
		if err := m.track(msg.sub.Path); err != nil {
			m.logf("warn", "WATCH", "Not watching %s: %v", msg.sub.Name, err)
		}
	}
	return m, nil
}

func (m DashboardModel) handleCallDone(msg callDoneMsg) (tea.Model, tea.Cmd) {
	if !m.machine.Resolve(msg.outcome) {
		m.logf("warn", "WORKFLOW", "Discarded a stale %s response.", strings.ToLower(msg.outcome.Ticket.Phase().String()))
		return m, nil
	}

	snap := m.machine.Snapshot()
	switch snap.Phase {
	case workflow.StrategyReady:
		m.logf("success", "WORKFLOW", "Strategy detected: %s", snap.Strategy.Name)
	case workflow.ResultsReady:
		m.logf("success", "WORKFLOW", "Backtest complete: %s total return on %s.", snap.Result.TotalReturn, snap.Result.Asset)
	case workflow.Failed:
		m.logf("error", "WORKFLOW", "%s", snap.Err.Message)
		switch {
		case gateway.IsTimeout(snap.Err):
			m.logf("warn", "GATEWAY", "The gateway did not answer in time; raise gateway.timeout for long papers.")
		case gateway.IsUnreachable(snap.Err):
			m.logf("warn", "GATEWAY", "Is the gateway running at %s? Try alpha-mechanism stub-gateway.", m.gatewayURL)
		}
	}
	m.refreshDescription()
	return m, nil
}

func (m DashboardModel) handleFileChanged(msg FileChangedMsg) (tea.Model, tea.Cmd) {
	snap := m.machine.Snapshot()
	if snap.Submission == nil || filepath.Clean(msg.Path) != filepath.Clean(snap.Submission.Path) {
		return m, nil
	}
	if msg.Removed {
		m.logf("warn", "WATCH", "%s was removed from disk; keeping the loaded copy.", snap.Submission.Name)
		return m, nil
	}
	return m, loadSubmission(msg.Path, true)
}

// refreshDescription re-renders the strategy description when the strategy
// or the panel width changed.
func (m *DashboardModel) refreshDescription() {
	snap := m.machine.Snapshot()
	if snap.Strategy == nil {
		m.description, m.descKey = "", ""
		return
	}
	width := m.leftWidth() - 8
	key := fmt.Sprintf("%s|%d|%s", snap.Strategy.Name, width, snap.Strategy.Description)
	if key == m.descKey {
		return
	}
	m.description = components.RenderMarkdown(snap.Strategy.Description, width, m.mdStyle)
	m.descKey = key
}

func (m *DashboardModel) logf(level, source, format string, args ...any) {
	m.activity.AddLine(components.LogLine{
		Level:   level,
		Source:  source,
		Message: fmt.Sprintf(format, args...),
	})
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

func loadSubmission(path string, changed bool) tea.Cmd {
	return func() tea.Msg {
		sub, err := domain.LoadSubmission(path)
		return submissionLoadedMsg{path: path, sub: sub, err: err, changed: changed}
	}
}

func execute(ctx context.Context, call *workflow.Call) tea.Cmd {
	return func() tea.Msg {
		return callDoneMsg{outcome: call.Execute(ctx)}
	}
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

// View renders the dashboard.
func (m DashboardModel) View() string {
	snap := m.machine.Snapshot()

	header := components.Header{
		Asset:   m.machine.Asset(),
		Gateway: m.gatewayURL,
		Phase:   snap.Phase,
		Spinner: m.spinner.View(),
		Width:   m.width,
	}.Render()
	progress := "  " + components.WorkflowProgress(snap).Render()
	footer := components.DashboardFooter(snap, m.inputFocused, m.width).Render()

	var body string
	if m.confirm != nil {
		body = lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, m.confirm.View())
	} else {
		left := m.renderPaperPanel(snap)
		right := m.renderPerformancePanel(snap)
		if m.stacked() {
			body = lipgloss.JoinVertical(lipgloss.Left, left, right)
		} else {
			body = lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
		}
	}

	activity := styles.Panel.Width(m.width - 2).Render(m.activity.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		progress,
		"",
		body,
		activity,
		footer,
	)
}

func (m DashboardModel) renderPaperPanel(snap workflow.Snapshot) string {
	w := m.leftWidth()
	var sections []string

	sections = append(sections, styles.Title.Render("Research Paper"))

	inputStyle := lipgloss.NewStyle().Border(styles.ThinBorder).BorderForeground(styles.BorderNormal)
	if m.inputFocused {
		inputStyle = inputStyle.BorderForeground(styles.BorderFocused)
	}
	sections = append(sections, inputStyle.Width(w-6).Render(m.input.View()))

	if sub := snap.Submission; sub != nil {
		sections = append(sections,
			styles.Label.Render("FILE ")+styles.Value.Render(sub.Name)+"  "+
				styles.Dim(fmt.Sprintf("%s · %s", sub.MediaType, humanize.Bytes(uint64(sub.Size)))))
	} else {
		sections = append(sections, styles.Dim("No paper selected. Press f and enter a PDF path."))
	}

	sections = append(sections, actionButton("Analyze Paper", snap.CanAnalyze(), snap.Phase == workflow.Analyzing, m.spinner.View()))

	if snap.Phase == workflow.Failed && snap.Err != nil {
		sections = append(sections, styles.ErrorBox.Width(w-6).Render(snap.Err.Message))
	}

	if snap.Strategy != nil {
		sections = append(sections, components.StrategyCard{
			Name:        snap.Strategy.Name,
			Description: m.description,
			Width:       w - 6,
		}.Render())
		label := fmt.Sprintf("Run Backtest (%s)", m.machine.Asset())
		sections = append(sections, actionButton(label, snap.CanBacktest(), snap.Phase == workflow.Backtesting, m.spinner.View()))
	}

	panel := styles.Panel
	if m.inputFocused {
		panel = styles.PanelFocused
	}
	content := lipgloss.JoinVertical(lipgloss.Left, joinSpaced(sections)...)
	return panel.Width(w).Render(content)
}

func (m DashboardModel) renderPerformancePanel(snap workflow.Snapshot) string {
	w := m.rightWidth()
	var sections []string

	sections = append(sections, styles.Title.Render("Performance"))

	switch {
	case snap.Result != nil:
		r := snap.Result
		tileW := (w - 8) / 2
		tiles := lipgloss.JoinHorizontal(lipgloss.Top,
			components.StatTile{Label: "Total Return", Value: r.TotalReturn, Color: components.ReturnColor(r.TotalReturn), Width: tileW}.Render(),
			" ",
			components.StatTile{Label: "Asset", Value: r.Asset, Width: tileW}.Render(),
		)
		dates, strat, mkt := projection.Columns(r)
		chart := components.EquityChart{
			Dates:    dates,
			Strategy: strat,
			Market:   mkt,
			Width:    w - 4,
			Height:   max(m.bodyHeight()-12, 6),
		}.Render()
		sections = append(sections, tiles, chart)

	case snap.Phase == workflow.Backtesting:
		sections = append(sections, m.spinner.View()+" "+styles.Subtitle.Render("Running backtest..."))

	default:
		sections = append(sections, styles.Dim("Run a backtest to see results."))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, joinSpaced(sections)...)
	return styles.Panel.Width(w).Render(content)
}

// ---------------------------------------------------------------------------
// Layout helpers
// ---------------------------------------------------------------------------

func (m DashboardModel) stacked() bool { return m.width < 110 }

func (m DashboardModel) leftWidth() int {
	if m.stacked() {
		return m.width - 2
	}
	return m.width*2/5 - 1
}

func (m DashboardModel) rightWidth() int {
	if m.stacked() {
		return m.width - 2
	}
	return m.width - m.leftWidth() - 3
}

func (m DashboardModel) activityHeight() int {
	return min(max(m.height/6, 3), 8)
}

func (m DashboardModel) bodyHeight() int {
	return max(m.height-m.activityHeight()-9, 10)
}

func actionButton(label string, enabled, busy bool, frame string) string {
	st := lipgloss.NewStyle().Padding(0, 2).Bold(true)
	switch {
	case busy:
		return st.Background(styles.BgSurface).Foreground(styles.StatusBusy).Render(frame + " " + label)
	case enabled:
		return st.Background(styles.AccentPrimary).Foreground(styles.BgDeep).Render(label)
	default:
		return st.Background(styles.BgSurface).Foreground(styles.TextMuted).Render(label)
	}
}

func joinSpaced(sections []string) []string {
	out := make([]string, 0, len(sections)*2)
	for i, s := range sections {
		if i > 0 {
			out = append(out, "")
		}
		out = append(out, s)
	}
	return out
}

func snapName(s workflow.Snapshot) string {
	if s.Submission == nil {
		return "paper"
	}
	return s.Submission.Name
}

func retryLabel(s workflow.Snapshot) string {
	if s.Resume == workflow.StrategyReady {
		return "backtest"
	}
	return "analysis"
}
