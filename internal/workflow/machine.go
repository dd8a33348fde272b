// Package workflow drives the submit → analyze → backtest sequence as an
// explicit state machine. The Machine owns the only mutable state; the
// dashboard reads Snapshots and issues intents.
package workflow

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/Dallionking/alpha-mechanism/internal/domain"
	"github.com/Dallionking/alpha-mechanism/internal/gateway"
	"github.com/Dallionking/alpha-mechanism/internal/projection"
)

// DefaultAsset is the ticker every backtest runs against unless configured
// otherwise.
const DefaultAsset = "BTC-USD"

// Snapshot is a copy of the machine state. Strategy and Result are cloned,
// so callers may keep or modify them freely.
type Snapshot struct {
	Phase      Phase                      `json:"phase"`
	Submission *domain.SubmissionInfo     `json:"submission,omitempty"`
	Strategy   *domain.StrategyDescriptor `json:"strategy,omitempty"`
	Result     *domain.SimulationResult   `json:"result,omitempty"`
	Err        *Error                     `json:"error,omitempty"`
	// Resume is the phase a retry returns to. Only meaningful when Failed.
	Resume Phase  `json:"resume"`
	Asset  string `json:"asset"`
}

// CanSelect reports whether SelectFile would be accepted.
func (s Snapshot) CanSelect() bool { return !s.Phase.Busy() }

// CanAnalyze reports whether RequestAnalyze would issue a call.
func (s Snapshot) CanAnalyze() bool { return s.Submission != nil && !s.Phase.Busy() }

// CanBacktest reports whether RequestBacktest would issue a call.
func (s Snapshot) CanBacktest() bool { return s.Strategy != nil && !s.Phase.Busy() }

// CanReset reports whether Reset would be accepted.
func (s Snapshot) CanReset() bool { return !s.Phase.Busy() }

// CanRetry reports whether Retry would issue a call.
func (s Snapshot) CanRetry() bool {
	if s.Phase != Failed {
		return false
	}
	if s.Resume == StrategyReady {
		return s.CanBacktest()
	}
	return s.CanAnalyze()
}

// Ticket identifies an issued gateway call. An outcome is applied only while
// its ticket is still the machine's current one.
type Ticket struct {
	seq   uint64
	phase Phase
}

// Phase returns the phase the call was issued from.
func (t Ticket) Phase() Phase { return t.phase }

// Call is a gateway round trip the machine has committed to. Execute is safe
// to run off the event loop: it reads only the call's own copies.
type Call struct {
	Ticket     Ticket
	gw         gateway.Gateway
	submission domain.Submission
	request    gateway.BacktestRequest
}

// Execute performs the round trip and projects the response.
func (c *Call) Execute(ctx context.Context) Outcome {
	out := Outcome{Ticket: c.Ticket}
	switch c.Ticket.phase {
	case Analyzing:
		resp, err := c.gw.Analyze(ctx, c.submission)
		if err != nil {
			out.Err = err
			return out
		}
		out.Strategy, out.Err = projection.Strategy(resp)
	case Backtesting:
		resp, err := c.gw.RunBacktest(ctx, c.request)
		if err != nil {
			out.Err = err
			return out
		}
		out.Result, out.Err = projection.Result(resp)
	default:
		out.Err = errors.New("call issued from a phase without a gateway operation")
	}
	return out
}

// Outcome is the result of executing a Call.
type Outcome struct {
	Ticket   Ticket
	Strategy *domain.StrategyDescriptor
	Result   *domain.SimulationResult
	Err      error
}

// Option configures a Machine.
type Option func(*Machine)

// WithAsset sets the asset every backtest targets.
func WithAsset(asset string) Option {
	return func(m *Machine) {
		if asset != "" {
			m.asset = asset
		}
	}
}

// WithLogger sets the logger transitions are written to.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.log = l
		}
	}
}

type state struct {
	phase      Phase
	submission *domain.Submission
	strategy   *domain.StrategyDescriptor
	result     *domain.SimulationResult
	err        *Error
	resume     Phase
}

// Machine is the workflow state machine.
type Machine struct {
	mu    sync.Mutex
	gw    gateway.Gateway
	asset string
	log   *slog.Logger
	seq   uint64
	st    state
}

// New creates a Machine in the Idle phase.
func New(gw gateway.Gateway, opts ...Option) *Machine {
	m := &Machine{
		gw:    gw,
		asset: DefaultAsset,
		log:   slog.Default(),
	}
	for _, o := range opts {
		o(m)
	}
	m.log = m.log.With("component", "workflow")
	return m
}

// Asset returns the configured backtest asset.
func (m *Machine) Asset() string { return m.asset }

// Snapshot returns the current state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Machine) snapshotLocked() Snapshot {
	s := Snapshot{
		Phase:  m.st.phase,
		Err:    m.st.err,
		Resume: m.st.resume,
		Asset:  m.asset,
	}
	if m.st.strategy != nil {
		strategy := *m.st.strategy
		s.Strategy = &strategy
	}
	if m.st.result != nil {
		result := *m.st.result
		result.Series = slices.Clone(result.Series)
		s.Result = &result
	}
	if m.st.submission != nil {
		info := m.st.submission.Info()
		s.Submission = &info
	}
	return s
}

// SelectFile replaces the current submission. Rejected while a call is in
// flight. The phase and any error are left as they are.
func (m *Machine) SelectFile(sub domain.Submission) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.st.phase.Busy() {
		m.log.Debug("select ignored while busy", "phase", m.st.phase)
		return false
	}
	m.st.submission = &sub
	m.log.Info("submission selected", "file", sub.Name, "media_type", sub.MediaType, "bytes", sub.Size())
	return true
}

// RequestAnalyze starts analysis of the current submission. It returns
// false, and changes nothing, when no submission is selected or a call is
// already in flight.
func (m *Machine) RequestAnalyze() (*Call, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.st.submission == nil || m.st.phase.Busy() {
		m.log.Debug("analyze ignored", "phase", m.st.phase, "has_submission", m.st.submission != nil)
		return nil, false
	}

	m.st.strategy = nil
	m.st.result = nil
	m.st.err = nil
	call := &Call{
		Ticket:     m.advanceLocked(Analyzing),
		gw:         m.gw,
		submission: *m.st.submission,
	}
	return call, true
}

// RequestBacktest starts a backtest of the current strategy against the
// configured asset. It returns false, and changes nothing, when no strategy
// exists or a call is already in flight.
func (m *Machine) RequestBacktest() (*Call, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.st.strategy == nil || m.st.phase.Busy() {
		m.log.Debug("backtest ignored", "phase", m.st.phase, "has_strategy", m.st.strategy != nil)
		return nil, false
	}

	m.st.result = nil
	m.st.err = nil
	call := &Call{
		Ticket: m.advanceLocked(Backtesting),
		gw:     m.gw,
		request: gateway.BacktestRequest{
			StrategyName: m.st.strategy.Name,
			Ticker:       m.asset,
		},
	}
	return call, true
}

// Retry re-issues the intent that failed: a backtest when the strategy
// survived the failure, an analysis otherwise.
func (m *Machine) Retry() (*Call, bool) {
	snap := m.Snapshot()
	if snap.Phase != Failed {
		return nil, false
	}
	if snap.Resume == StrategyReady {
		return m.RequestBacktest()
	}
	return m.RequestAnalyze()
}

// Reset clears every field and returns to Idle. Rejected while a call is in
// flight, so the outstanding call always lands on the state it was issued
// from.
func (m *Machine) Reset() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.st.phase.Busy() {
		m.log.Debug("reset ignored while busy", "phase", m.st.phase)
		return false
	}
	from := m.st.phase
	m.seq++
	m.st = state{phase: Idle}
	m.log.Info("workflow reset", "from", from)
	return true
}

// Resolve applies an outcome. It returns false when the outcome is stale,
// i.e. the machine has moved through another transition since the call was
// issued.
func (m *Machine) Resolve(o Outcome) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if o.Ticket.seq != m.seq || o.Ticket.phase != m.st.phase {
		m.log.Warn("discarding stale outcome",
			"issued_from", o.Ticket.phase, "current", m.st.phase,
			"ticket", o.Ticket.seq, "seq", m.seq)
		return false
	}

	switch o.Ticket.phase {
	case Analyzing:
		if o.Err != nil || o.Strategy == nil {
			m.failLocked(AnalysisFailed, Idle, o.Err)
			return true
		}
		m.st.strategy = o.Strategy
		m.transitionLocked(StrategyReady)
		m.log.Info("strategy ready", "strategy", o.Strategy.Name)
	case Backtesting:
		if o.Err != nil || o.Result == nil {
			m.failLocked(BacktestFailed, StrategyReady, o.Err)
			return true
		}
		m.st.result = o.Result
		m.transitionLocked(ResultsReady)
		m.log.Info("results ready", "asset", o.Result.Asset, "total_return", o.Result.TotalReturn, "samples", len(o.Result.Series))
	default:
		return false
	}
	return true
}

// Analyze requests, executes and resolves an analysis in one step.
func (m *Machine) Analyze(ctx context.Context) (Snapshot, bool) {
	call, ok := m.RequestAnalyze()
	if !ok {
		return m.Snapshot(), false
	}
	m.Resolve(call.Execute(ctx))
	return m.Snapshot(), true
}

// Backtest requests, executes and resolves a backtest in one step.
func (m *Machine) Backtest(ctx context.Context) (Snapshot, bool) {
	call, ok := m.RequestBacktest()
	if !ok {
		return m.Snapshot(), false
	}
	m.Resolve(call.Execute(ctx))
	return m.Snapshot(), true
}

// advanceLocked moves into a busy phase and issues the ticket for its call.
func (m *Machine) advanceLocked(to Phase) Ticket {
	m.seq++
	m.transitionLocked(to)
	return Ticket{seq: m.seq, phase: to}
}

func (m *Machine) transitionLocked(to Phase) {
	from := m.st.phase
	m.st.phase = to
	m.log.Info("phase transition", "from", from, "to", to)
}

func (m *Machine) failLocked(kind ErrorKind, resume Phase, cause error) {
	if cause == nil {
		cause = errors.New("gateway returned no data")
	}
	m.st.err = newError(kind, cause)
	m.st.resume = resume
	m.transitionLocked(Failed)
	m.log.Error("workflow step failed", "kind", kind, "error", cause)
}
