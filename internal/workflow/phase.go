package workflow

// Phase is the single active state of the workflow.
type Phase int

const (
	Idle Phase = iota
	Analyzing
	StrategyReady
	Backtesting
	ResultsReady
	Failed
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "Idle"
	case Analyzing:
		return "Analyzing"
	case StrategyReady:
		return "StrategyReady"
	case Backtesting:
		return "Backtesting"
	case ResultsReady:
		return "ResultsReady"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Busy reports whether a gateway call is outstanding in this phase.
func (p Phase) Busy() bool {
	return p == Analyzing || p == Backtesting
}

// Valid reports whether p is one of the six defined phases.
func (p Phase) Valid() bool {
	return p >= Idle && p <= Failed
}

// AllPhases returns every phase in workflow order.
func AllPhases() []Phase {
	return []Phase{Idle, Analyzing, StrategyReady, Backtesting, ResultsReady, Failed}
}
