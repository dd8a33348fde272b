package workflow

import "fmt"

// ErrorKind tags where a failure originated so recovery can branch on it.
type ErrorKind int

const (
	AnalysisFailed ErrorKind = iota + 1
	BacktestFailed
)

func (k ErrorKind) String() string {
	switch k {
	case AnalysisFailed:
		return "AnalysisFailed"
	case BacktestFailed:
		return "BacktestFailed"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the kind by name.
func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Error is the failure carried by the Failed phase. Message is meant for
// the user; Err keeps the underlying cause for errors.Is/As.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, cause error) *Error {
	var msg string
	switch kind {
	case AnalysisFailed:
		msg = fmt.Sprintf("Failed to analyze the submission: %v", cause)
	case BacktestFailed:
		msg = fmt.Sprintf("Backtest failed: %v", cause)
	default:
		msg = cause.Error()
	}
	return &Error{Kind: kind, Message: msg, Err: cause}
}
