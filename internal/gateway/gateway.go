// Package gateway is the client side of the backend analysis service. It
// speaks the analyze-submission and run-backtest contract and reports every
// non-success as an *Error.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/Dallionking/alpha-mechanism/internal/domain"
)

// Operation names used in errors and logs.
const (
	OpAnalyze  = "analyze-submission"
	OpBacktest = "run-backtest"
	OpPing     = "ping"
)

// Gateway is the backend surface the workflow depends on.
type Gateway interface {
	Analyze(ctx context.Context, sub domain.Submission) (*AnalyzeResponse, error)
	RunBacktest(ctx context.Context, req BacktestRequest) (*BacktestResponse, error)
}

// AnalyzeResponse is the success body of analyze-submission.
type AnalyzeResponse struct {
	Status       string `json:"status,omitempty"`
	StrategyName string `json:"strategy_name"`
	Description  string `json:"description"`
	FileSavedAt  string `json:"file_saved_at"`
}

// BacktestRequest names the strategy to simulate and the asset to run it on.
type BacktestRequest struct {
	StrategyName string
	Ticker       string
}

// BacktestResponse is the success body of run-backtest. Chart points keep
// pointer fields so that absent keys can be told apart from zero values.
type BacktestResponse struct {
	TotalReturn string       `json:"total_return"`
	Ticker      string       `json:"ticker"`
	ChartData   []ChartPoint `json:"chart_data"`
}

// ChartPoint is one raw sample of run-backtest's chart_data.
type ChartPoint struct {
	Date     *string  `json:"date"`
	Strategy *float64 `json:"strategy"`
	Market   *float64 `json:"market"`
}

// Error describes a failed gateway call. StatusCode is zero when the request
// never produced a response.
type Error struct {
	Op         string
	StatusCode int
	Detail     string
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0 && e.Detail != "":
		return fmt.Sprintf("%s: gateway returned %d: %s", e.Op, e.StatusCode, e.Detail)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: gateway returned %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": request failed"
	}
}

func (e *Error) Unwrap() error { return e.Err }

// IsTimeout reports whether err is a gateway call that ran out of time.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
