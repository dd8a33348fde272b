// Package projection reshapes gateway responses into the domain values the
// dashboard renders. It reorders and recomputes nothing: financial values and
// summary strings pass through exactly as received.
package projection

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Dallionking/alpha-mechanism/internal/domain"
	"github.com/Dallionking/alpha-mechanism/internal/gateway"
)

// ErrMalformedResult matches every rejection produced by Result.
var ErrMalformedResult = errors.New("malformed result")

// ErrMalformedStrategy matches every rejection produced by Strategy.
var ErrMalformedStrategy = errors.New("malformed strategy")

// MalformedError pinpoints why a backtest response was rejected. Index is -1
// when the problem concerns the response as a whole.
type MalformedError struct {
	Index  int
	Reason string
}

func (e *MalformedError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("malformed result: %s", e.Reason)
	}
	return fmt.Sprintf("malformed result: sample %d: %s", e.Index, e.Reason)
}

// Is lets errors.Is(err, ErrMalformedResult) match.
func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformedResult
}

// Strategy maps an analyze-submission response to a StrategyDescriptor.
func Strategy(resp *gateway.AnalyzeResponse) (*domain.StrategyDescriptor, error) {
	if resp == nil {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedStrategy)
	}
	if strings.TrimSpace(resp.StrategyName) == "" {
		return nil, fmt.Errorf("%w: strategy_name is empty", ErrMalformedStrategy)
	}
	return &domain.StrategyDescriptor{
		Name:        resp.StrategyName,
		Description: resp.Description,
		GeneratedAt: resp.FileSavedAt,
	}, nil
}

// Result maps a run-backtest response to a SimulationResult. The series
// keeps the response order. It fails with a *MalformedError when a sample has
// no date, or when the strategy and market streams differ in length.
func Result(resp *gateway.BacktestResponse) (*domain.SimulationResult, error) {
	if resp == nil {
		return nil, &MalformedError{Index: -1, Reason: "empty response"}
	}

	var strategyN, marketN int
	for i, p := range resp.ChartData {
		if p.Date == nil || *p.Date == "" {
			return nil, &MalformedError{Index: i, Reason: "missing date"}
		}
		if p.Strategy != nil {
			strategyN++
		}
		if p.Market != nil {
			marketN++
		}
	}
	if strategyN != marketN {
		return nil, &MalformedError{
			Index:  -1,
			Reason: fmt.Sprintf("strategy stream has %d values, market stream has %d", strategyN, marketN),
		}
	}

	series := make([]domain.Sample, 0, len(resp.ChartData))
	for i, p := range resp.ChartData {
		// Equal counts can still hide a sample missing both values.
		if p.Strategy == nil || p.Market == nil {
			return nil, &MalformedError{Index: i, Reason: "missing strategy and market values"}
		}
		series = append(series, domain.Sample{
			Date:     *p.Date,
			Strategy: *p.Strategy,
			Market:   *p.Market,
		})
	}

	return &domain.SimulationResult{
		Asset:       resp.Ticker,
		TotalReturn: resp.TotalReturn,
		Series:      series,
	}, nil
}

// Columns splits a result into parallel date, strategy and market columns,
// the layout chart widgets consume.
func Columns(r *domain.SimulationResult) (dates []string, strategy, market []float64) {
	if r == nil {
		return nil, nil, nil
	}
	dates = make([]string, len(r.Series))
	strategy = make([]float64, len(r.Series))
	market = make([]float64, len(r.Series))
	for i, s := range r.Series {
		dates[i] = s.Date
		strategy[i] = s.Strategy
		market[i] = s.Market
	}
	return dates, strategy, market
}
