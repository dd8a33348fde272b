package health

import (
	"context"
	"time"

	"github.com/Dallionking/alpha-mechanism/internal/config"
)

// Check categories.
const (
	CategoryConfig  = "config"
	CategoryGateway = "gateway"
)

// Status represents the result of a single health check.
type Status int

const (
	StatusPass Status = iota
	StatusWarn
	StatusFail
)

// String returns the lowercase text representation of the status.
func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Symbol returns the display symbol for the status.
func (s Status) Symbol() string {
	switch s {
	case StatusPass:
		return "+"
	case StatusWarn:
		return "!"
	case StatusFail:
		return "x"
	default:
		return "?"
	}
}

// CheckResult holds the result of a single check.
type CheckResult struct {
	Name     string
	Category string // "config", "gateway"
	Status   Status
	Message  string
	Duration time.Duration
}

// Report holds results of all checks.
type Report struct {
	Results  []CheckResult
	Passed   int
	Warned   int
	Failed   int
	Total    int
	Duration time.Duration
	Healthy  bool
}

// Check is a named, categorized health check function.
type Check struct {
	Name     string
	Category string
	Fn       func(ctx context.Context) CheckResult
}

// Prober is the part of the gateway client the checks need.
type Prober interface {
	BaseURL() string
	AnalyzePath() string
	BacktestPath() string
	Ping(ctx context.Context) error
	Probe(ctx context.Context, path string) (int, error)
}

// Checker runs all registered health checks against a configuration and
// the gateway it points at.
type Checker struct {
	checks  []Check
	cfg     *config.Config
	cfgFile string
	gw      Prober
}

// NewChecker creates a health checker. cfgFile is the file the config was
// read from, or "" when only defaults applied.
func NewChecker(cfg *config.Config, cfgFile string, gw Prober) *Checker {
	c := &Checker{
		cfg:     cfg,
		cfgFile: cfgFile,
		gw:      gw,
	}
	c.registerChecks()
	return c
}

// add registers a single check.
func (c *Checker) add(name, category string, fn func(ctx context.Context) CheckResult) {
	c.checks = append(c.checks, Check{
		Name:     name,
		Category: category,
		Fn:       fn,
	})
}

// Checks returns the registered checks in run order.
func (c *Checker) Checks() []Check {
	return c.checks
}

// RunAll runs every registered check and returns a report.
func (c *Checker) RunAll(ctx context.Context) *Report {
	return c.run(ctx, func(Check) bool { return true })
}

// RunCategory runs only the checks matching the given category.
func (c *Checker) RunCategory(ctx context.Context, category string) *Report {
	return c.run(ctx, func(ch Check) bool { return ch.Category == category })
}

// RunCheck runs the single check with the given name. The report is empty
// when no check has that name.
func (c *Checker) RunCheck(ctx context.Context, name string) *Report {
	return c.run(ctx, func(ch Check) bool { return ch.Name == name })
}

func (c *Checker) run(ctx context.Context, match func(Check) bool) *Report {
	start := time.Now()
	var results []CheckResult

	for _, ch := range c.checks {
		if !match(ch) {
			continue
		}
		if ctx.Err() != nil {
			results = append(results, CheckResult{
				Name:     ch.Name,
				Category: ch.Category,
				Status:   StatusFail,
				Message:  "context cancelled",
			})
			continue
		}
		t := time.Now()
		r := ch.Fn(ctx)
		r.Duration = time.Since(t)
		r.Name = ch.Name
		r.Category = ch.Category
		results = append(results, r)
	}

	return buildReport(results, time.Since(start))
}

// buildReport aggregates a slice of results into a Report.
func buildReport(results []CheckResult, dur time.Duration) *Report {
	r := &Report{
		Results:  results,
		Total:    len(results),
		Duration: dur,
	}
	for _, res := range results {
		switch res.Status {
		case StatusPass:
			r.Passed++
		case StatusWarn:
			r.Warned++
		case StatusFail:
			r.Failed++
		}
	}
	r.Healthy = r.Failed == 0
	return r
}
