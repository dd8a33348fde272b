package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/Dallionking/alpha-mechanism/internal/logging"
)

// DateLayout is the format of stub.start and stub.end.
const DateLayout = "2006-01-02"

// ValidationError describes a single config validation failure.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface for a single validation error.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// Validate checks the Config for completeness and consistency. It returns a
// slice of all discovered issues rather than stopping at the first one.
func Validate(cfg *Config) []ValidationError {
	var errs []ValidationError

	// --- Gateway ---
	if cfg.Gateway.BaseURL == "" {
		errs = append(errs, ValidationError{Field: "gateway.base_url", Message: "required field is empty"})
	} else if u, err := url.Parse(cfg.Gateway.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "gateway.base_url",
			Message: fmt.Sprintf("must be an absolute http(s) URL, got %q", cfg.Gateway.BaseURL),
		})
	}
	if cfg.Gateway.Timeout <= 0 {
		errs = append(errs, ValidationError{
			Field:   "gateway.timeout",
			Message: fmt.Sprintf("must be > 0, got %s", cfg.Gateway.Timeout),
		})
	}
	for field, path := range map[string]string{
		"gateway.analyze_path":  cfg.Gateway.AnalyzePath,
		"gateway.backtest_path": cfg.Gateway.BacktestPath,
	} {
		if !strings.HasPrefix(path, "/") {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("must start with '/', got %q", path),
			})
		}
	}

	// --- Backtest ---
	if strings.TrimSpace(cfg.Backtest.Asset) == "" {
		errs = append(errs, ValidationError{Field: "backtest.asset", Message: "required field is empty"})
	} else if strings.ContainsAny(cfg.Backtest.Asset, " \t/?&") {
		errs = append(errs, ValidationError{
			Field:   "backtest.asset",
			Message: fmt.Sprintf("not a ticker symbol: %q", cfg.Backtest.Asset),
		})
	}

	// --- Logging ---
	if _, ok := logging.ParseLevel(cfg.Log.Level); !ok {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("must be one of debug, info, warn, error; got %q", cfg.Log.Level),
		})
	}
	if f := strings.ToLower(cfg.Log.Format); f != "json" && f != "text" {
		errs = append(errs, ValidationError{
			Field:   "log.format",
			Message: fmt.Sprintf("must be json or text, got %q", cfg.Log.Format),
		})
	}

	// --- Watch ---
	if cfg.Watch.Debounce < 0 {
		errs = append(errs, ValidationError{
			Field:   "watch.debounce",
			Message: fmt.Sprintf("must be >= 0, got %s", cfg.Watch.Debounce),
		})
	}

	// --- Stub gateway ---
	if _, _, err := net.SplitHostPort(cfg.Stub.Addr); err != nil {
		errs = append(errs, ValidationError{
			Field:   "stub.addr",
			Message: fmt.Sprintf("must be host:port, got %q", cfg.Stub.Addr),
		})
	}
	if cfg.Stub.Latency < 0 {
		errs = append(errs, ValidationError{
			Field:   "stub.latency",
			Message: fmt.Sprintf("must be >= 0, got %s", cfg.Stub.Latency),
		})
	}
	start, startErr := time.Parse(DateLayout, cfg.Stub.Start)
	if startErr != nil {
		errs = append(errs, ValidationError{
			Field:   "stub.start",
			Message: fmt.Sprintf("must be YYYY-MM-DD, got %q", cfg.Stub.Start),
		})
	}
	end, endErr := time.Parse(DateLayout, cfg.Stub.End)
	if endErr != nil {
		errs = append(errs, ValidationError{
			Field:   "stub.end",
			Message: fmt.Sprintf("must be YYYY-MM-DD, got %q", cfg.Stub.End),
		})
	}
	if startErr == nil && endErr == nil && !start.Before(end) {
		errs = append(errs, ValidationError{
			Field:   "stub.start / stub.end",
			Message: fmt.Sprintf("start (%s) must be before end (%s)", cfg.Stub.Start, cfg.Stub.End),
		})
	}

	return errs
}
