package health

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Dallionking/alpha-mechanism/internal/config"
	"github.com/Dallionking/alpha-mechanism/internal/gateway"
	"github.com/Dallionking/alpha-mechanism/internal/logging"
	"github.com/Dallionking/alpha-mechanism/internal/watch"
)

// registerChecks registers the config and gateway checks.
func (c *Checker) registerChecks() {
	// Config checks
	c.add("config-file", CategoryConfig, c.checkConfigFile)
	c.add("config-valid", CategoryConfig, c.checkConfigValid)
	c.add("log-file", CategoryConfig, c.checkLogFile)
	c.add("file-watch", CategoryConfig, c.checkFileWatch)

	// Gateway checks
	c.add("gateway-reachable", CategoryGateway, c.checkReachable)
	c.add("analyze-endpoint", CategoryGateway, c.endpointCheck(c.gw.AnalyzePath))
	c.add("backtest-endpoint", CategoryGateway, c.endpointCheck(c.gw.BacktestPath))
}

// ---------------------------------------------------------------------------
// Config checks
// ---------------------------------------------------------------------------

func (c *Checker) checkConfigFile(ctx context.Context) CheckResult {
	if c.cfgFile == "" {
		return CheckResult{Status: StatusWarn, Message: "no config file; using defaults (run `config init`)"}
	}
	return CheckResult{Status: StatusPass, Message: c.cfgFile}
}

func (c *Checker) checkConfigValid(ctx context.Context) CheckResult {
	errs := config.Validate(c.cfg)
	if len(errs) == 0 {
		return CheckResult{Status: StatusPass, Message: "all keys valid"}
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return CheckResult{Status: StatusFail, Message: strings.Join(msgs, "; ")}
}

func (c *Checker) checkLogFile(ctx context.Context) CheckResult {
	if c.cfg.Log.File == "" {
		return CheckResult{Status: StatusWarn, Message: "log.file is empty; logs are discarded"}
	}
	f, err := logging.OpenFile(c.cfg.Log.File)
	if err != nil {
		return CheckResult{Status: StatusFail, Message: err.Error()}
	}
	f.Close()
	return CheckResult{Status: StatusPass, Message: c.cfg.Log.File}
}

func (c *Checker) checkFileWatch(ctx context.Context) CheckResult {
	if !c.cfg.Watch.Enabled {
		return CheckResult{Status: StatusPass, Message: "disabled"}
	}
	w, err := watch.New(c.cfg.Watch.Debounce, logging.Discard())
	if err != nil {
		return CheckResult{Status: StatusWarn, Message: fmt.Sprintf("file watching unavailable: %v", err)}
	}
	w.Close()
	return CheckResult{Status: StatusPass, Message: fmt.Sprintf("debounce %s", c.cfg.Watch.Debounce)}
}

// ---------------------------------------------------------------------------
// Gateway checks
// ---------------------------------------------------------------------------

func (c *Checker) checkReachable(ctx context.Context) CheckResult {
	start := time.Now()
	if err := c.gw.Ping(ctx); err != nil {
		msg := err.Error()
		if gateway.IsUnreachable(err) {
			msg = fmt.Sprintf("nothing listening at %s", c.gw.BaseURL())
		}
		return CheckResult{Status: StatusFail, Message: msg}
	}
	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("%s answered in %s", c.gw.BaseURL(), time.Since(start).Round(time.Millisecond)),
	}
}

// endpointCheck confirms that path is routed. A bare GET is expected to be
// refused (405 for the upload route, 422 for the backtest route without
// parameters); only 404 means the route is missing.
func (c *Checker) endpointCheck(path func() string) func(ctx context.Context) CheckResult {
	return func(ctx context.Context) CheckResult {
		p := path()
		code, err := c.gw.Probe(ctx, p)
		switch {
		case err != nil:
			return CheckResult{Status: StatusFail, Message: fmt.Sprintf("%s: %v", p, err)}
		case code == http.StatusNotFound:
			return CheckResult{Status: StatusFail, Message: fmt.Sprintf("%s not routed (404)", p)}
		case code >= http.StatusInternalServerError:
			return CheckResult{Status: StatusWarn, Message: fmt.Sprintf("%s answered %d", p, code)}
		default:
			return CheckResult{Status: StatusPass, Message: fmt.Sprintf("%s routed (%d)", p, code)}
		}
	}
}
