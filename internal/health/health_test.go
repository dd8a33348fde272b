package health

import (
	"context"
	"errors"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dallionking/alpha-mechanism/internal/config"
)

type fakeProber struct {
	pingErr error
	codes   map[string]int
}

func (f *fakeProber) BaseURL() string      { return "http://gateway.test" }
func (f *fakeProber) AnalyzePath() string  { return "/analyze-paper/" }
func (f *fakeProber) BacktestPath() string { return "/run-backtest/" }

func (f *fakeProber) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeProber) Probe(ctx context.Context, path string) (int, error) {
	if code, ok := f.codes[path]; ok {
		return code, nil
	}
	return http.StatusNotFound, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Log.File = filepath.Join(t.TempDir(), "logs", "alpha.log")
	return cfg
}

func healthyProber() *fakeProber {
	return &fakeProber{codes: map[string]int{
		"/analyze-paper/": http.StatusMethodNotAllowed,
		"/run-backtest/":  http.StatusUnprocessableEntity,
	}}
}

func findResult(t *testing.T, r *Report, name string) CheckResult {
	t.Helper()
	for _, res := range r.Results {
		if res.Name == name {
			return res
		}
	}
	t.Fatalf("no result named %q", name)
	return CheckResult{}
}

func TestRunAllHealthy(t *testing.T) {
	c := NewChecker(testConfig(t), "/etc/alpha-mechanism.yaml", healthyProber())
	r := c.RunAll(context.Background())

	if !r.Healthy || r.Failed != 0 {
		t.Fatalf("report unhealthy: %+v", r.Results)
	}
	if r.Total != len(c.Checks()) {
		t.Errorf("Total = %d, want %d", r.Total, len(c.Checks()))
	}
	if r.Passed+r.Warned+r.Failed != r.Total {
		t.Errorf("counts do not add up: %+v", r)
	}
}

func TestMissingConfigFileWarns(t *testing.T) {
	c := NewChecker(testConfig(t), "", healthyProber())
	r := c.RunCheck(context.Background(), "config-file")
	if r.Total != 1 || r.Results[0].Status != StatusWarn {
		t.Errorf("results = %+v", r.Results)
	}
	if !r.Healthy {
		t.Error("a warning made the report unhealthy")
	}
}

func TestInvalidConfigFails(t *testing.T) {
	cfg := testConfig(t)
	cfg.Gateway.Timeout = 0
	cfg.Log.Format = "xml"

	r := NewChecker(cfg, "", healthyProber()).RunCategory(context.Background(), CategoryConfig)
	res := findResult(t, r, "config-valid")
	if res.Status != StatusFail {
		t.Fatalf("Status = %v", res.Status)
	}
	if !strings.Contains(res.Message, "gateway.timeout") || !strings.Contains(res.Message, "log.format") {
		t.Errorf("Message = %q", res.Message)
	}
	for _, res := range r.Results {
		if res.Category != CategoryConfig {
			t.Errorf("RunCategory returned %s check %s", res.Category, res.Name)
		}
	}
}

func TestGatewayUnreachable(t *testing.T) {
	p := healthyProber()
	p.pingErr = &net.OpError{Op: "dial", Err: errors.New("connection refused")}

	r := NewChecker(testConfig(t), "", p).RunCategory(context.Background(), CategoryGateway)
	res := findResult(t, r, "gateway-reachable")
	if res.Status != StatusFail || !strings.Contains(res.Message, "http://gateway.test") {
		t.Errorf("result = %+v", res)
	}
	if r.Healthy {
		t.Error("report healthy with unreachable gateway")
	}
}

func TestEndpointNotRouted(t *testing.T) {
	p := &fakeProber{codes: map[string]int{"/analyze-paper/": http.StatusMethodNotAllowed}}
	r := NewChecker(testConfig(t), "", p).RunCategory(context.Background(), CategoryGateway)

	if res := findResult(t, r, "analyze-endpoint"); res.Status != StatusPass {
		t.Errorf("analyze-endpoint = %+v", res)
	}
	if res := findResult(t, r, "backtest-endpoint"); res.Status != StatusFail {
		t.Errorf("backtest-endpoint = %+v", res)
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewChecker(testConfig(t), "", healthyProber()).RunAll(ctx)
	if r.Failed != r.Total {
		t.Errorf("Failed = %d, want all %d", r.Failed, r.Total)
	}
}

func TestFormatReport(t *testing.T) {
	p := healthyProber()
	p.pingErr = errors.New("boom")
	out := FormatReport(NewChecker(testConfig(t), "", p).RunAll(context.Background()))

	for _, want := range []string{"Health Check", "Configuration", "Analysis Gateway", "gateway-reachable", "UNHEALTHY"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
