package cmd

import (
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Dallionking/alpha-mechanism/internal/devserver"
	"github.com/Dallionking/alpha-mechanism/internal/logging"
)

const minimalPDF = "%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// sandbox isolates config discovery and the log file in a temp dir.
func sandbox(t *testing.T) (dir, logFile string) {
	t.Helper()
	dir = t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)
	logFile = filepath.Join(dir, "logs", "alpha.log")
	t.Setenv("ALPHA_LOG_FILE", logFile)
	return dir, logFile
}

func stubServer(t *testing.T, opts devserver.Options) string {
	t.Helper()
	opts.Logger = logging.Discard()
	srv := httptest.NewServer(devserver.New(opts).Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

func writePaper(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "time-series-momentum.pdf")
	if err := os.WriteFile(path, []byte(minimalPDF), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(args ...string) error {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	return rootCmd.Execute()
}

func TestRunAgainstStubGateway(t *testing.T) {
	dir, logFile := sandbox(t)
	url := stubServer(t, devserver.Options{})

	if err := execute("run", writePaper(t, dir), "--json", "--gateway", url, "--asset", "ETH-USD"); err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("log file: %v", err)
	}
	for _, want := range []string{"Time Series Momentum", "ETH-USD", "results ready"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log missing %q", want)
		}
	}
}

func TestRunReportsBacktestFailure(t *testing.T) {
	dir, _ := sandbox(t)
	url := stubServer(t, devserver.Options{FailBacktest: true})

	err := execute("run", writePaper(t, dir), "--json", "--gateway", url, "--asset", "BTC-USD")
	if !errors.Is(err, errWorkflowFailed) {
		t.Fatalf("err = %v, want errWorkflowFailed", err)
	}
}

func TestAnalyzeOnly(t *testing.T) {
	dir, logFile := sandbox(t)
	url := stubServer(t, devserver.Options{})

	if err := execute("analyze", writePaper(t, dir), "--json", "--gateway", url, "--asset", "BTC-USD"); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	data, _ := os.ReadFile(logFile)
	if strings.Contains(string(data), "results ready") {
		t.Error("analyze should not run a backtest")
	}
}

func TestInvalidConfigIsRejected(t *testing.T) {
	dir, _ := sandbox(t)

	err := execute("run", writePaper(t, dir), "--gateway", "ftp://example.com", "--asset", "BTC-USD")
	if err == nil || !strings.Contains(err.Error(), "configuration problem") {
		t.Fatalf("err = %v", err)
	}
}

func TestConfigInit(t *testing.T) {
	dir, _ := sandbox(t)
	path := filepath.Join(dir, "conf", "alpha-mechanism.yaml")

	if err := execute("config", "init", path, "--force=false"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "base_url: http://127.0.0.1:8000") {
		t.Errorf("unexpected file:\n%s", data)
	}

	if err := execute("config", "init", path, "--force=false"); err == nil {
		t.Error("second init without --force should fail")
	}
	if err := execute("config", "init", path, "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}
}

func TestHealth(t *testing.T) {
	sandbox(t)
	url := stubServer(t, devserver.Options{})

	if err := execute("health", "--gateway", url, "--asset", "BTC-USD"); err != nil {
		t.Errorf("health against a running stub: %v", err)
	}
	if err := execute("health", "--gateway", "http://127.0.0.1:1", "--asset", "BTC-USD", "--category", "gateway"); err == nil {
		t.Error("health should fail when the gateway is down")
	}
	if err := execute("health", "--gateway", url, "--asset", "BTC-USD", "--category", "", "--check", "no-such-check"); err == nil {
		t.Error("unknown check should be an error")
	}
}
