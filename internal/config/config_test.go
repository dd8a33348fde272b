package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefaultsAreValid(t *testing.T) {
	if errs := Validate(Default()); len(errs) != 0 {
		t.Errorf("Validate(Default()) = %v", errs)
	}
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(NewViper(""))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Gateway.BaseURL != "http://127.0.0.1:8000" {
		t.Errorf("BaseURL = %q", cfg.Gateway.BaseURL)
	}
	if cfg.Gateway.Timeout != 2*time.Minute {
		t.Errorf("Timeout = %s", cfg.Gateway.Timeout)
	}
	if cfg.Backtest.Asset != "BTC-USD" {
		t.Errorf("Asset = %q", cfg.Backtest.Asset)
	}
	if cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("Debounce = %s", cfg.Watch.Debounce)
	}
	if File() != "" {
		t.Errorf("File() = %q, want empty", File())
	}
	if Get() != cfg {
		t.Error("Get() did not return the loaded config")
	}
}

func TestLoadReadsFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	body := "gateway:\n  base_url: http://backend:9000\n  timeout: 30s\nbacktest:\n  asset: ETH-USD\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ALPHA_LOG_LEVEL", "debug")
	t.Setenv("ALPHA_STUB_FAIL_BACKTEST", "true")

	cfg, err := Load(NewViper(path))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Gateway.BaseURL != "http://backend:9000" || cfg.Gateway.Timeout != 30*time.Second {
		t.Errorf("Gateway = %+v", cfg.Gateway)
	}
	if cfg.Gateway.AnalyzePath != "/analyze-paper/" {
		t.Errorf("AnalyzePath default lost: %q", cfg.Gateway.AnalyzePath)
	}
	if cfg.Backtest.Asset != "ETH-USD" {
		t.Errorf("Asset = %q", cfg.Backtest.Asset)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want env override", cfg.Log.Level)
	}
	if !cfg.Stub.FailBacktest {
		t.Error("Stub.FailBacktest env override not applied")
	}
	if File() != path {
		t.Errorf("File() = %q, want %q", File(), path)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	if _, err := Load(NewViper(filepath.Join(t.TempDir(), "nope.yaml"))); err == nil {
		t.Error("Load() with a missing explicit file succeeded")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Backtest.Asset = "SOL-USD"
	cfg.Watch.Debounce = time.Second
	cfg.Stub.Latency = 1500 * time.Millisecond

	path := filepath.Join(t.TempDir(), "nested", "alpha-mechanism.yaml")
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "debounce: 1s") {
		t.Errorf("durations not written as strings:\n%s", data)
	}

	got, err := FromViper(loadFile(t, path))
	if err != nil {
		t.Fatal(err)
	}
	if got.Backtest.Asset != "SOL-USD" || got.Watch.Debounce != time.Second || got.Stub.Latency != 1500*time.Millisecond {
		t.Errorf("round trip = %+v", got)
	}
}

func loadFile(t *testing.T, path string) *viper.Viper {
	t.Helper()
	v := NewViper(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig() error: %v", err)
	}
	return v
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Gateway.BaseURL = "ftp://example"
	cfg.Gateway.Timeout = 0
	cfg.Gateway.AnalyzePath = "analyze"
	cfg.Backtest.Asset = " "
	cfg.Log.Level = "chatty"
	cfg.Log.Format = "xml"
	cfg.Watch.Debounce = -time.Second
	cfg.Stub.Addr = "8000"
	cfg.Stub.Start = "2024-01-01"
	cfg.Stub.End = "2023-01-01"

	errs := Validate(cfg)
	fields := make(map[string]bool)
	for _, e := range errs {
		fields[e.Field] = true
	}
	for _, want := range []string{
		"gateway.base_url", "gateway.timeout", "gateway.analyze_path",
		"backtest.asset", "log.level", "log.format", "watch.debounce",
		"stub.addr", "stub.start / stub.end",
	} {
		if !fields[want] {
			t.Errorf("missing validation error for %s (got %v)", want, errs)
		}
	}
	if fields["gateway.backtest_path"] {
		t.Error("valid backtest_path flagged")
	}
}

func TestValidateBadDates(t *testing.T) {
	cfg := Default()
	cfg.Stub.Start = "01/01/2020"
	errs := Validate(cfg)
	if len(errs) != 1 || errs[0].Field != "stub.start" {
		t.Errorf("Validate() = %v", errs)
	}
	if !strings.Contains(errs[0].Error(), "stub.start:") {
		t.Errorf("Error() = %q", errs[0].Error())
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if got := expandHome("~/logs/a.log"); got != filepath.Join(home, "logs", "a.log") {
		t.Errorf("expandHome() = %q", got)
	}
	if got := expandHome("/abs/a.log"); got != "/abs/a.log" {
		t.Errorf("expandHome() = %q", got)
	}
}
