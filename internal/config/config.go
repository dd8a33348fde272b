package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g.
// ALPHA_GATEWAY_BASE_URL.
const EnvPrefix = "ALPHA"

// Config is the full alpha-mechanism configuration.
type Config struct {
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	Backtest BacktestConfig `mapstructure:"backtest"`
	Log      LogConfig      `mapstructure:"log"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Stub     StubConfig     `mapstructure:"stub"`
}

// GatewayConfig locates the analysis/backtest backend.
type GatewayConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	AnalyzePath  string        `mapstructure:"analyze_path"`
	BacktestPath string        `mapstructure:"backtest_path"`
}

// BacktestConfig holds the simulation parameters sent with every backtest.
type BacktestConfig struct {
	Asset string `mapstructure:"asset"`
}

// LogConfig controls the structured log sink.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// WatchConfig controls re-selection of the submission when it changes on disk.
type WatchConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// StubConfig configures the in-process stand-in gateway.
type StubConfig struct {
	Addr         string        `mapstructure:"addr"`
	Latency      time.Duration `mapstructure:"latency"`
	Start        string        `mapstructure:"start"`
	End          string        `mapstructure:"end"`
	FailAnalyze  bool          `mapstructure:"fail_analyze"`
	FailBacktest bool          `mapstructure:"fail_backtest"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Gateway: GatewayConfig{
			BaseURL:      "http://127.0.0.1:8000",
			Timeout:      2 * time.Minute,
			AnalyzePath:  "/analyze-paper/",
			BacktestPath: "/run-backtest/",
		},
		Backtest: BacktestConfig{Asset: "BTC-USD"},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			File:   DefaultLogFile(),
		},
		Watch: WatchConfig{Enabled: true, Debounce: 250 * time.Millisecond},
		Stub: StubConfig{
			Addr:  "127.0.0.1:8000",
			Start: "2020-01-01",
			End:   "2023-12-31",
		},
	}
}

// SetDefaults registers every key of Default on v so that environment
// variables and flags can override keys absent from the config file.
func SetDefaults(v *viper.Viper) {
	for key, val := range flatten(Default()) {
		v.SetDefault(key, val)
	}
}

// NewViper returns a viper instance with defaults, env binding and the
// standard search path. An explicit file overrides the search path.
func NewViper(file string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		for _, dir := range SearchPaths() {
			v.AddConfigPath(dir)
		}
	}
	return v
}

// singleton holds the global loaded config and the file it came from.
var (
	globalCfg  *Config
	globalFile string
	mu         sync.RWMutex
)

// Load reads the config file (if any) into v, decodes the result and caches
// it for Get. A missing file is not an error; defaults apply.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg, err := FromViper(v)
	if err != nil {
		return nil, err
	}

	mu.Lock()
	globalCfg = cfg
	globalFile = v.ConfigFileUsed()
	mu.Unlock()

	return cfg, nil
}

// FromViper decodes v without touching the cached global.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Log.File = expandHome(cfg.Log.File)
	return &cfg, nil
}

// Get returns the cached global config. It panics if Load has not been called.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()

	if globalCfg == nil {
		panic("config.Get() called before config.Load()")
	}
	return globalCfg
}

// File returns the config file used by the last Load, or "" when only
// defaults and overrides were applied.
func File() string {
	mu.RLock()
	defer mu.RUnlock()
	return globalFile
}

// Save writes cfg as YAML to path, creating parent directories. Durations are
// written in their string form so the file round-trips through viper.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(nest(flatten(cfg)))
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// flatten lists every key as a dotted path. Durations become strings.
func flatten(cfg *Config) map[string]any {
	return map[string]any{
		"gateway.base_url":      cfg.Gateway.BaseURL,
		"gateway.timeout":       cfg.Gateway.Timeout.String(),
		"gateway.analyze_path":  cfg.Gateway.AnalyzePath,
		"gateway.backtest_path": cfg.Gateway.BacktestPath,
		"backtest.asset":        cfg.Backtest.Asset,
		"log.level":             cfg.Log.Level,
		"log.format":            cfg.Log.Format,
		"log.file":              cfg.Log.File,
		"watch.enabled":         cfg.Watch.Enabled,
		"watch.debounce":        cfg.Watch.Debounce.String(),
		"stub.addr":             cfg.Stub.Addr,
		"stub.latency":          cfg.Stub.Latency.String(),
		"stub.start":            cfg.Stub.Start,
		"stub.end":              cfg.Stub.End,
		"stub.fail_analyze":     cfg.Stub.FailAnalyze,
		"stub.fail_backtest":    cfg.Stub.FailBacktest,
	}
}

// Keys returns the dotted key/value view of cfg, as printed by `config`.
func Keys(cfg *Config) map[string]any {
	return flatten(cfg)
}

func nest(flat map[string]any) map[string]map[string]any {
	out := make(map[string]map[string]any)
	for key, val := range flat {
		section, name, _ := strings.Cut(key, ".")
		if out[section] == nil {
			out[section] = make(map[string]any)
		}
		out[section][name] = val
	}
	return out
}
