package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Dallionking/alpha-mechanism/internal/config"
	"github.com/Dallionking/alpha-mechanism/internal/domain"
	"github.com/Dallionking/alpha-mechanism/internal/gateway"
	"github.com/Dallionking/alpha-mechanism/internal/logging"
	"github.com/Dallionking/alpha-mechanism/internal/tui/styles"
	"github.com/Dallionking/alpha-mechanism/internal/workflow"
)

// session is the wiring shared by commands that talk to the gateway.
type session struct {
	cfg     *config.Config
	log     *slog.Logger
	logFile io.Closer
	gw      *gateway.Client
	machine *workflow.Machine
}

// loadConfig reads the effective configuration through v.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// validate prints every configuration problem and fails if there are any.
func validate(cfg *config.Config) error {
	errs := config.Validate(cfg)
	if len(errs) == 0 {
		return nil
	}
	fmt.Fprintln(os.Stderr, styles.Red("Invalid configuration:"))
	for _, e := range errs {
		fmt.Fprintln(os.Stderr, "  "+styles.Dim("-")+" "+e.Error())
	}
	return fmt.Errorf("%d configuration problem(s)", len(errs))
}

// openLogger routes structured logs to the configured file.
func openLogger(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	f, err := logging.OpenFile(cfg.Log.File)
	if err != nil {
		return nil, nil, err
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, f)
	logging.SetDefault(logger)
	return logger, f, nil
}

func newGateway(cfg *config.Config, log *slog.Logger) *gateway.Client {
	return gateway.NewClient(gateway.Options{
		BaseURL:      cfg.Gateway.BaseURL,
		Timeout:      cfg.Gateway.Timeout,
		AnalyzePath:  cfg.Gateway.AnalyzePath,
		BacktestPath: cfg.Gateway.BacktestPath,
		Logger:       log,
	})
}

// newSession loads and validates config, opens the log file and builds the
// gateway client and workflow machine.
func newSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}

	log, closer, err := openLogger(cfg)
	if err != nil {
		return nil, err
	}
	log.Info("starting", "config_file", config.File(), "gateway", cfg.Gateway.BaseURL, "asset", cfg.Backtest.Asset)

	gw := newGateway(cfg, log)
	return &session{
		cfg:     cfg,
		log:     log,
		logFile: closer,
		gw:      gw,
		machine: workflow.New(gw, workflow.WithAsset(cfg.Backtest.Asset), workflow.WithLogger(log)),
	}, nil
}

func (s *session) Close() {
	if s.logFile != nil {
		_ = s.logFile.Close()
	}
}

// selectFile loads path and hands it to the machine.
func (s *session) selectFile(path string) error {
	sub, err := domain.LoadSubmission(path)
	if err != nil {
		return err
	}
	if !sub.IsPDF() {
		fmt.Fprintln(os.Stderr, styles.Gold("warning:")+" "+sub.Name+" is "+sub.MediaType+", not a PDF")
	}
	s.machine.SelectFile(sub)
	return nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
