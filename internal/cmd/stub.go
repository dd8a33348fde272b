package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/Dallionking/alpha-mechanism/internal/config"
	"github.com/Dallionking/alpha-mechanism/internal/devserver"
	"github.com/Dallionking/alpha-mechanism/internal/logging"
	"github.com/Dallionking/alpha-mechanism/internal/tui/styles"
)

var stubSeed []string

// stubFlagKeys binds stub-gateway flags onto stub.* keys.
var stubFlagKeys = map[string]string{
	"addr":          "stub.addr",
	"latency":       "stub.latency",
	"fail-analyze":  "stub.fail_analyze",
	"fail-backtest": "stub.fail_backtest",
}

var stubCmd = &cobra.Command{
	Use:   "stub-gateway",
	Short: "Serve a local stand-in for the analysis gateway",
	Long: `Run an HTTP server that speaks the analyze-paper and run-backtest
contract with deterministic synthetic results. Strategy names are derived from
the uploaded file name and backtests produce a reproducible equity curve for
every strategy and ticker.

Use --fail-analyze, --fail-backtest and --latency to exercise error and
loading states in the dashboard.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		for flag, key := range stubFlagKeys {
			if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
				return fmt.Errorf("binding --%s: %w", flag, err)
			}
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		start, errStart := time.Parse(config.DateLayout, cfg.Stub.Start)
		end, errEnd := time.Parse(config.DateLayout, cfg.Stub.End)
		if errStart != nil || errEnd != nil || !start.Before(end) {
			return fmt.Errorf("invalid backtest window %q..%q", cfg.Stub.Start, cfg.Stub.End)
		}

		// The server owns the terminal, so it logs to stderr.
		log := logging.New(cfg.Log.Level, "text", os.Stderr)
		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}

		srv := devserver.New(devserver.Options{
			Addr:         cfg.Stub.Addr,
			Latency:      cfg.Stub.Latency,
			Start:        start,
			End:          end,
			FailAnalyze:  cfg.Stub.FailAnalyze,
			FailBacktest: cfg.Stub.FailBacktest,
			Logger:       log,
		})
		for _, name := range stubSeed {
			srv.Register(name)
		}

		fmt.Fprintln(os.Stderr, styles.Accent(styles.CompactLogo)+"  "+
			styles.Label.Render("stub gateway on")+" "+styles.Value.Render("http://"+cfg.Stub.Addr))

		ctx, stop := signalContext()
		defer stop()
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	f := stubCmd.Flags()
	f.String("addr", "", "listen address (default stub.addr)")
	f.Duration("latency", 0, "delay added to every analyze and backtest request")
	f.Bool("fail-analyze", false, "answer every analyze request with a 500")
	f.Bool("fail-backtest", false, "answer every backtest request with a 500")
	f.StringSliceVar(&stubSeed, "seed-strategy", nil, "strategy names to register at startup")
	rootCmd.AddCommand(stubCmd)
}
