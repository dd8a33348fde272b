package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dallionking/alpha-mechanism/internal/config"
	"github.com/Dallionking/alpha-mechanism/internal/health"
	"github.com/Dallionking/alpha-mechanism/internal/logging"
	"github.com/Dallionking/alpha-mechanism/internal/tui/styles"
)

var (
	healthCheck    string
	healthCategory string
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the configuration and the analysis gateway",
	Long: `Run diagnostic checks against the configuration and the gateway.

Checks are grouped into categories:
  config   - config file, validation, log file, file watching
  gateway  - reachability, analyze and backtest endpoints

Use --category to run only one group, or --check to run a single named check.
The command exits non-zero when any check fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// Probes log nowhere; the report is the output.
		gw := newGateway(cfg, logging.Discard())
		checker := health.NewChecker(cfg, config.File(), gw)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		var report *health.Report
		switch {
		case healthCheck != "":
			report = checker.RunCheck(ctx, healthCheck)
		case healthCategory != "":
			report = checker.RunCategory(ctx, healthCategory)
		default:
			report = checker.RunAll(ctx)
		}

		if report.Total == 0 {
			return fmt.Errorf("no checks matched; available: %s", checkNames(checker))
		}

		fmt.Print(health.FormatReport(report))
		if !report.Healthy {
			return fmt.Errorf("%d health check(s) failed", report.Failed)
		}
		return nil
	},
}

func checkNames(c *health.Checker) string {
	var s string
	for i, chk := range c.Checks() {
		if i > 0 {
			s += ", "
		}
		s += chk.Name
	}
	return styles.Dim(s)
}

func init() {
	healthCmd.Flags().StringVar(&healthCheck, "check", "", "run a single named check")
	healthCmd.Flags().StringVar(&healthCategory, "category", "", "run checks in a category: config or gateway")
	rootCmd.AddCommand(healthCmd)
}
