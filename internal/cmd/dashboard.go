package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Dallionking/alpha-mechanism/internal/tui/views"
)

var dashboardNoWatch bool

var dashboardCmd = &cobra.Command{
	Use:   "dashboard [paper.pdf]",
	Short: "Open the interactive workflow dashboard",
	Long: `Open the full-screen dashboard: choose a paper, analyze it into a
strategy, backtest the strategy and compare it with buy & hold.

The selected file is watched and reloaded when it changes on disk unless
--no-watch is given or watch.enabled is false.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		var initial string
		if len(args) == 1 {
			initial = args[0]
		}

		return views.RunDashboard(views.DashboardConfig{
			Machine:     s.machine,
			GatewayURL:  s.gw.BaseURL(),
			InitialPath: initial,
			Watch:       s.cfg.Watch.Enabled && !dashboardNoWatch,
			Debounce:    s.cfg.Watch.Debounce,
			Logger:      s.log,
		})
	},
}

func init() {
	dashboardCmd.Flags().BoolVar(&dashboardNoWatch, "no-watch", false, "do not reload the paper when it changes on disk")
	rootCmd.AddCommand(dashboardCmd)
}
