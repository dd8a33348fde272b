package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Dallionking/alpha-mechanism/internal/config"
	"github.com/Dallionking/alpha-mechanism/internal/tui/styles"
)

var (
	cfgFile string
	verbose bool
	noColor bool

	// v is the viper instance every command reads through. It is built in
	// initConfig once flags are parsed.
	v *viper.Viper
)

// flagKeys maps persistent flags onto the config keys they override.
var flagKeys = map[string]string{
	"gateway":   "gateway.base_url",
	"asset":     "backtest.asset",
	"log-level": "log.level",
}

var rootCmd = &cobra.Command{
	Use:   "alpha-mechanism",
	Short: "Turn research papers into backtested strategies",
	Long: `Alpha-Mechanism reads a quantitative-finance research paper, asks the
analysis gateway to extract a trading strategy from it, and backtests that
strategy against buy & hold.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
		return initConfig(cmd)
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(styles.Accent(styles.Logo))
		fmt.Println()
		fmt.Println("Run " + styles.Bold("alpha-mechanism dashboard <paper.pdf>") + " to start, or " +
			styles.Bold("alpha-mechanism --help") + " for every command.")
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default ./alpha-mechanism.yaml, then ~/.alpha-mechanism/alpha-mechanism.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	pf.BoolVar(&noColor, "no-color", false, "disable color output")
	pf.String("gateway", "", "analysis gateway base URL")
	pf.String("asset", "", "ticker every backtest runs against")
	pf.String("log-level", "", "log level: debug, info, warn or error")
}

func initConfig(cmd *cobra.Command) error {
	v = config.NewViper(cfgFile)
	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}
	return nil
}
