package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Dallionking/alpha-mechanism/internal/tui/styles"
	"github.com/Dallionking/alpha-mechanism/internal/tui/views"
	"github.com/Dallionking/alpha-mechanism/internal/workflow"
)

var (
	analyzeJSON bool
	runJSON     bool
)

// errWorkflowFailed is returned after a failed workflow has been rendered.
var errWorkflowFailed = errors.New("workflow failed")

var analyzeCmd = &cobra.Command{
	Use:   "analyze <paper.pdf>",
	Short: "Extract a strategy from a paper without the dashboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return headless(args[0], false, analyzeJSON)
	},
}

var runCmd = &cobra.Command{
	Use:   "run <paper.pdf>",
	Short: "Analyze a paper and backtest the strategy without the dashboard",
	Long: `Analyze the paper, backtest the extracted strategy against the
configured asset and print the result. --json prints the workflow snapshot
instead of the rendered panels.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return headless(args[0], true, runJSON)
	},
}

func headless(path string, backtest, asJSON bool) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.selectFile(path); err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	if !asJSON {
		fmt.Fprintln(os.Stderr, styles.Dim("Analyzing "+path+" via "+s.gw.BaseURL()+"..."))
	}
	snap, _ := s.machine.Analyze(ctx)
	if backtest && snap.Phase == workflow.StrategyReady {
		if !asJSON {
			fmt.Fprintln(os.Stderr, styles.Dim("Backtesting "+snap.Strategy.Name+" on "+snap.Asset+"..."))
		}
		snap, _ = s.machine.Backtest(ctx)
	}

	if asJSON {
		out, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding snapshot: %w", err)
		}
		fmt.Println(string(out))
	} else {
		fmt.Println(views.RenderSnapshot(snap, terminalWidth()))
	}

	if snap.Phase == workflow.Failed {
		return errWorkflowFailed
	}
	return nil
}

func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return min(w, 120)
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the workflow snapshot as JSON")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "print the workflow snapshot as JSON")
	rootCmd.AddCommand(analyzeCmd, runCmd)
}
