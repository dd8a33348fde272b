package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Dallionking/alpha-mechanism/internal/config"
	"github.com/Dallionking/alpha-mechanism/internal/tui/styles"
)

// --- config (parent) ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print every configuration key with its effective value after the
config file, ALPHA_* environment variables and flags are applied.

Subcommands:
  init   Write the default configuration file
  path   Show which config file is in use`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Println(styles.Title.Render("Configuration"))
		fmt.Println()

		keys := config.Keys(cfg)
		names := make([]string, 0, len(keys))
		width := 0
		for k := range keys {
			names = append(names, k)
			width = max(width, len(k))
		}
		sort.Strings(names)

		for _, k := range names {
			fmt.Printf("  %s  %s\n",
				styles.Label.Render(fmt.Sprintf("%-*s", width, k)),
				styles.Value.Render(fmt.Sprint(keys[k])))
		}

		fmt.Println()
		fmt.Println(styles.Divider(width + 24))
		fmt.Println()
		if errs := config.Validate(cfg); len(errs) > 0 {
			for _, e := range errs {
				fmt.Println("  " + styles.Red("✕") + " " + e.Error())
			}
		} else {
			fmt.Println("  " + styles.Green("✓") + " " + styles.Dim("valid"))
		}
		return nil
	},
}

// --- config init ---

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultConfigFile()
		if len(args) == 1 {
			path = args[0]
		}

		if _, err := os.Stat(path); err == nil && !configInitForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("checking %s: %w", path, err)
		}

		cfg := config.Default()
		if err := config.Save(cfg, path); err != nil {
			return err
		}
		if err := config.EnsureDirectories(cfg); err != nil {
			return err
		}
		fmt.Println(styles.Green("Wrote default configuration to") + " " + styles.Value.Render(path))
		return nil
	},
}

// --- config path ---

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show which config file is in use",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(); err != nil {
			return err
		}
		if f := config.File(); f != "" {
			fmt.Println(f)
			return nil
		}
		fmt.Println(styles.Dim("No config file found; using defaults. Searched:"))
		for _, dir := range config.SearchPaths() {
			fmt.Println("  " + dir)
		}
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}
