package views

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dallionking/alpha-mechanism/internal/tui/models"
	"github.com/Dallionking/alpha-mechanism/internal/watch"
	"github.com/Dallionking/alpha-mechanism/internal/workflow"
)

// DashboardConfig is everything RunDashboard needs.
type DashboardConfig struct {
	Machine     *workflow.Machine
	GatewayURL  string
	InitialPath string
	// Watch follows the selected file and reloads it when it changes.
	Watch    bool
	Debounce time.Duration
	Logger   *slog.Logger
}

// RunDashboard launches the full-screen interactive dashboard and blocks
// until the user quits.
//
// When watching is enabled a watch.Watcher follows whichever file is
// selected; its events are forwarded to the program as FileChangedMsg. A
// watcher that cannot start is logged and the dashboard runs without it.
func RunDashboard(cfg DashboardConfig) error {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := models.DashboardOptions{
		Machine:     cfg.Machine,
		GatewayURL:  cfg.GatewayURL,
		InitialPath: cfg.InitialPath,
	}

	var w *watch.Watcher
	if cfg.Watch {
		var err error
		w, err = watch.New(cfg.Debounce, log)
		if err != nil {
			log.Warn("file watching disabled", "error", err)
		} else {
			defer w.Close()
			opts.Track = w.Track
		}
	}

	p := tea.NewProgram(models.NewDashboardModel(opts), tea.WithAltScreen())

	if w != nil {
		events := w.Watch(ctx)
		go func() {
			for ev := range events {
				p.Send(models.FileChangedMsg{
					Path:    ev.Path,
					Removed: ev.Type == watch.EventRemoved,
				})
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	fmt.Println(RenderCompactStatus(cfg.Machine.Snapshot()))
	return nil
}
