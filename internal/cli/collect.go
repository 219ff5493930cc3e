package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/focusd/internal/adapters/otel"
	"github.com/emiliopalmerini/focusd/internal/collector"
	"github.com/emiliopalmerini/focusd/internal/domain"
	"github.com/emiliopalmerini/focusd/internal/ports"
	"github.com/emiliopalmerini/focusd/internal/rollup"
	"github.com/emiliopalmerini/focusd/internal/source"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run the capture daemon",
	Long: `Run the capture daemon: consume desktop events, flush minute buckets
to the database once per second, and finalize daily rollups at midnight.

Examples:
  focusd collect             # Capture real desktop activity
  focusd collect --simulate  # Fabricate activity for development`,
	RunE: runCollect,
}

// Flags
var collectSimulate bool

func init() {
	rootCmd.AddCommand(collectCmd)

	collectCmd.Flags().BoolVar(&collectSimulate, "simulate", false, "Use the simulated event source")
}

func runCollect(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	var metrics ports.MetricsExporter
	if exporter, err := otel.NewExporter(ctx, otel.LoadConfig()); err == nil {
		metrics = exporter
	} else {
		app.Logger.Info("metrics exporter disabled", "reason", err)
		metrics = otel.NewNoOpExporter()
	}
	defer func() { _ = metrics.Close(ctx) }()

	// OS hook capture is delivered by a platform frontend pushing into a
	// source.Adapter; this build ships none.
	if !collectSimulate {
		return fmt.Errorf("no platform capture source in this build, use --simulate")
	}
	var src ports.EventSource = source.NewSimulated(0)

	acc := collector.NewAccumulator(app.Repos.Subjects, app.Logger)
	writer := collector.NewWriter(app.Repos.Minutes, app.Repos.RawEvents, metrics, app.Logger)
	sched := collector.NewScheduler(acc, writer, app.Logger)
	svc := collector.NewService(src, acc, sched, writer, app.Repos.Sessions, source.NoopTabTitler{}, collector.Tracking{
		Window: app.Config.Tracking.Window,
		Input:  app.Config.Tracking.Input,
		System: app.Config.Tracking.System,
	}, app.Logger)

	agg := rollup.NewAggregator(
		app.Repos.Minutes,
		app.Repos.Sessions,
		app.Repos.Dailies,
		app.Repos.Streaks,
		app.Repos.Achievements,
		app.Repos.RawEvents,
		domain.Goals{
			ActiveTimeHours: app.Config.Goals.ActiveTimeHours,
			Keystrokes:      app.Config.Goals.Keystrokes,
			FocusScore:      app.Config.Goals.FocusScore,
		},
		app.Config.Tracking.RetentionDays,
		app.Loc,
		app.Logger,
	)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- svc.Run(runCtx) }()
	go agg.Run(runCtx)

	app.Logger.Info("collector started",
		"database", app.Config.Database.Path,
		"simulate", collectSimulate,
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		app.Logger.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("collector failed: %w", err)
		}
		return nil
	}

	svc.Stop()
	agg.Stop()
	cancel()
	<-errCh

	return nil
}
