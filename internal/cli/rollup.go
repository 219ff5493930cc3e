package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/focusd/internal/domain"
	"github.com/emiliopalmerini/focusd/internal/rollup"
)

var rollupCmd = &cobra.Command{
	Use:   "rollup",
	Short: "Finalize a day's rollup on demand",
	Long: `Fold a day's minute buckets and closed sessions into its daily summary,
then update streaks and achievements. Re-running a day recomputes and
replaces its summary.

Examples:
  focusd rollup                    # Finalize yesterday
  focusd rollup --date 2026-03-10  # Finalize a specific day`,
	RunE: runRollup,
}

// Flags
var rollupDate string

func init() {
	rootCmd.AddCommand(rollupCmd)

	rollupCmd.Flags().StringVar(&rollupDate, "date", "", "Day to finalize (YYYY-MM-DD, default yesterday)")
}

func runRollup(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	date := rollupDate
	if date == "" {
		date = time.Now().In(app.Loc).AddDate(0, 0, -1).Format("2006-01-02")
	} else if _, err := time.ParseInLocation("2006-01-02", date, app.Loc); err != nil {
		return fmt.Errorf("invalid date %q (use YYYY-MM-DD)", date)
	}

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

	if err := agg.FinalizeDay(ctx, date); err != nil {
		return fmt.Errorf("failed to finalize %s: %w", date, err)
	}

	stat, err := app.Repos.Dailies.Read(ctx, date)
	if err != nil {
		return err
	}
	if stat != nil {
		printDailyStat(*stat)
	}
	return nil
}
