package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete data past the retention window",
	Long: `Delete minute buckets and raw events older than the retention window.
The collector also does this on its hourly sweep; cleanup exists for
one-off runs and previews.

Examples:
  focusd cleanup                   # Use the configured retention
  focusd cleanup --days 30         # Override the window
  focusd cleanup --dry-run         # Preview without deleting`,
	RunE: runCleanup,
}

// Raw events age out faster than minute stats; they exist for heatmaps
// and short-horizon debugging only.
const rawEventRetentionDays = 7

// Flags
var (
	cleanupDays   int
	cleanupDryRun bool
)

func init() {
	rootCmd.AddCommand(cleanupCmd)

	cleanupCmd.Flags().IntVar(&cleanupDays, "days", 0, "Retention window in days (default from configuration)")
	cleanupCmd.Flags().BoolVar(&cleanupDryRun, "dry-run", false, "Preview what would be deleted")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	days := cleanupDays
	if days == 0 {
		days = app.Config.Tracking.RetentionDays
	}
	if days < 7 {
		return fmt.Errorf("retention must be at least 7 days, got %d", days)
	}

	if cleanupDryRun {
		return previewCleanup(ctx, app, days)
	}

	minutes, err := app.Repos.Minutes.DeleteOlderThan(ctx, days)
	if err != nil {
		return fmt.Errorf("failed to delete minute stats: %w", err)
	}
	raws, err := app.Repos.RawEvents.DeleteOlderThan(ctx, rawEventRetentionDays)
	if err != nil {
		return fmt.Errorf("failed to delete raw events: %w", err)
	}

	fmt.Printf("Deleted %d minute rows (older than %d days) and %d raw events (older than %d days)\n",
		minutes, days, raws, rawEventRetentionDays)
	return nil
}

func previewCleanup(ctx context.Context, app *AppContext, days int) error {
	minuteCutoff := time.Now().AddDate(0, 0, -days).Unix()
	rawCutoff := time.Now().AddDate(0, 0, -rawEventRetentionDays).Unix()

	var minutes, raws int64
	if err := app.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM minute_stats WHERE minute < ?`, minuteCutoff).Scan(&minutes); err != nil {
		return fmt.Errorf("failed to count minute stats: %w", err)
	}
	if err := app.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM raw_events WHERE ts < ?`, rawCutoff).Scan(&raws); err != nil {
		return fmt.Errorf("failed to count raw events: %w", err)
	}

	fmt.Printf("Would delete %d minute rows (older than %d days) and %d raw events (older than %d days)\n",
		minutes, days, raws, rawEventRetentionDays)
	return nil
}
