package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/focusd/internal/domain"
	"github.com/emiliopalmerini/focusd/internal/util"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show daily activity statistics",
	Long: `Show finalized daily rollups.

Examples:
  focusd stats                   # This week's days
  focusd stats --period today    # Today only
  focusd stats --period month    # This month
  focusd stats --period all      # Everything`,
	RunE: runStats,
}

// Flags
var statsPeriod string

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVarP(&statsPeriod, "period", "p", "week", "Time period: today, week, month, all")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	from := util.GetStartDateForPeriod(statsPeriod, app.Loc)
	to := time.Now().In(app.Loc).Format("2006-01-02")

	stats, err := app.Repos.Dailies.ReadRange(ctx, from, to)
	if err != nil {
		return fmt.Errorf("failed to read daily stats: %w", err)
	}

	if len(stats) == 0 {
		fmt.Println("No finalized days in this period")
		return nil
	}

	for _, stat := range stats {
		printDailyStat(stat)
		fmt.Println()
	}
	return nil
}

func printDailyStat(stat domain.DailyStat) {
	fmt.Printf("%s\n", stat.Date)
	fmt.Printf("  Focus score:   %.1f\n", stat.FocusScore)
	fmt.Printf("  Active:        %s\n", util.FormatDuration(stat.TotalActiveSeconds))
	fmt.Printf("  In sessions:   %s\n", util.FormatDuration(stat.TotalFocusSeconds))
	fmt.Printf("  Deep work:     %s\n", util.FormatDuration(stat.DeepWorkSeconds))
	fmt.Printf("  Keystrokes:    %s\n", util.FormatNumber(stat.TotalKeystrokes))
	fmt.Printf("  Clicks:        %s\n", util.FormatNumber(stat.TotalClicks))
	fmt.Printf("  Switches:      %d\n", stat.ContextSwitches)
}
