package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "focusd",
	Short: "Desktop activity telemetry daemon",
	Long: `focusd captures desktop activity (window focus, keystrokes, clicks,
scrolling, pointer movement), buckets it per minute per application, and
rolls it up into daily focus scores, sessions, streaks, and achievements.

All data stays in a local database.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
