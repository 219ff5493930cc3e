package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/focusd/internal/domain"
)

var streaksCmd = &cobra.Command{
	Use:   "streaks",
	Short: "Show goal streaks and achievements",
	RunE:  runStreaks,
}

func init() {
	rootCmd.AddCommand(streaksCmd)
}

func runStreaks(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	fmt.Println("Streaks")
	for _, kind := range domain.GoalKinds {
		state, err := app.Repos.Streaks.Get(ctx, kind)
		if err != nil {
			return fmt.Errorf("failed to load streak %s: %w", kind, err)
		}
		last := state.LastMetDate
		if last == "" {
			last = "never"
		}
		fmt.Printf("  %-12s current %3d  longest %3d  last met %s\n",
			kind, state.CurrentStreak, state.LongestStreak, last)
	}

	unlocked, err := app.Repos.Achievements.ListUnlocked(ctx)
	if err != nil {
		return fmt.Errorf("failed to list achievements: %w", err)
	}

	fmt.Println("\nAchievements")
	if len(unlocked) == 0 {
		fmt.Println("  none unlocked yet")
		return nil
	}
	for _, a := range domain.AchievementCatalog() {
		if unlocked[a.Key] {
			fmt.Printf("  %-16s %s\n", a.Key, a.Name)
		}
	}
	return nil
}
