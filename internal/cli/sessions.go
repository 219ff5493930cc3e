package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/focusd/internal/domain"
	"github.com/emiliopalmerini/focusd/internal/util"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List focus sessions",
	Long: `List closed focus sessions for a day.

Examples:
  focusd sessions                    # Today's sessions
  focusd sessions --date 2026-03-10  # A specific day
  focusd sessions --deep             # Deep work sessions only`,
	RunE: runSessions,
}

// Flags
var (
	sessionsDate string
	sessionsDeep bool
)

func init() {
	rootCmd.AddCommand(sessionsCmd)

	sessionsCmd.Flags().StringVar(&sessionsDate, "date", "", "Day to list (YYYY-MM-DD, default today)")
	sessionsCmd.Flags().BoolVar(&sessionsDeep, "deep", false, "Show only deep work sessions")
}

func runSessions(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	date := sessionsDate
	if date == "" {
		date = time.Now().In(app.Loc).Format("2006-01-02")
	}

	start, end, err := domain.DayBounds(date, app.Loc)
	if err != nil {
		return fmt.Errorf("invalid date %q (use YYYY-MM-DD)", date)
	}

	sessions, err := app.Repos.Sessions.ListClosedBetween(ctx, start, end)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	subjects := make(map[int64]string)
	shown := 0
	for _, s := range sessions {
		if sessionsDeep && !s.DeepWork {
			continue
		}

		name, ok := subjects[s.SubjectID]
		if !ok {
			subject, err := app.Repos.Subjects.GetByID(ctx, s.SubjectID)
			if err != nil {
				return err
			}
			name = fmt.Sprintf("subject %d", s.SubjectID)
			if subject != nil {
				name = subject.DisplayName
			}
			subjects[s.SubjectID] = name
		}

		marker := " "
		if s.DeepWork {
			marker = "*"
		}
		fmt.Printf("%s %s-%s  %-24s %8s  %s keys  %d interruptions\n",
			marker,
			util.FormatClock(s.Start.In(app.Loc)),
			util.FormatClock(s.End.In(app.Loc)),
			name,
			util.FormatDuration(int64(s.Duration().Seconds())),
			util.FormatNumber(s.Keystrokes),
			s.Interruptions,
		)
		shown++
	}

	if shown == 0 {
		fmt.Printf("No sessions on %s\n", date)
	}
	return nil
}
