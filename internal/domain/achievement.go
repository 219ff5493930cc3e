package domain

// Achievement is an unlockable milestone. The catalog is intentionally
// small; entries are identified by a stable key.
type Achievement struct {
	Key  string
	Name string
}

var achievementCatalog = []struct {
	Achievement
	unlocked func(d DailyStat, streaks map[GoalKind]*StreakState) bool
}{
	{
		Achievement{Key: "first_day", Name: "First tracked day"},
		func(d DailyStat, _ map[GoalKind]*StreakState) bool {
			return d.TotalActiveSeconds > 0
		},
	},
	{
		Achievement{Key: "deep_focus_2h", Name: "Two hours of deep work in a day"},
		func(d DailyStat, _ map[GoalKind]*StreakState) bool {
			return d.DeepWorkSeconds >= 2*3600
		},
	},
	{
		Achievement{Key: "marathon_typist", Name: "Ten thousand keystrokes in a day"},
		func(d DailyStat, _ map[GoalKind]*StreakState) bool {
			return d.TotalKeystrokes >= 10000
		},
	},
	{
		Achievement{Key: "laser_focus", Name: "Focus score of 90 or above"},
		func(d DailyStat, _ map[GoalKind]*StreakState) bool {
			return d.FocusScore >= 90
		},
	},
	{
		Achievement{Key: "streak_7", Name: "Seven-day active streak"},
		func(_ DailyStat, streaks map[GoalKind]*StreakState) bool {
			return streakAtLeast(streaks, GoalActiveTime, 7)
		},
	},
	{
		Achievement{Key: "streak_30", Name: "Thirty-day active streak"},
		func(_ DailyStat, streaks map[GoalKind]*StreakState) bool {
			return streakAtLeast(streaks, GoalActiveTime, 30)
		},
	},
}

func streakAtLeast(streaks map[GoalKind]*StreakState, kind GoalKind, n int) bool {
	s, ok := streaks[kind]
	return ok && s.CurrentStreak >= n
}

// AchievementCatalog returns all achievements in display order.
func AchievementCatalog() []Achievement {
	all := make([]Achievement, len(achievementCatalog))
	for i, entry := range achievementCatalog {
		all[i] = entry.Achievement
	}
	return all
}

// EvaluateAchievements returns the achievements newly unlocked by the day's
// rollup, excluding any already in unlocked.
func EvaluateAchievements(d DailyStat, streaks map[GoalKind]*StreakState, unlocked map[string]bool) []Achievement {
	var earned []Achievement
	for _, entry := range achievementCatalog {
		if unlocked[entry.Key] {
			continue
		}
		if entry.unlocked(d, streaks) {
			earned = append(earned, entry.Achievement)
		}
	}
	return earned
}
