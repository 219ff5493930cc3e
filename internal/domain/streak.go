package domain

import "time"

// GoalKind identifies a daily goal a streak can be kept for.
type GoalKind string

const (
	GoalActiveTime GoalKind = "active_time"
	GoalKeystrokes GoalKind = "keystrokes"
	GoalFocusScore GoalKind = "focus_score"
)

// GoalKinds lists all goal kinds the engine evaluates.
var GoalKinds = []GoalKind{GoalActiveTime, GoalKeystrokes, GoalFocusScore}

// Goals holds the daily thresholds a day must reach to keep each streak
// alive. Consumed only by the derived-metric engine, never by capture.
type Goals struct {
	ActiveTimeHours float64
	Keystrokes      int64
	FocusScore      float64
}

// Met reports whether the day's rollup satisfies the goal of the given kind.
func (g Goals) Met(kind GoalKind, d DailyStat) bool {
	switch kind {
	case GoalActiveTime:
		return float64(d.TotalActiveSeconds) >= g.ActiveTimeHours*3600
	case GoalKeystrokes:
		return d.TotalKeystrokes >= g.Keystrokes
	case GoalFocusScore:
		return d.FocusScore >= g.FocusScore
	default:
		return false
	}
}

// maxMetDates bounds the met-dates history carried in StreakState.
const maxMetDates = 365

// StreakState is the persisted per-goal streak record. Dates are calendar
// days formatted as YYYY-MM-DD.
type StreakState struct {
	CurrentStreak int      `json:"current_streak"`
	LongestStreak int      `json:"longest_streak"`
	LastMetDate   string   `json:"last_met_date,omitempty"`
	MetDates      []string `json:"met_dates,omitempty"`
}

// HasMet reports whether date is already recorded in the met-dates history.
func (s *StreakState) HasMet(date string) bool {
	for _, d := range s.MetDates {
		if d == date {
			return true
		}
	}
	return false
}

// Apply records the goal outcome for one calendar day. Re-applying the same
// day is a no-op: a met day already in the history never double-increments.
func (s *StreakState) Apply(date string, met bool) {
	if !met {
		if s.LastMetDate != "" && daysBetween(s.LastMetDate, date) > 1 {
			s.CurrentStreak = 0
		}
		return
	}

	if s.HasMet(date) {
		return
	}

	// A backfilled day at or before the newest met day only enters the
	// history; the live streak counters stay untouched.
	if s.LastMetDate != "" && daysBetween(s.LastMetDate, date) < 1 {
		s.recordMet(date)
		return
	}

	if s.LastMetDate != "" && daysBetween(s.LastMetDate, date) == 1 {
		s.CurrentStreak++
	} else {
		s.CurrentStreak = 1
	}
	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}

	s.LastMetDate = date
	s.recordMet(date)
}

func (s *StreakState) recordMet(date string) {
	s.MetDates = append(s.MetDates, date)
	if len(s.MetDates) > maxMetDates {
		s.MetDates = s.MetDates[len(s.MetDates)-maxMetDates:]
	}
}

// daysBetween returns the whole calendar days from a to b. Unparsable dates
// count as an infinite gap so a corrupt record resets rather than extends.
func daysBetween(a, b string) int {
	ta, errA := time.Parse("2006-01-02", a)
	tb, errB := time.Parse("2006-01-02", b)
	if errA != nil || errB != nil {
		return 1 << 30
	}
	return int(tb.Sub(ta) / (24 * time.Hour))
}
