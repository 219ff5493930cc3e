package domain

import "time"

// DailyStat is the rollup of one calendar day. It is a pure function of the
// day's minute stats and closed focus sessions, so a day can be safely
// recomputed at any time.
type DailyStat struct {
	Date               string // YYYY-MM-DD in the rollup's location
	TotalActiveSeconds int64
	TotalFocusSeconds  int64
	DeepWorkSeconds    int64
	TotalKeystrokes    int64
	TotalClicks        int64
	ContextSwitches    int64
	FocusScore         float64
}

// Focus score weights. Chosen deliberately: most of the score comes from how
// much of the active day was spent in sessions at all, with the rest split
// between switch discipline and deep-work share.
const (
	focusTimeWeight   = 0.5
	switchWeight      = 0.3
	deepWorkWeight    = 0.2
	switchesHalfPoint = 6.0 // switches per active hour at which the switch component halves
)

// FocusScore combines focused time, context-switch frequency, and deep-work
// share into a score in [0,100]. It is non-decreasing in focusSeconds and
// deepSeconds and non-increasing in switches.
func FocusScore(activeSeconds, focusSeconds, deepSeconds, switches int64) float64 {
	if activeSeconds <= 0 {
		return 0
	}

	focusRatio := clamp01(float64(focusSeconds) / float64(activeSeconds))
	deepRatio := clamp01(float64(deepSeconds) / float64(activeSeconds))

	activeHours := float64(activeSeconds) / 3600
	switchesPerHour := float64(switches) / activeHours
	switchFactor := 1 / (1 + switchesPerHour/switchesHalfPoint)

	score := 100 * (focusTimeWeight*focusRatio + switchWeight*switchFactor + deepWorkWeight*deepRatio)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SummarizeDay folds one day's minute stats and closed focus sessions into a
// DailyStat. Pure and deterministic: the same inputs always produce the same
// output, so finalization can be re-run after a fix.
func SummarizeDay(date string, minutes []MinuteStat, sessions []FocusSession) DailyStat {
	d := DailyStat{Date: date}

	for _, m := range minutes {
		d.TotalActiveSeconds += m.ActiveSeconds
		d.TotalKeystrokes += m.Keystrokes
		d.TotalClicks += m.Clicks
	}

	for i, s := range sessions {
		secs := int64(s.Duration() / time.Second)
		d.TotalFocusSeconds += secs
		if s.DeepWork {
			d.DeepWorkSeconds += secs
		}
		d.ContextSwitches += int64(s.Interruptions)
		if i > 0 {
			// Every boundary between consecutive sessions is a switch.
			d.ContextSwitches++
		}
	}

	d.FocusScore = FocusScore(d.TotalActiveSeconds, d.TotalFocusSeconds, d.DeepWorkSeconds, d.ContextSwitches)
	return d
}

// DayBounds returns the [start, end) instants of the calendar day date
// (YYYY-MM-DD) in loc.
func DayBounds(date string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 0, 1), nil
}

// DateOf formats t as a calendar day in t's location.
func DateOf(t time.Time) string {
	return t.Format("2006-01-02")
}
