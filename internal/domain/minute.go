package domain

import "time"

// MinuteStat is one minute of activity counters for one subject. The key is
// (Minute, SubjectID); all counter fields are non-negative and merge
// additively, never by replacement.
type MinuteStat struct {
	Minute         int64 // epoch seconds, aligned to the start of the minute
	SubjectID      int64
	Keystrokes     int64
	Clicks         int64
	ScrollDistance int64
	MouseDistance  int64
	ActiveSeconds  int64
	IdleSeconds    int64
}

// MinuteOf returns the epoch second of the wall-clock minute containing t.
func MinuteOf(t time.Time) int64 {
	return t.Unix() / 60 * 60
}

// Merge adds the counters of other into m. Keys are not checked; callers
// merge only stats sharing the same (minute, subject) key.
func (m *MinuteStat) Merge(other MinuteStat) {
	m.Keystrokes += other.Keystrokes
	m.Clicks += other.Clicks
	m.ScrollDistance += other.ScrollDistance
	m.MouseDistance += other.MouseDistance
	m.ActiveSeconds += other.ActiveSeconds
	m.IdleSeconds += other.IdleSeconds
}

// HasCounters reports whether any counter field is non-zero. All-zero stats
// are never persisted, so a quiet minute produces no row.
func (m MinuteStat) HasCounters() bool {
	return m.Keystrokes != 0 || m.Clicks != 0 || m.ScrollDistance != 0 ||
		m.MouseDistance != 0 || m.ActiveSeconds != 0 || m.IdleSeconds != 0
}
