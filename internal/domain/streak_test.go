package domain

import (
	"testing"
	"time"
)

func mustAddDay(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return t.AddDate(0, 0, 1).Format("2006-01-02")
}

func TestStreakState_Apply(t *testing.T) {
	tests := []struct {
		name        string
		days        []struct {
			date string
			met  bool
		}
		wantCurrent int
		wantLongest int
	}{
		{
			name: "consecutive days increment",
			days: []struct {
				date string
				met  bool
			}{
				{"2026-03-10", true},
				{"2026-03-11", true},
				{"2026-03-12", true},
			},
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name: "gap resets to one",
			days: []struct {
				date string
				met  bool
			}{
				{"2026-03-10", true},
				{"2026-03-11", true},
				{"2026-03-14", true},
			},
			wantCurrent: 1,
			wantLongest: 2,
		},
		{
			name: "not met with gap zeroes current",
			days: []struct {
				date string
				met  bool
			}{
				{"2026-03-10", true},
				{"2026-03-11", true},
				{"2026-03-13", false},
			},
			wantCurrent: 0,
			wantLongest: 2,
		},
		{
			name: "not met next day keeps current",
			days: []struct {
				date string
				met  bool
			}{
				{"2026-03-10", true},
				{"2026-03-11", false},
			},
			wantCurrent: 1,
			wantLongest: 1,
		},
		{
			name: "first day ever",
			days: []struct {
				date string
				met  bool
			}{
				{"2026-03-10", true},
			},
			wantCurrent: 1,
			wantLongest: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s StreakState
			for _, d := range tt.days {
				s.Apply(d.date, d.met)
			}
			if s.CurrentStreak != tt.wantCurrent {
				t.Errorf("CurrentStreak = %d, want %d", s.CurrentStreak, tt.wantCurrent)
			}
			if s.LongestStreak != tt.wantLongest {
				t.Errorf("LongestStreak = %d, want %d", s.LongestStreak, tt.wantLongest)
			}
		})
	}
}

func TestStreakState_IdempotentPerDay(t *testing.T) {
	var s StreakState
	s.Apply("2026-03-10", true)
	s.Apply("2026-03-11", true)
	s.Apply("2026-03-11", true) // reprocessed day

	if s.CurrentStreak != 2 {
		t.Errorf("CurrentStreak = %d, want 2 after duplicate apply", s.CurrentStreak)
	}
	if s.LongestStreak != 2 {
		t.Errorf("LongestStreak = %d, want 2 after duplicate apply", s.LongestStreak)
	}
	if len(s.MetDates) != 2 {
		t.Errorf("MetDates length = %d, want 2", len(s.MetDates))
	}
}

func TestStreakState_BackfillOldDayKeepsLiveStreak(t *testing.T) {
	var s StreakState
	for _, d := range []string{"2026-03-10", "2026-03-11", "2026-03-12", "2026-03-13", "2026-03-14"} {
		s.Apply(d, true)
	}

	s.Apply("2026-03-01", true) // rollup --date for a week-old day

	if s.CurrentStreak != 5 {
		t.Errorf("CurrentStreak = %d, want 5 after backfilling an old day", s.CurrentStreak)
	}
	if s.LastMetDate != "2026-03-14" {
		t.Errorf("LastMetDate = %q, want 2026-03-14", s.LastMetDate)
	}
	if !s.HasMet("2026-03-01") {
		t.Error("backfilled day should enter the met history")
	}

	s.Apply("2026-03-15", true)
	if s.CurrentStreak != 6 {
		t.Errorf("CurrentStreak = %d, want 6 after the next consecutive day", s.CurrentStreak)
	}
}

func TestStreakState_MetDatesBounded(t *testing.T) {
	var s StreakState
	day := []byte("2024-01-01")
	for i := 0; i < 400; i++ {
		s.Apply(string(day), true)
		// advance one day
		next := mustAddDay(string(day))
		day = []byte(next)
	}
	if len(s.MetDates) > 365 {
		t.Errorf("MetDates length = %d, want <= 365", len(s.MetDates))
	}
	if s.CurrentStreak != 400 {
		t.Errorf("CurrentStreak = %d, want 400", s.CurrentStreak)
	}
}

func TestGoals_Met(t *testing.T) {
	goals := Goals{ActiveTimeHours: 4, Keystrokes: 5000, FocusScore: 70}
	d := DailyStat{
		TotalActiveSeconds: 5 * 3600,
		TotalKeystrokes:    4000,
		FocusScore:         80,
	}

	if !goals.Met(GoalActiveTime, d) {
		t.Error("5h active should meet a 4h goal")
	}
	if goals.Met(GoalKeystrokes, d) {
		t.Error("4000 keystrokes should not meet a 5000 goal")
	}
	if !goals.Met(GoalFocusScore, d) {
		t.Error("score 80 should meet a 70 goal")
	}
	if goals.Met(GoalKind("bogus"), d) {
		t.Error("unknown goal kind must never be met")
	}
}
