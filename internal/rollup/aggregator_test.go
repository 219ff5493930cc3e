package rollup

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/emiliopalmerini/focusd/internal/domain"
)

type memStore struct {
	minutes      []domain.MinuteStat
	sessions     []domain.FocusSession
	dailies      map[string]domain.DailyStat
	dailyWrites  int
	streaks      map[domain.GoalKind]*domain.StreakState
	unlocked     map[string]bool
	minuteSweeps int
	rawSweeps    int
}

func newMemStore() *memStore {
	return &memStore{
		dailies:  make(map[string]domain.DailyStat),
		streaks:  make(map[domain.GoalKind]*domain.StreakState),
		unlocked: make(map[string]bool),
	}
}

func (m *memStore) Upsert(context.Context, domain.MinuteStat) error { return nil }

func (m *memStore) ReadRange(_ context.Context, start, end time.Time) ([]domain.MinuteStat, error) {
	var out []domain.MinuteStat
	for _, st := range m.minutes {
		if st.Minute >= start.Unix() && st.Minute < end.Unix() {
			out = append(out, st)
		}
	}
	return out, nil
}

func (m *memStore) DeleteOlderThan(context.Context, int) (int64, error) {
	m.minuteSweeps++
	return 0, nil
}

func (m *memStore) Save(_ context.Context, s *domain.FocusSession) error {
	m.sessions = append(m.sessions, *s)
	return nil
}

func (m *memStore) ListClosedBetween(_ context.Context, start, end time.Time) ([]domain.FocusSession, error) {
	var out []domain.FocusSession
	for _, s := range m.sessions {
		if !s.Start.Before(start) && s.Start.Before(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) Write(_ context.Context, stat domain.DailyStat) error {
	m.dailies[stat.Date] = stat
	m.dailyWrites++
	return nil
}

func (m *memStore) Read(_ context.Context, date string) (*domain.DailyStat, error) {
	if d, ok := m.dailies[date]; ok {
		return &d, nil
	}
	return nil, nil
}

func (m *memStore) Get(_ context.Context, kind domain.GoalKind) (*domain.StreakState, error) {
	if s, ok := m.streaks[kind]; ok {
		copied := *s
		return &copied, nil
	}
	return &domain.StreakState{}, nil
}

func (m *memStore) Put(_ context.Context, kind domain.GoalKind, state *domain.StreakState) error {
	copied := *state
	m.streaks[kind] = &copied
	return nil
}

func (m *memStore) ListUnlocked(context.Context) (map[string]bool, error) {
	out := make(map[string]bool, len(m.unlocked))
	for k, v := range m.unlocked {
		out[k] = v
	}
	return out, nil
}

func (m *memStore) Unlock(_ context.Context, a domain.Achievement, _ string) error {
	m.unlocked[a.Key] = true
	return nil
}

// dailyView adapts memStore to ports.DailyStatRepository: its ReadRange
// signature collides with the MinuteStatRepository one, so the daily
// variant lives on a wrapper that shadows the promoted method.
type dailyView struct{ *memStore }

func (d dailyView) ReadRange(_ context.Context, from, to string) ([]domain.DailyStat, error) {
	var out []domain.DailyStat
	for date, stat := range d.dailies {
		if date >= from && date <= to {
			out = append(out, stat)
		}
	}
	return out, nil
}

type rawStore struct{ sweeps int }

func (r *rawStore) Append(context.Context, domain.RawEvent) error { return nil }
func (r *rawStore) DeleteOlderThan(context.Context, int) (int64, error) {
	r.sweeps++
	return 0, nil
}

func testAggregator(store *memStore, raws *rawStore) *Aggregator {
	return NewAggregator(
		store, store, dailyView{store}, store, store, raws,
		domain.Goals{ActiveTimeHours: 1, Keystrokes: 1000, FocusScore: 50},
		90,
		time.UTC,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func seedDay(store *memStore, date string) {
	start, _, _ := domain.DayBounds(date, time.UTC)
	for i := 0; i < 120; i++ {
		store.minutes = append(store.minutes, domain.MinuteStat{
			Minute:        domain.MinuteOf(start.Add(time.Duration(i) * time.Minute)),
			SubjectID:     1,
			Keystrokes:    20,
			ActiveSeconds: 50,
		})
	}
	store.sessions = append(store.sessions, domain.FocusSession{
		SubjectID: 1,
		Start:     start.Add(9 * time.Hour),
		End:       start.Add(9*time.Hour + 40*time.Minute),
		DeepWork:  true,
	})
}

func TestAggregator_FinalizeDay(t *testing.T) {
	store := newMemStore()
	seedDay(store, "2026-03-14")
	agg := testAggregator(store, &rawStore{})

	if err := agg.FinalizeDay(context.Background(), "2026-03-14"); err != nil {
		t.Fatalf("FinalizeDay failed: %v", err)
	}

	d, ok := store.dailies["2026-03-14"]
	if !ok {
		t.Fatal("no daily stat written")
	}
	if d.TotalActiveSeconds != 120*50 {
		t.Errorf("TotalActiveSeconds = %d, want %d", d.TotalActiveSeconds, 120*50)
	}
	if d.TotalKeystrokes != 120*20 {
		t.Errorf("TotalKeystrokes = %d, want %d", d.TotalKeystrokes, 120*20)
	}
	if d.TotalFocusSeconds != 40*60 {
		t.Errorf("TotalFocusSeconds = %d, want %d", d.TotalFocusSeconds, 40*60)
	}
	if d.FocusScore <= 0 || d.FocusScore > 100 {
		t.Errorf("FocusScore = %v, want in (0,100]", d.FocusScore)
	}

	// Goals: 100 minutes active ≥ 1h, 2400 keystrokes ≥ 1000.
	if s := store.streaks[domain.GoalActiveTime]; s == nil || s.CurrentStreak != 1 {
		t.Errorf("active-time streak = %+v, want current 1", s)
	}
	if !store.unlocked["first_day"] {
		t.Error("first_day achievement not unlocked")
	}
}

func TestAggregator_FinalizeDayIdempotent(t *testing.T) {
	store := newMemStore()
	seedDay(store, "2026-03-14")
	agg := testAggregator(store, &rawStore{})
	ctx := context.Background()

	if err := agg.FinalizeDay(ctx, "2026-03-14"); err != nil {
		t.Fatalf("first finalize failed: %v", err)
	}
	first := store.dailies["2026-03-14"]
	firstStreak := *store.streaks[domain.GoalActiveTime]

	if err := agg.FinalizeDay(ctx, "2026-03-14"); err != nil {
		t.Fatalf("second finalize failed: %v", err)
	}
	if second := store.dailies["2026-03-14"]; second != first {
		t.Errorf("reprocessing changed the daily stat: %+v vs %+v", first, second)
	}
	if s := store.streaks[domain.GoalActiveTime]; s.CurrentStreak != firstStreak.CurrentStreak {
		t.Errorf("reprocessing double-incremented streak: %d -> %d", firstStreak.CurrentStreak, s.CurrentStreak)
	}
}

func TestAggregator_TickFinalizesPreviousDayOnce(t *testing.T) {
	store := newMemStore()
	seedDay(store, "2026-03-13")
	agg := testAggregator(store, &rawStore{})
	ctx := context.Background()

	midnight := time.Date(2026, 3, 14, 0, 0, 30, 0, time.UTC)
	agg.tick(ctx, midnight)
	agg.tick(ctx, midnight.Add(time.Minute))
	agg.tick(ctx, midnight.Add(2*time.Minute))

	if store.dailyWrites != 1 {
		t.Errorf("daily writes = %d, want 1", store.dailyWrites)
	}
	if _, ok := store.dailies["2026-03-13"]; !ok {
		t.Error("previous day not finalized at midnight tick")
	}
	if _, ok := store.dailies["2026-03-14"]; ok {
		t.Error("current day must not be finalized while still accumulating")
	}
}

func TestAggregator_HourlyRetentionSweep(t *testing.T) {
	store := newMemStore()
	raws := &rawStore{}
	agg := testAggregator(store, raws)
	ctx := context.Background()

	agg.tick(ctx, time.Date(2026, 3, 14, 15, 0, 10, 0, time.UTC))
	agg.tick(ctx, time.Date(2026, 3, 14, 15, 1, 10, 0, time.UTC))

	if store.minuteSweeps != 1 {
		t.Errorf("minute sweeps = %d, want 1 (top of the hour only)", store.minuteSweeps)
	}
	if raws.sweeps != 1 {
		t.Errorf("raw sweeps = %d, want 1", raws.sweeps)
	}
}
