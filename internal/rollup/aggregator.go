// Package rollup folds minute-level telemetry into daily summaries and
// drives the derived-metric engine (streaks, achievements) once a day's
// rollup exists.
package rollup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/emiliopalmerini/focusd/internal/domain"
	"github.com/emiliopalmerini/focusd/internal/ports"
)

const rawEventRetentionDays = 7

// Aggregator runs on a minute-aligned timer. Once per local day it
// finalizes the previous day; at the top of each hour it sweeps expired
// minute stats and raw events.
type Aggregator struct {
	minutes      ports.MinuteStatRepository
	sessions     ports.FocusSessionRepository
	dailies      ports.DailyStatRepository
	streaks      ports.StreakRepository
	achievements ports.AchievementRepository
	raws         ports.RawEventRepository

	goals         domain.Goals
	retentionDays int
	loc           *time.Location
	logger        *slog.Logger

	stop chan struct{}
	done chan struct{}

	// checkedDay is the local date whose previous day has been confirmed
	// finalized. Left unset on failure so the next tick retries.
	checkedDay string
}

func NewAggregator(
	minutes ports.MinuteStatRepository,
	sessions ports.FocusSessionRepository,
	dailies ports.DailyStatRepository,
	streaks ports.StreakRepository,
	achievements ports.AchievementRepository,
	raws ports.RawEventRepository,
	goals domain.Goals,
	retentionDays int,
	loc *time.Location,
	logger *slog.Logger,
) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	return &Aggregator{
		minutes:       minutes,
		sessions:      sessions,
		dailies:       dailies,
		streaks:       streaks,
		achievements:  achievements,
		raws:          raws,
		goals:         goals,
		retentionDays: retentionDays,
		loc:           loc,
		logger:        logger,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Run blocks until Stop is called or ctx is cancelled. A failed tick is
// logged and retried on the next one; nothing here is fatal.
func (a *Aggregator) Run(ctx context.Context) {
	defer close(a.done)

	// Align to the next minute boundary before ticking.
	now := time.Now().In(a.loc)
	wait := time.Until(now.Truncate(time.Minute).Add(time.Minute))
	select {
	case <-ctx.Done():
		return
	case <-a.stop:
		return
	case <-time.After(wait):
	}

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	a.tick(ctx, time.Now().In(a.loc))
	for {
		select {
		case <-ctx.Done():
			return
		case <-a.stop:
			return
		case t := <-ticker.C:
			a.tick(ctx, t.In(a.loc))
		}
	}
}

// Stop halts the timer. Any tick in progress completes first.
func (a *Aggregator) Stop() {
	close(a.stop)
	<-a.done
}

func (a *Aggregator) tick(ctx context.Context, now time.Time) {
	if now.Minute() == 0 {
		a.sweepRetention(ctx)
	}

	today := domain.DateOf(now)
	if a.checkedDay == today {
		return
	}
	yesterday := domain.DateOf(now.AddDate(0, 0, -1))
	if err := a.ensureFinalized(ctx, yesterday); err != nil {
		a.logger.Error("daily rollup failed, will retry", slog.String("date", yesterday), slog.Any("error", err))
		return
	}
	a.checkedDay = today
}

// ensureFinalized finalizes date unless a rollup for it already exists.
func (a *Aggregator) ensureFinalized(ctx context.Context, date string) error {
	existing, err := a.dailies.Read(ctx, date)
	if err != nil {
		return fmt.Errorf("read daily stat: %w", err)
	}
	if existing != nil {
		return nil
	}
	return a.FinalizeDay(ctx, date)
}

// FinalizeDay computes and stores the rollup for one calendar day, then
// feeds the result through the derived-metric engine. It is a pure function
// of that day's minute stats and sessions, so re-running it for an already
// finalized day produces the same row.
func (a *Aggregator) FinalizeDay(ctx context.Context, date string) error {
	start, end, err := domain.DayBounds(date, a.loc)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}

	minutes, err := a.minutes.ReadRange(ctx, start, end)
	if err != nil {
		return fmt.Errorf("read minute stats: %w", err)
	}
	sessions, err := a.sessions.ListClosedBetween(ctx, start, end)
	if err != nil {
		return fmt.Errorf("read focus sessions: %w", err)
	}

	stat := domain.SummarizeDay(date, minutes, sessions)
	if err := a.dailies.Write(ctx, stat); err != nil {
		return fmt.Errorf("write daily stat: %w", err)
	}

	a.logger.Info("day finalized",
		slog.String("date", date),
		slog.Int64("active_seconds", stat.TotalActiveSeconds),
		slog.Float64("focus_score", stat.FocusScore))

	if err := a.updateDerived(ctx, stat); err != nil {
		return fmt.Errorf("update derived metrics: %w", err)
	}
	return nil
}

// updateDerived advances streaks and achievement unlocks for a finalized
// day. Both updates are idempotent per calendar day, so a reprocessed day
// cannot double count.
func (a *Aggregator) updateDerived(ctx context.Context, stat domain.DailyStat) error {
	states := make(map[domain.GoalKind]*domain.StreakState, len(domain.GoalKinds))
	for _, kind := range domain.GoalKinds {
		state, err := a.streaks.Get(ctx, kind)
		if err != nil {
			return fmt.Errorf("load streak %s: %w", kind, err)
		}
		state.Apply(stat.Date, a.goals.Met(kind, stat))
		if err := a.streaks.Put(ctx, kind, state); err != nil {
			return fmt.Errorf("store streak %s: %w", kind, err)
		}
		states[kind] = state
	}

	unlocked, err := a.achievements.ListUnlocked(ctx)
	if err != nil {
		return fmt.Errorf("list achievements: %w", err)
	}
	for _, earned := range domain.EvaluateAchievements(stat, states, unlocked) {
		if err := a.achievements.Unlock(ctx, earned, stat.Date); err != nil {
			return fmt.Errorf("unlock achievement %s: %w", earned.Key, err)
		}
		a.logger.Info("achievement unlocked", slog.String("key", earned.Key), slog.String("date", stat.Date))
	}
	return nil
}

func (a *Aggregator) sweepRetention(ctx context.Context) {
	if n, err := a.minutes.DeleteOlderThan(ctx, a.retentionDays); err != nil {
		a.logger.Error("minute stat retention sweep failed", slog.Any("error", err))
	} else if n > 0 {
		a.logger.Info("minute stats expired", slog.Int64("rows", n), slog.Int("retention_days", a.retentionDays))
	}

	if n, err := a.raws.DeleteOlderThan(ctx, rawEventRetentionDays); err != nil {
		a.logger.Error("raw event retention sweep failed", slog.Any("error", err))
	} else if n > 0 {
		a.logger.Info("raw events expired", slog.Int64("rows", n))
	}
}
