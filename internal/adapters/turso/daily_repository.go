package turso

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/emiliopalmerini/focusd/internal/domain"
)

type DailyStatRepository struct {
	db *sql.DB
}

func NewDailyStatRepository(db *sql.DB) *DailyStatRepository {
	return &DailyStatRepository{db: db}
}

func (r *DailyStatRepository) Write(ctx context.Context, stat domain.DailyStat) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO daily_stats
			(date, total_active_seconds, total_focus_seconds, deep_work_seconds,
			 total_keystrokes, total_clicks, context_switches, focus_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, stat.Date, stat.TotalActiveSeconds, stat.TotalFocusSeconds, stat.DeepWorkSeconds,
		stat.TotalKeystrokes, stat.TotalClicks, stat.ContextSwitches, stat.FocusScore)
	if err != nil {
		return fmt.Errorf("failed to write daily stat: %w", err)
	}
	return nil
}

func (r *DailyStatRepository) Read(ctx context.Context, date string) (*domain.DailyStat, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT date, total_active_seconds, total_focus_seconds, deep_work_seconds,
		       total_keystrokes, total_clicks, context_switches, focus_score
		FROM daily_stats WHERE date = ?
	`, date)

	var s domain.DailyStat
	err := row.Scan(&s.Date, &s.TotalActiveSeconds, &s.TotalFocusSeconds, &s.DeepWorkSeconds,
		&s.TotalKeystrokes, &s.TotalClicks, &s.ContextSwitches, &s.FocusScore)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read daily stat: %w", err)
	}
	return &s, nil
}

func (r *DailyStatRepository) ReadRange(ctx context.Context, from, to string) ([]domain.DailyStat, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date, total_active_seconds, total_focus_seconds, deep_work_seconds,
		       total_keystrokes, total_clicks, context_switches, focus_score
		FROM daily_stats
		WHERE date >= ? AND date <= ?
		ORDER BY date
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to read daily stats: %w", err)
	}
	defer rows.Close()

	var stats []domain.DailyStat
	for rows.Next() {
		var s domain.DailyStat
		if err := rows.Scan(&s.Date, &s.TotalActiveSeconds, &s.TotalFocusSeconds, &s.DeepWorkSeconds,
			&s.TotalKeystrokes, &s.TotalClicks, &s.ContextSwitches, &s.FocusScore); err != nil {
			return nil, fmt.Errorf("failed to scan daily stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
