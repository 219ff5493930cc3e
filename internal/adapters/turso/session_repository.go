package turso

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/emiliopalmerini/focusd/internal/domain"
)

type FocusSessionRepository struct {
	db *sql.DB
}

func NewFocusSessionRepository(db *sql.DB) *FocusSessionRepository {
	return &FocusSessionRepository{db: db}
}

func (r *FocusSessionRepository) Save(ctx context.Context, session *domain.FocusSession) error {
	deepWork := 0
	if session.DeepWork {
		deepWork = 1
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO focus_sessions (subject_id, start_ts, end_ts, keystrokes, interruptions, deep_work)
		VALUES (?, ?, ?, ?, ?, ?)
	`, session.SubjectID, session.Start.Unix(), session.End.Unix(),
		session.Keystrokes, session.Interruptions, deepWork)
	if err != nil {
		return fmt.Errorf("failed to save focus session: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get session id: %w", err)
	}
	session.ID = id
	return nil
}

func (r *FocusSessionRepository) ListClosedBetween(ctx context.Context, start, end time.Time) ([]domain.FocusSession, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, subject_id, start_ts, end_ts, keystrokes, interruptions, deep_work
		FROM focus_sessions
		WHERE start_ts >= ? AND start_ts < ?
		ORDER BY start_ts
	`, start.Unix(), end.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to list focus sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.FocusSession
	for rows.Next() {
		var s domain.FocusSession
		var startTS, endTS int64
		var deepWork int
		if err := rows.Scan(&s.ID, &s.SubjectID, &startTS, &endTS,
			&s.Keystrokes, &s.Interruptions, &deepWork); err != nil {
			return nil, fmt.Errorf("failed to scan focus session: %w", err)
		}
		s.Start = time.Unix(startTS, 0)
		s.End = time.Unix(endTS, 0)
		s.DeepWork = deepWork == 1
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
