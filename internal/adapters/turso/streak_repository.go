package turso

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/emiliopalmerini/focusd/internal/domain"
)

type StreakRepository struct {
	db *sql.DB
}

func NewStreakRepository(db *sql.DB) *StreakRepository {
	return &StreakRepository{db: db}
}

func (r *StreakRepository) Get(ctx context.Context, kind domain.GoalKind) (*domain.StreakState, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `
		SELECT state FROM streak_states WHERE kind = ?
	`, string(kind)).Scan(&raw)
	if err == sql.ErrNoRows {
		return &domain.StreakState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get streak state: %w", err)
	}

	var state domain.StreakState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("failed to decode streak state %q: %w", kind, err)
	}
	return &state, nil
}

func (r *StreakRepository) Put(ctx context.Context, kind domain.GoalKind, state *domain.StreakState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode streak state: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO streak_states (kind, state, updated_at) VALUES (?, ?, ?)
	`, string(kind), string(raw), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to put streak state: %w", err)
	}
	return nil
}
