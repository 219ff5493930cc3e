package ports

import (
	"context"

	"github.com/emiliopalmerini/focusd/internal/domain"
)

type StreakRepository interface {
	// Get returns the persisted state for a goal kind, or a fresh zero
	// state when none exists yet.
	Get(ctx context.Context, kind domain.GoalKind) (*domain.StreakState, error)
	Put(ctx context.Context, kind domain.GoalKind, state *domain.StreakState) error
}
