package ports

import (
	"context"

	"github.com/emiliopalmerini/focusd/internal/domain"
)

type AchievementRepository interface {
	ListUnlocked(ctx context.Context) (map[string]bool, error)
	// Unlock records an achievement as earned on the given date. Unlocking
	// an already-unlocked achievement is a no-op.
	Unlock(ctx context.Context, achievement domain.Achievement, date string) error
}
