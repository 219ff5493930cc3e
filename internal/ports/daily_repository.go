package ports

import (
	"context"

	"github.com/emiliopalmerini/focusd/internal/domain"
)

type DailyStatRepository interface {
	// Write stores the rollup for a day, replacing any previous row.
	// Finalization is a pure function of the day's inputs, so replacement
	// is safe.
	Write(ctx context.Context, stat domain.DailyStat) error
	// Read returns nil when the day has not been finalized.
	Read(ctx context.Context, date string) (*domain.DailyStat, error)
	ReadRange(ctx context.Context, from, to string) ([]domain.DailyStat, error)
}
