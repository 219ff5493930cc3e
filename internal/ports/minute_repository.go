package ports

import (
	"context"
	"time"

	"github.com/emiliopalmerini/focusd/internal/domain"
)

type MinuteStatRepository interface {
	// Upsert applies delta additively: an existing (minute, subject) row
	// has each field incremented, never replaced.
	Upsert(ctx context.Context, delta domain.MinuteStat) error
	// ReadRange returns all rows with start <= minute < end, ordered by
	// minute then subject.
	ReadRange(ctx context.Context, start, end time.Time) ([]domain.MinuteStat, error)
	// DeleteOlderThan removes rows older than the retention window and
	// returns the number deleted.
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}
