package ports

import (
	"context"

	"github.com/emiliopalmerini/focusd/internal/domain"
)

type RawEventRepository interface {
	// Append is a pure insert; raw events are never updated.
	Append(ctx context.Context, event domain.RawEvent) error
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}
