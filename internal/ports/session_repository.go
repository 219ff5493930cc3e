package ports

import (
	"context"
	"time"

	"github.com/emiliopalmerini/focusd/internal/domain"
)

type FocusSessionRepository interface {
	// Save persists a closed session and fills in its ID.
	Save(ctx context.Context, session *domain.FocusSession) error
	// ListClosedBetween returns sessions whose start falls in
	// [start, end), ordered by start.
	ListClosedBetween(ctx context.Context, start, end time.Time) ([]domain.FocusSession, error)
}
