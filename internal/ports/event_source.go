package ports

import (
	"context"

	"github.com/emiliopalmerini/focusd/internal/domain"
)

// EventSource produces the normalized event stream the collector consumes.
// Start may be called once; the returned channel closes after Stop.
type EventSource interface {
	Start(ctx context.Context) (<-chan domain.Event, error)
	Stop()
}

// TabTitler is a best-effort capability for extracting the focused browser
// tab title. Implementations return ok=false instead of errors.
type TabTitler interface {
	TabTitle(bundleID string) (title string, ok bool)
}
