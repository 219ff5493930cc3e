package ports

import "context"

// ArchiveStorage persists compressed day-level export archives outside the
// database.
type ArchiveStorage interface {
	// Store writes an archive for the given date and returns its path.
	Store(ctx context.Context, date string, data []byte) (string, error)
	Get(ctx context.Context, date string) ([]byte, error)
	Delete(ctx context.Context, date string) error
}
