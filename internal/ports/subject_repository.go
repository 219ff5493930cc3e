package ports

import (
	"context"

	"github.com/emiliopalmerini/focusd/internal/domain"
)

type SubjectRepository interface {
	// FindOrCreate resolves a bundle identifier to a subject, creating it
	// on first observation. The display name is only used on creation.
	FindOrCreate(ctx context.Context, bundleID, displayName string) (*domain.Subject, error)
	GetByID(ctx context.Context, id int64) (*domain.Subject, error)
	List(ctx context.Context) ([]*domain.Subject, error)
	// Reclassify updates the category of an existing subject.
	Reclassify(ctx context.Context, id int64, category domain.Category) error
}
