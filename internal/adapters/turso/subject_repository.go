package turso

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/emiliopalmerini/focusd/internal/domain"
)

type SubjectRepository struct {
	db *sql.DB
}

func NewSubjectRepository(db *sql.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

func (r *SubjectRepository) FindOrCreate(ctx context.Context, bundleID, displayName string) (*domain.Subject, error) {
	subject, err := r.getByBundleID(ctx, bundleID)
	if err != nil {
		return nil, err
	}
	if subject != nil {
		return subject, nil
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO subjects (bundle_id, display_name, category)
		VALUES (?, ?, ?)
		ON CONFLICT(bundle_id) DO NOTHING
	`, bundleID, displayName, string(domain.CategoryUnknown))
	if err != nil {
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}

	subject, err = r.getByBundleID(ctx, bundleID)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, fmt.Errorf("subject %q missing after insert", bundleID)
	}
	return subject, nil
}

func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*domain.Subject, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, bundle_id, display_name, category FROM subjects WHERE id = ?
	`, id)
	return scanSubject(row)
}

func (r *SubjectRepository) List(ctx context.Context) ([]*domain.Subject, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, bundle_id, display_name, category FROM subjects ORDER BY bundle_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []*domain.Subject
	for rows.Next() {
		var s domain.Subject
		var category string
		if err := rows.Scan(&s.ID, &s.BundleID, &s.DisplayName, &category); err != nil {
			return nil, fmt.Errorf("failed to scan subject: %w", err)
		}
		s.Category = domain.Category(category)
		subjects = append(subjects, &s)
	}
	return subjects, rows.Err()
}

func (r *SubjectRepository) Reclassify(ctx context.Context, id int64, category domain.Category) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE subjects SET category = ? WHERE id = ?
	`, string(category), id)
	if err != nil {
		return fmt.Errorf("failed to reclassify subject: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("subject %d not found", id)
	}
	return nil
}

func (r *SubjectRepository) getByBundleID(ctx context.Context, bundleID string) (*domain.Subject, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, bundle_id, display_name, category FROM subjects WHERE bundle_id = ?
	`, bundleID)
	return scanSubject(row)
}

func scanSubject(row *sql.Row) (*domain.Subject, error) {
	var s domain.Subject
	var category string
	err := row.Scan(&s.ID, &s.BundleID, &s.DisplayName, &category)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}
	s.Category = domain.Category(category)
	return &s, nil
}
