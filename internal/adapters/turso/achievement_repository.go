package turso

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/emiliopalmerini/focusd/internal/domain"
)

type AchievementRepository struct {
	db *sql.DB
}

func NewAchievementRepository(db *sql.DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

func (r *AchievementRepository) ListUnlocked(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key FROM achievements`)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	defer rows.Close()

	unlocked := make(map[string]bool)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		unlocked[key] = true
	}
	return unlocked, rows.Err()
}

func (r *AchievementRepository) Unlock(ctx context.Context, achievement domain.Achievement, date string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO achievements (key, name, unlocked_on) VALUES (?, ?, ?)
		ON CONFLICT(key) DO NOTHING
	`, achievement.Key, achievement.Name, date)
	if err != nil {
		return fmt.Errorf("failed to unlock achievement: %w", err)
	}
	return nil
}
