package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/emiliopalmerini/focusd/internal/adapters/turso"
	"github.com/emiliopalmerini/focusd/internal/infrastructure/config"
	"github.com/emiliopalmerini/focusd/internal/migrate"
)

// AppContext holds all shared dependencies for CLI commands.
type AppContext struct {
	Config *config.Config
	DB     *sql.DB
	Repos  *turso.Repositories
	Loc    *time.Location
	Logger *slog.Logger
}

// NewAppContext creates an AppContext with all dependencies initialized.
// Pending migrations run on open so every command sees the current schema.
func NewAppContext(ctx context.Context) (*AppContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	db, err := turso.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := migrate.RunAll(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &AppContext{
		Config: cfg,
		DB:     db,
		Repos:  turso.NewRepositories(db),
		Loc:    loc,
		Logger: newLogger(),
	}, nil
}

// Close releases all resources held by the AppContext.
func (a *AppContext) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, nil))
}
