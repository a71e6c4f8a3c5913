package database

import (
	"context"
	"fmt"

	"eterna_server/database/migrations"

	"github.com/MonkyMars/gecho"
	"github.com/uptrace/bun/migrate"
)

// Migrate applies every pending schema migration under a migration lock
func Migrate(ctx context.Context, db *DB, logger *gecho.Logger) error {
	migrator := migrate.NewMigrator(db.DB, migrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to create migration tables: %w", err)
	}

	if err := migrator.Lock(ctx); err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	defer func() {
		if err := migrator.Unlock(ctx); err != nil {
			logger.Warn("Failed to release migration lock", gecho.Field("error", err))
		}
	}()

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}

	if group.IsZero() {
		logger.Debug("Database schema is up to date")
		return nil
	}

	logger.Info("Applied database migrations",
		gecho.Field("group", group.ID),
		gecho.Field("migrations", group.Migrations.String()),
	)
	return nil
}
