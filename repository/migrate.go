package repository

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	"github.com/goliatone/go-campus"
)

// Migrate applies every pending embedded migration and returns the names
// of the applied ones.
func Migrate(ctx context.Context, db *bun.DB, logger campus.Logger) ([]string, error) {
	logger = campus.LoggerOrDefault(logger)

	migrations := migrate.NewMigrations()
	if err := migrations.Discover(GetMigrationsFS()); err != nil {
		return nil, campus.Internal(err)
	}

	migrator := migrate.NewMigrator(db, migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, campus.Database(err)
	}

	if err := migrator.Lock(ctx); err != nil {
		return nil, campus.Database(err)
	}
	defer func() {
		if err := migrator.Unlock(ctx); err != nil {
			logger.Warn("migration unlock failed", "error", err)
		}
	}()

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, campus.Database(err)
	}

	if group.IsZero() {
		logger.Debug("no new migrations to run")
		return nil, nil
	}

	applied := make([]string, 0, len(group.Migrations))
	for _, m := range group.Migrations {
		applied = append(applied, m.Name+"_"+m.Comment)
	}
	logger.Info("migrated", "group", group.String(), "migrations", applied)
	return applied, nil
}
