package db

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrateUp применяет все новые миграции. Отсутствие изменений не ошибка.
func MigrateUp(migrationURL, dbSource string) error {
	return runMigration(migrationURL, dbSource, (*migrate.Migrate).Up)
}

// MigrateDown откатывает все миграции.
func MigrateDown(migrationURL, dbSource string) error {
	return runMigration(migrationURL, dbSource, (*migrate.Migrate).Down)
}

func runMigration(migrationURL, dbSource string, step func(*migrate.Migrate) error) (err error) {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		return fmt.Errorf("cannot create a new migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := migration.Close()
		if err == nil {
			err = errors.Join(srcErr, dbErr)
		}
	}()

	if err = step(migration); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migration: %w", err)
	}
	return nil
}
