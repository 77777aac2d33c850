package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"
)

func newMigrator(dsn, dir string) (*migrate.Migrate, func(), error) {
	// golang-migrate needs database/sql, so open a separate handle through the pgx stdlib driver
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, nil, err
	}
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", dir), "postgres", driver)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return m, func() { _, _ = m.Close() }, nil
}

// MigrateUp applies every pending migration in dir. Being up to date is not an error.
func MigrateUp(dsn, dir string, logger *logrus.Logger) error {
	m, closeFn, err := newMigrator(dsn, dir)
	if err != nil {
		return err
	}
	defer closeFn()

	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}

// MigrateDown reverts the last steps migrations, or all of them when steps <= 0.
func MigrateDown(dsn, dir string, steps int, logger *logrus.Logger) error {
	m, closeFn, err := newMigrator(dsn, dir)
	if err != nil {
		return err
	}
	defer closeFn()

	if steps <= 0 {
		logger.Warn("reverting all migrations")
		err = m.Down()
	} else {
		logger.WithField("steps", steps).Info("reverting migrations")
		err = m.Steps(-steps)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("nothing to revert")
		return nil
	}
	return err
}
