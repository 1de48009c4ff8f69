package gradestore

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/gradeflow/repograde/schema"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate moves the grade store schema to targetVersion: negative means
// latest, zero rolls every migration back, positive targets that version.
func Migrate(backend schema.DatabaseBackend, connStr string, targetVersion int) error {
	if backend == schema.NoneBackend {
		return fmt.Errorf("migrations are not supported for the none backend")
	}

	db, _, err := openBackendDB(backend, connStr)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	m, err := newMigrator(db, backend)
	if err != nil {
		return err
	}

	from, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("cannot read current schema version: %w", err)
	}
	if dirty {
		return fmt.Errorf("schema is dirty at version %d; repair or force the version before migrating", from)
	}

	return applyMigration(m, from, targetVersion)
}

// newMigrator wires the embedded migrations to the matching database driver.
func newMigrator(db *sql.DB, backend schema.DatabaseBackend) (*migrate.Migrate, error) {
	var driver database.Driver
	var err error

	switch backend {
	case schema.SQLiteBackend:
		driver, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	case schema.MySQLBackend:
		driver, err = mysql.WithInstance(db, &mysql.Config{})
	case schema.PostgreSQLBackend:
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot create %s migrate driver: %w", backend, err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("cannot load embedded migrations: %w", err)
	}

	return migrate.NewWithInstance("iofs", src, "repograde", driver)
}

// applyMigration runs the requested move and reports what happened.
func applyMigration(m *migrate.Migrate, from uint, target int) error {
	var err error
	switch {
	case target < 0:
		err = m.Up()
	case target == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(target))
	}
	if err == migrate.ErrNoChange {
		fmt.Println("Schema is already at the requested version; nothing to do.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	// Down leaves no version behind, so Version erroring means a full rollback
	if to, _, verr := m.Version(); verr == nil {
		fmt.Printf("Schema migrated from version %d to version %d\n", from, to)
	} else {
		fmt.Printf("Schema rolled back from version %d to version 0\n", from)
	}
	return nil
}
