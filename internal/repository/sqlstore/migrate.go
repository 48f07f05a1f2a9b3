package sqlstore

import (
	"database/sql"
	"embed"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"txreport/pkg/config"
	"txreport/pkg/errors"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Migrator wraps a migrate instance with its own connection, so closing it
// never affects the application pool.
type Migrator struct {
	*migrate.Migrate
}

// NewMigrator opens a dedicated connection for cfg and loads the embedded
// migrations of its backend.
func NewMigrator(cfg config.DatabaseConfig) (*Migrator, error) {
	driverName, dsn, err := DataSource(cfg)
	if err != nil {
		return nil, err
	}

	if err := ensureDir(cfg); err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open migration database")
	}

	var driver database.Driver
	switch cfg.Backend {
	case BackendPostgres:
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	default:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	}
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create migration driver")
	}

	src, err := iofs.New(migrationsFS, "migrations/"+cfg.Backend)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create migration source")
	}

	m, err := migrate.NewWithInstance("iofs", src, cfg.Backend, driver)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create migrate instance")
	}
	return &Migrator{Migrate: m}, nil
}

// Migrate applies every pending up migration.
func Migrate(cfg config.DatabaseConfig) error {
	m, err := NewMigrator(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "failed to apply migrations")
	}
	return nil
}
