// Package sqlstore implements the transaction query layer and user store on
// top of sqlx, for PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite).
package sqlstore

import (
	"context"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"txreport/pkg/config"
	"txreport/pkg/errors"
)

// Supported backends, matching DATA_BACKEND.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

func init() {
	sqlx.BindDriver(BackendSQLite, sqlx.QUESTION)
}

// SQLiteDSN builds a modernc DSN that enables foreign keys and stores
// time.Time values in a sortable text layout.
func SQLiteDSN(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
}

// DataSource returns the driver name and DSN for cfg.
func DataSource(cfg config.DatabaseConfig) (string, string, error) {
	switch cfg.Backend {
	case BackendPostgres:
		if cfg.URL == "" {
			return "", "", errors.New("DATABASE_URL is required for the postgres backend")
		}
		return "postgres", cfg.URL, nil
	case BackendSQLite:
		if cfg.SQLitePath == "" {
			return "", "", errors.New("SQLITE_DB_PATH is required for the sqlite backend")
		}
		return "sqlite", SQLiteDSN(cfg.SQLitePath), nil
	}
	return "", "", errors.New("unsupported data backend: " + cfg.Backend)
}

// Open connects to the configured backend and applies pool settings.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	driver, dsn, err := DataSource(cfg)
	if err != nil {
		return nil, err
	}

	if err := ensureDir(cfg); err != nil {
		return nil, err
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to %s", cfg.Backend)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	return db, nil
}

func ensureDir(cfg config.DatabaseConfig) error {
	if cfg.Backend != BackendSQLite {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
		return errors.Wrap(err, "failed to create database directory")
	}
	return nil
}
