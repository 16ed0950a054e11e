// Package sqlite implements the storage driver on a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	// Import the pure-Go SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/savvy-app/savvy/internal/profile"
	"github.com/savvy-app/savvy/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens (and if necessary initializes) the database at profile.DSN.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	// busy_timeout covers the rare case of two client processes sharing one
	// data directory.
	sqliteDB, err := sql.Open("sqlite", profile.DSN+"?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	driver := DB{db: sqliteDB, profile: profile}
	if err := driver.migrate(context.Background()); err != nil {
		sqliteDB.Close()
		return nil, errors.Wrap(err, "failed to initialize db schema")
	}

	return &driver, nil
}

func (d *DB) migrate(ctx context.Context) error {
	stmt := `
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now'))
		)`
	_, err := d.db.ExecContext(ctx, stmt)
	return err
}

func (d *DB) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := d.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "failed to get key %s", key)
	}
	return value, true, nil
}

func (d *DB) Set(ctx context.Context, key string, value string) error {
	stmt := `
		INSERT INTO kv (key, value, updated_ts)
		VALUES (?, ?, strftime('%s', 'now'))
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_ts = excluded.updated_ts`
	if _, err := d.db.ExecContext(ctx, stmt, key, value); err != nil {
		return errors.Wrapf(err, "failed to set key %s", key)
	}
	return nil
}

func (d *DB) Delete(ctx context.Context, key string) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return errors.Wrapf(err, "failed to delete key %s", key)
	}
	return nil
}

func (d *DB) Clear(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM kv"); err != nil {
		return errors.Wrap(err, "failed to clear storage")
	}
	return nil
}

func (d *DB) Close() error {
	return d.db.Close()
}
