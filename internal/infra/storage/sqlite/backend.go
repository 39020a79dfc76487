// sqlite persists merged generations of the versioned store in a single SQLite file
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lloydmeta/timestamping/internal/domain/storage"
)

//go:embed schema.sql
var schemaSQL string

const currentSchemaVersion = 1

// Backend implements versioned.Backend
type Backend struct {
	db     *sql.DB
	getUTC func() time.Time
}

// Open creates or opens the database at path. Use ":memory:" for a throwaway database.
func Open(path string) (*Backend, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite allows a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Backend{
		db: db,
		getUTC: func() time.Time {
			return time.Now().UTC()
		},
	}, nil
}

func (b *Backend) Load(ctx context.Context) (uint64, *storage.Patch, error) {
	var number uint64
	row := b.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(number), 0) FROM generations")
	if err := row.Scan(&number); err != nil {
		return 0, nil, fmt.Errorf("failed to read latest generation: %w", err)
	}

	rows, err := b.db.QueryContext(ctx, "SELECT idx, key, value FROM entries ORDER BY idx, key")
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read entries: %w", err)
	}
	defer rows.Close()

	contents := storage.NewPatch()
	for rows.Next() {
		var (
			index      string
			key, value []byte
		)
		if err := rows.Scan(&index, &key, &value); err != nil {
			return 0, nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		contents.Put(index, key, value)
	}
	if err := rows.Err(); err != nil {
		return 0, nil, fmt.Errorf("failed to iterate entries: %w", err)
	}
	return number, contents, nil
}

func (b *Backend) Commit(ctx context.Context, generation uint64, patch *storage.Patch) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (idx, key, value) VALUES (?, ?, ?)
		ON CONFLICT (idx, key) DO UPDATE SET value = excluded.value`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, index := range patch.Indices() {
		for _, e := range patch.Entries(index) {
			if _, err := stmt.ExecContext(ctx, index, e.Key, e.Value); err != nil {
				return fmt.Errorf("failed to write entry in [%s]: %w", index, err)
			}
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO generations (number, entries, created_at) VALUES (?, ?, ?)",
		generation, patch.Len(), b.getUTC().UnixNano(),
	); err != nil {
		return fmt.Errorf("failed to record generation [%d]: %w", generation, err)
	}
	return tx.Commit()
}

func (b *Backend) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = FULL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read user_version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("database schema version [%d] is newer than supported [%d]", version, currentSchemaVersion)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}
