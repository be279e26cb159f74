package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/artpar/onmodelcreating/core/model"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// SQLiteStore implements Schema with SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewSQLiteStore opens a SQLite database at path.
func NewSQLiteStore(path string, logger zerolog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

// sqliteDSN appends the connection options to path, keeping any query
// parameters it already carries.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_journal_mode=WAL&_busy_timeout=5000"
}

// NewSQLiteStoreFromDB creates a SQLite store from an existing connection.
func NewSQLiteStoreFromDB(db *sql.DB, logger zerolog.Logger) *SQLiteStore {
	return &SQLiteStore{db: db, logger: logger}
}

// EnsureSchema creates all tables and indexes of m inside one transaction.
func (s *SQLiteStore) EnsureSchema(ctx context.Context, m *model.Model) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, e := range m.Entities() {
		if _, err := tx.ExecContext(ctx, BuildCreateTableSQL(e)); err != nil {
			return fmt.Errorf("create table %s: %w", e.Table, err)
		}

		for _, indexSQL := range BuildIndexSQL(e) {
			if _, err := tx.ExecContext(ctx, indexSQL); err != nil {
				return fmt.Errorf("create index on %s: %w", e.Table, err)
			}
		}

		s.logger.Debug().Str("entity", e.Name).Str("table", e.Table).Msg("table ensured")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.logger.Info().Int("tables", len(m.Entities())).Msg("schema ensured")
	return nil
}

// Tables returns the names of all user tables, sorted.
func (s *SQLiteStore) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}
