package follows

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users must delete the database after a bump.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by an incompatible
// version of ttv.
var ErrSchemaMismatch = errors.New("follow database schema mismatch")

// Channel is a followed streamer with opportunistically cached metadata.
type Channel struct {
	ID          string
	Login       string
	DisplayName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

var loginTitle = cases.Title(language.English)

// DisplayLabel returns the display name, falling back to a title-cased
// login when Helix ever returns the name blank.
func (c Channel) DisplayLabel() string {
	if name := strings.TrimSpace(c.DisplayName); name != "" {
		return name
	}
	return loginTitle.String(c.Login)
}

// Store manages follow persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the follow database at path and applies
// the schema. The parent directory is created when absent.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("database path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	var version int
	err = tx.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case version != schemaVersion:
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Upsert inserts the channel or, when the user id already exists,
// refreshes the cached login and display name.
func (s *Store) Upsert(ctx context.Context, channel Channel) error {
	if strings.TrimSpace(channel.ID) == "" {
		return errors.New("channel id required")
	}
	login := strings.ToLower(strings.TrimSpace(channel.Login))
	if login == "" {
		return errors.New("channel login required")
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO streamers (id, login, display_name, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
             login = excluded.login,
             display_name = excluded.display_name,
             updated_at = excluded.updated_at`,
		channel.ID,
		login,
		channel.DisplayName,
		timestamp,
		timestamp,
	)
	if err != nil {
		return fmt.Errorf("upsert streamer %s: %w", login, err)
	}
	return nil
}

// Remove deletes a followed channel by login (compared lowercased) and
// reports whether a row was removed. Unknown logins are not an error.
func (s *Store) Remove(ctx context.Context, login string) (bool, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	if login == "" {
		return false, errors.New("login required")
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM streamers WHERE login = ?`, login)
	if err != nil {
		return false, fmt.Errorf("remove streamer %s: %w", login, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// All returns every followed channel ordered by login.
func (s *Store) All(ctx context.Context) ([]Channel, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, login, display_name, created_at, updated_at FROM streamers ORDER BY login`,
	)
	if err != nil {
		return nil, fmt.Errorf("list streamers: %w", err)
	}
	defer rows.Close()

	var channels []Channel
	for rows.Next() {
		var channel Channel
		var createdAt, updatedAt string
		if err := rows.Scan(&channel.ID, &channel.Login, &channel.DisplayName, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan streamer: %w", err)
		}
		channel.CreatedAt = parseTimestamp(createdAt)
		channel.UpdatedAt = parseTimestamp(updatedAt)
		channels = append(channels, channel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate streamers: %w", err)
	}
	return channels, nil
}

func parseTimestamp(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
