package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store is the client's local sqlite file. It keeps small key/value metadata
// (the cached identity, session cookies) and the read-set used when no
// server-backed identity is available.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates the state file at path and ensures its schema.
func OpenStore(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.Init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS metadata (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS read_notices (
	notice_id INTEGER PRIMARY KEY,
	read_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init state schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns nil, nil when key is absent.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete metadata[%s]: %w", key, err)
	}
	return nil
}

// MarkRead adds noticeID to the local read-set. Repeated calls are no-ops.
func (s *Store) MarkRead(ctx context.Context, noticeID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO read_notices (notice_id) VALUES (?) ON CONFLICT(notice_id) DO NOTHING`, noticeID)
	if err != nil {
		return fmt.Errorf("mark notice %d read locally: %w", noticeID, err)
	}
	return nil
}

func (s *Store) IsRead(ctx context.Context, noticeID int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM read_notices WHERE notice_id = ?`, noticeID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("lookup local read %d: %w", noticeID, err)
	}
	return n > 0, nil
}

func (s *Store) ReadNotices(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT notice_id FROM read_notices ORDER BY notice_id`)
	if err != nil {
		return nil, fmt.Errorf("list local reads: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan local read: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
