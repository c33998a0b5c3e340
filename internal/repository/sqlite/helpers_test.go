package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"campushub/internal/domain"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(context.Background(), db))
	return db
}

func seedUser(t *testing.T, db *sql.DB, email string) *domain.User {
	t.Helper()
	user := &domain.User{Name: "User " + email, Email: email, PasswordHash: "hash"}
	_, err := NewUserRepository(db).Create(context.Background(), user)
	require.NoError(t, err)
	return user
}

func seedNotice(t *testing.T, db *sql.DB, title string) *domain.Notice {
	t.Helper()
	notice := &domain.Notice{Title: title, Date: "Mon Jan 01 2024", Description: title + " body"}
	_, err := NewNoticeRepository(db).Create(context.Background(), notice)
	require.NoError(t, err)
	return notice
}
