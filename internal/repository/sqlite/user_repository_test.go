package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campushub/internal/domain"
)

func TestUserRepository_CreateAndLookup(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &domain.User{Name: "Asha", Email: "asha@campus.edu", PasswordHash: "h", SessionToken: "tok-1"}
	id, err := repo.Create(ctx, user)
	require.NoError(t, err)
	assert.Positive(t, id)
	assert.Equal(t, id, user.ID)

	byEmail, err := repo.GetByEmail(ctx, "asha@campus.edu")
	require.NoError(t, err)
	assert.Equal(t, id, byEmail.ID)
	assert.Equal(t, "tok-1", byEmail.SessionToken)

	byToken, err := repo.GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, id, byToken.ID)

	_, err = repo.Create(ctx, &domain.User{Name: "Other", Email: "asha@campus.edu", PasswordHash: "h"})
	require.ErrorIs(t, err, domain.ErrConflict)

	_, err = repo.GetByEmail(ctx, "nobody@campus.edu")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.GetByToken(ctx, "")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.GetByID(ctx, 999)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepository_SessionTokenLifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "ravi@campus.edu")

	require.NoError(t, repo.SetSessionToken(ctx, user.ID, "first"))
	require.NoError(t, repo.SetSessionToken(ctx, user.ID, "second"))

	_, err := repo.GetByToken(ctx, "first")
	require.ErrorIs(t, err, domain.ErrNotFound)
	got, err := repo.GetByToken(ctx, "second")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	// a stale token must not clear the newer session
	cleared, err := repo.ClearSessionToken(ctx, "first")
	require.NoError(t, err)
	assert.False(t, cleared)
	_, err = repo.GetByToken(ctx, "second")
	require.NoError(t, err)

	cleared, err = repo.ClearSessionToken(ctx, "second")
	require.NoError(t, err)
	assert.True(t, cleared)
	_, err = repo.GetByToken(ctx, "second")
	require.ErrorIs(t, err, domain.ErrNotFound)

	cleared, err = repo.ClearSessionToken(ctx, "")
	require.NoError(t, err)
	assert.False(t, cleared)

	require.ErrorIs(t, repo.SetSessionToken(ctx, 12345, "x"), domain.ErrNotFound)
}

func TestUserRepository_TokensAreUniqueAcrossUsers(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	a := seedUser(t, db, "a@campus.edu")
	b := seedUser(t, db, "b@campus.edu")

	require.NoError(t, repo.SetSessionToken(ctx, a.ID, "shared"))
	require.Error(t, repo.SetSessionToken(ctx, b.ID, "shared"))
}

func TestUserRepository_UpdateProfile(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "meera@campus.edu")

	profile := domain.Profile{Name: "Meera K", Username: "meera", SRN: "PES1UG21CS001", Semester: "5", Bio: "hi", AvatarURL: "https://img/1.png"}
	require.NoError(t, repo.UpdateProfile(ctx, user.ID, profile))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Meera K", got.Name)
	assert.Equal(t, profile, got.Profile)

	require.ErrorIs(t, repo.UpdateProfile(ctx, 999, profile), domain.ErrNotFound)
}

func TestUserRepository_StorageFailures(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT .* FROM users WHERE session_token = \?`).
		WithArgs("tok").
		WillReturnError(errors.New("disk I/O error"))
	_, err = repo.GetByToken(ctx, "tok")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)"))
	_, err = repo.Create(ctx, &domain.User{Name: "x", Email: "x@campus.edu", PasswordHash: "h"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrConflict, "only driver error codes count as conflicts")

	mock.ExpectExec(`UPDATE users\s+SET session_token=NULL`).
		WillReturnError(errors.New("database is locked"))
	_, err = repo.ClearSessionToken(ctx, "tok")
	require.Error(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedUser(t, db, "dup@campus.edu")

	_, err := db.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, created_at, updated_at) VALUES ('x', 'dup@campus.edu', 'h', 0, 0)`)
	require.Error(t, err)
	assert.True(t, isUniqueViolation(err))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert user: %w", err)))

	_, err = db.ExecContext(ctx, `INSERT INTO notice_reads (user_id, notice_id) VALUES (424242, 1)`)
	require.Error(t, err)
	assert.False(t, isUniqueViolation(err), "foreign key failures are not conflicts")

	assert.False(t, isUniqueViolation(errors.New("UNIQUE constraint failed: users.email")))
	assert.False(t, isUniqueViolation(nil))
}
