package repository

import (
	"context"

	"campushub/internal/domain"
)

// UserRepository is the credential store. It never compares passwords; it
// only keeps hashes and the current session token of each user.
type UserRepository interface {
	// Create inserts the user and fails with domain.ErrConflict when the email is taken.
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByToken(ctx context.Context, token string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// SetSessionToken overwrites the stored token, superseding any previous session.
	SetSessionToken(ctx context.Context, id int64, token string) error
	// ClearSessionToken drops the session that currently holds token. It
	// reports whether a session was cleared.
	ClearSessionToken(ctx context.Context, token string) (bool, error)
	UpdateProfile(ctx context.Context, id int64, profile domain.Profile) error
}
