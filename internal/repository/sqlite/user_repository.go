package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"campushub/internal/domain"
	"campushub/internal/repository"
)

const userColumns = `id, name, email, password_hash, session_token, username, srn, semester, bio, avatar_url, created_at, updated_at`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO users (name, email, password_hash, session_token, username, srn, semester, bio, avatar_url, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Name,
		user.Email,
		user.PasswordHash,
		nullString(user.SessionToken),
		user.Profile.Username,
		user.Profile.SRN,
		user.Profile.Semester,
		user.Profile.Bio,
		user.Profile.AvatarURL,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("user %s: %w", user.Email, domain.ErrConflict)
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user last insert id: %w", err)
	}
	user.ID = id
	return id, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *UserRepository) GetByToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE session_token = ?`, token)
	return scanUser(row)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *UserRepository) SetSessionToken(ctx context.Context, id int64, token string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users
SET session_token=?, updated_at=?
WHERE id=?`,
		nullString(token),
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("set session token: %w", err)
	}
	return requireAffected(res, "user")
}

func (r *UserRepository) ClearSessionToken(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	res, err := r.db.ExecContext(ctx, `
UPDATE users
SET session_token=NULL, updated_at=?
WHERE session_token=?`,
		time.Now().UTC(),
		token,
	)
	if err != nil {
		return false, fmt.Errorf("clear session token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("clear session rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, profile domain.Profile) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users
SET name=?, username=?, srn=?, semester=?, bio=?, avatar_url=?, updated_at=?
WHERE id=?`,
		profile.Name,
		profile.Username,
		profile.SRN,
		profile.Semester,
		profile.Bio,
		profile.AvatarURL,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return requireAffected(res, "user")
}

func scanUser(row scanner) (*domain.User, error) {
	var (
		user  domain.User
		token sql.NullString
	)
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&token,
		&user.Profile.Username,
		&user.Profile.SRN,
		&user.Profile.Semester,
		&user.Profile.Bio,
		&user.Profile.AvatarURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, notFound(err, "user")
	}
	user.SessionToken = token.String
	user.Profile.Name = user.Name
	return &user, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return nil
}
