package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"campushub/internal/domain"
	"campushub/internal/repository"
)

// tokenBytes is the amount of random data behind each session token (256 bits).
const tokenBytes = 32

// Session is an authenticated identity together with the opaque token that
// proves it.
type Session struct {
	Identity domain.Identity
	Token    string
}

// SessionService issues, resolves and revokes session tokens.
type SessionService interface {
	Register(ctx context.Context, name, email, password string) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	// Logout revokes the session holding token, if any. It is idempotent.
	Logout(ctx context.Context, token string) error
	// Resolve maps a token to its owner or fails with domain.ErrUnauthorized.
	Resolve(ctx context.Context, token string) (domain.Identity, error)
}

type sessionService struct {
	users     repository.UserRepository
	cost      int
	dummyHash []byte
	newToken  func() (string, error)
}

func NewSessionService(users repository.UserRepository, bcryptCost int) (SessionService, error) {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	// compared against when the email is unknown so both login failures cost the same
	dummy, err := bcrypt.GenerateFromPassword([]byte("campushub-unknown-user"), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash dummy password: %w", err)
	}
	return &sessionService{
		users:     users,
		cost:      bcryptCost,
		dummyHash: dummy,
		newToken:  NewSessionToken,
	}, nil
}

// NewSessionToken returns a URL-safe token drawn from crypto/rand.
func NewSessionToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *sessionService) Register(ctx context.Context, name, email, password string) (*Session, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" || strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("missing fields: %w", domain.ErrInvalidInput)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("user already exists: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	token, err := s.newToken()
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		SessionToken: token,
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return &Session{Identity: user.Identity(), Token: token}, nil
}

func (s *sessionService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = NormalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("missing fields: %w", domain.ErrInvalidInput)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.newToken()
	if err != nil {
		return nil, err
	}
	if err := s.users.SetSessionToken(ctx, user.ID, token); err != nil {
		return nil, err
	}
	return &Session{Identity: user.Identity(), Token: token}, nil
}

func (s *sessionService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if _, err := s.users.ClearSessionToken(ctx, token); err != nil {
		return err
	}
	return nil
}

func (s *sessionService) Resolve(ctx context.Context, token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	user, err := s.users.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Identity{}, domain.ErrUnauthorized
		}
		return domain.Identity{}, err
	}
	return user.Identity(), nil
}
