package client

import (
	"context"
	"errors"
	"fmt"

	"campushub/internal/domain"
)

// Session performs the explicit login state transitions. It is the only
// writer of the AuthCache.
type Session struct {
	api   *API
	cache *AuthCache
}

func NewSession(api *API, cache *AuthCache) *Session {
	return &Session{api: api, cache: cache}
}

func (s *Session) Register(ctx context.Context, name, email, password string) (domain.Identity, error) {
	id, err := s.api.Register(ctx, name, email, password)
	if err != nil {
		return domain.Identity{}, err
	}
	if err := s.cache.set(ctx, id); err != nil {
		return id, fmt.Errorf("persist identity: %w", err)
	}
	return id, nil
}

func (s *Session) Login(ctx context.Context, email, password string) (domain.Identity, error) {
	id, err := s.api.Login(ctx, email, password)
	if err != nil {
		return domain.Identity{}, err
	}
	if err := s.cache.set(ctx, id); err != nil {
		return id, fmt.Errorf("persist identity: %w", err)
	}
	return id, nil
}

// Logout clears the cache before contacting the server. The client ends up
// logged out even when the request fails; the error is returned for reporting.
// The session cookie is dropped afterwards either way so no usable token is
// left on disk.
func (s *Session) Logout(ctx context.Context) error {
	cacheErr := s.cache.clear(ctx)
	netErr := s.api.Logout(ctx)
	cookieErr := s.api.forgetSession(ctx)
	if netErr != nil {
		return fmt.Errorf("server logout: %w", netErr)
	}
	return errors.Join(cacheErr, cookieErr)
}

// Expire records that the server no longer accepts the cached session, e.g.
// after ErrSessionExpired. It is a local logout with no server call.
func (s *Session) Expire(ctx context.Context) error {
	return errors.Join(s.cache.clear(ctx), s.api.forgetSession(ctx))
}
