package client

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"campushub/internal/domain"
)

const userKey = "campushub:user"

// ErrAuthRequired is returned when an action needs a signed-in user and the
// cache has none.
var ErrAuthRequired = errors.New("sign in required")

type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// AuthCache mirrors the last known identity on the client. It is advisory
// only: the server still authorizes every request, and only Session changes
// it.
type AuthCache struct {
	mu    sync.RWMutex
	store kvStore
	user  *domain.Identity
}

func NewAuthCache(store kvStore) *AuthCache {
	return &AuthCache{store: store}
}

// Load restores the persisted identity. Unreadable or malformed state leaves
// the cache logged out.
func (c *AuthCache) Load(ctx context.Context) error {
	c.mu.Lock()
	c.user = nil
	c.mu.Unlock()

	raw, err := c.store.Get(ctx, userKey)
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}

	var id domain.Identity
	if err := json.Unmarshal(raw, &id); err != nil || id.ID <= 0 {
		return c.store.Delete(ctx, userKey)
	}

	c.mu.Lock()
	c.user = &id
	c.mu.Unlock()
	return nil
}

func (c *AuthCache) Current() (domain.Identity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return domain.Identity{}, false
	}
	return *c.user, true
}

func (c *AuthCache) IsAuthenticated() bool {
	_, ok := c.Current()
	return ok
}

// RequireAuth is the navigation gate for screens that need a user.
func (c *AuthCache) RequireAuth() (domain.Identity, error) {
	id, ok := c.Current()
	if !ok {
		return domain.Identity{}, ErrAuthRequired
	}
	return id, nil
}

// Engagement picks the reconciliation mode from a single snapshot of the cache.
func (c *AuthCache) Engagement() domain.Engagement {
	if id, ok := c.Current(); ok {
		return domain.ServerBacked(id.ID)
	}
	return domain.LocalOnly()
}

func (c *AuthCache) set(ctx context.Context, id domain.Identity) error {
	c.mu.Lock()
	c.user = &id
	c.mu.Unlock()

	raw, err := json.Marshal(id)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, userKey, raw)
}

// clear drops the in-memory identity before touching storage so a failed
// write still leaves the process logged out.
func (c *AuthCache) clear(ctx context.Context) error {
	c.mu.Lock()
	c.user = nil
	c.mu.Unlock()
	return c.store.Delete(ctx, userKey)
}
