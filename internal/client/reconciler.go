package client

import (
	"context"
	"fmt"
	"slices"

	"campushub/internal/domain"
)

// ErrSessionExpired means the server rejected the cached session. The cache
// is left as is; callers decide when to call Session.Expire.
var ErrSessionExpired = fmt.Errorf("session expired: %w", ErrAuthRequired)

// ReadResult reports where a read was recorded.
type ReadResult struct {
	Mode domain.Engagement
	// SessionExpired is set when the server refused the cached session and
	// the read fell back to the local store.
	SessionExpired bool
}

// Reconciler routes engagement actions to the server when the cache holds an
// identity and to the local store otherwise. The mode is chosen once per call.
// It never changes the AuthCache.
type Reconciler struct {
	api   *API
	cache *AuthCache
	local *Store
}

func NewReconciler(api *API, cache *AuthCache, local *Store) *Reconciler {
	return &Reconciler{api: api, cache: cache, local: local}
}

// MarkRead records a read. A server 401 keeps the read locally for this
// interaction and flags the stale session in the result.
func (r *Reconciler) MarkRead(ctx context.Context, noticeID int64) (ReadResult, error) {
	mode := r.cache.Engagement()
	if mode.IsServerBacked() {
		err := r.api.MarkRead(ctx, noticeID)
		if err == nil || !IsUnauthorized(err) {
			return ReadResult{Mode: mode}, err
		}
		res := ReadResult{Mode: domain.LocalOnly(), SessionExpired: true}
		return res, r.local.MarkRead(ctx, noticeID)
	}
	return ReadResult{Mode: mode}, r.local.MarkRead(ctx, noticeID)
}

// ToggleUpvote needs a server-backed identity; without one it fails with
// ErrAuthRequired and makes no request. A server 401 yields ErrSessionExpired.
func (r *Reconciler) ToggleUpvote(ctx context.Context, noticeID int64) (domain.UpvoteResult, error) {
	if !r.cache.Engagement().IsServerBacked() {
		return domain.UpvoteResult{}, ErrAuthRequired
	}
	res, err := r.api.ToggleUpvote(ctx, noticeID)
	if IsUnauthorized(err) {
		return domain.UpvoteResult{}, ErrSessionExpired
	}
	return res, err
}

// IsRead answers from the server read-set, or from the local store when the
// cache has no identity. A server 401 yields ErrSessionExpired.
func (r *Reconciler) IsRead(ctx context.Context, noticeID int64) (bool, error) {
	if r.cache.Engagement().IsServerBacked() {
		st, err := r.api.Engagement(ctx)
		if IsUnauthorized(err) {
			return false, ErrSessionExpired
		}
		if err != nil {
			return false, err
		}
		return slices.Contains(st.Read, noticeID), nil
	}
	return r.local.IsRead(ctx, noticeID)
}
