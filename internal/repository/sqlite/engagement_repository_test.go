package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campushub/internal/domain"
)

func upvoteRows(t *testing.T, db *sql.DB, noticeID int64) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM notice_upvotes WHERE notice_id=?`, noticeID).Scan(&n))
	return n
}

func TestEngagementRepository_MarkReadIsSetSemantics(t *testing.T) {
	db := newTestDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "reader@campus.edu")
	notice := seedNotice(t, db, "exam schedule")

	require.NoError(t, repo.MarkRead(ctx, user.ID, notice.ID))
	require.NoError(t, repo.MarkRead(ctx, user.ID, notice.ID))

	state, err := repo.State(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{notice.ID}, state.Read)
	assert.Empty(t, state.Upvoted)

	require.ErrorIs(t, repo.MarkRead(ctx, user.ID, 9999), domain.ErrNotFound)
}

func TestEngagementRepository_ToggleRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "voter@campus.edu")
	notice := seedNotice(t, db, "fest")

	up, err := repo.ToggleUpvote(ctx, user.ID, notice.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UpvoteResult{UpvoteCount: 1, Upvoted: true}, up)

	state, err := repo.State(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{notice.ID}, state.Upvoted)

	down, err := repo.ToggleUpvote(ctx, user.ID, notice.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UpvoteResult{UpvoteCount: 0, Upvoted: false}, down)

	_, err = repo.ToggleUpvote(ctx, user.ID, 9999)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEngagementRepository_ConcurrentTogglesKeepCounterConsistent(t *testing.T) {
	db := newTestDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()
	notice := seedNotice(t, db, "hackathon")

	const users = 16
	ids := make([]int64, users)
	for i := range ids {
		ids[i] = seedUser(t, db, fmt.Sprintf("u%d@campus.edu", i)).ID
	}

	// user i toggles i+1 times, so users with an even index end up upvoted
	var wg sync.WaitGroup
	errCh := make(chan error, users*users)
	for i, id := range ids {
		for n := 0; n <= i; n++ {
			wg.Add(1)
			go func(userID int64) {
				defer wg.Done()
				if _, err := repo.ToggleUpvote(ctx, userID, notice.ID); err != nil {
					errCh <- err
				}
			}(id)
		}
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	got, err := NewNoticeRepository(db).Get(ctx, notice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(users/2), got.UpvoteCount)
	assert.Equal(t, got.UpvoteCount, upvoteRows(t, db, notice.ID))

	for i, id := range ids {
		state, err := repo.State(ctx, id)
		require.NoError(t, err)
		if i%2 == 0 {
			assert.Equal(t, []int64{notice.ID}, state.Upvoted, "user %d", i)
		} else {
			assert.Empty(t, state.Upvoted, "user %d", i)
		}
	}
}
