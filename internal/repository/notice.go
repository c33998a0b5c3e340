package repository

import (
	"context"

	"campushub/internal/domain"
)

// NoticeRepository persists notices.
type NoticeRepository interface {
	Create(ctx context.Context, notice *domain.Notice) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Notice, error)
	List(ctx context.Context) ([]domain.Notice, error)
	// DeleteLatest removes the newest notice written by authorID.
	DeleteLatest(ctx context.Context, authorID int64) (*domain.Notice, error)
}

// EngagementRepository owns the per-user read and upvote sets together with
// the aggregate upvote counter on notices.
type EngagementRepository interface {
	// MarkRead adds noticeID to the user's read set; re-adding is a no-op.
	MarkRead(ctx context.Context, userID, noticeID int64) error
	// ToggleUpvote flips membership in the user's upvote set and adjusts the
	// notice counter in the same transaction.
	ToggleUpvote(ctx context.Context, userID, noticeID int64) (domain.UpvoteResult, error)
	State(ctx context.Context, userID int64) (domain.EngagementState, error)
}
