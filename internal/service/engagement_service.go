package service

import (
	"context"
	"fmt"

	"campushub/internal/domain"
	"campushub/internal/repository"
)

// EngagementService reconciles per-user read and upvote state on notices.
// Only server-backed engagements are handled here; local-only callers keep
// their read state themselves and cannot upvote.
type EngagementService interface {
	MarkRead(ctx context.Context, e domain.Engagement, noticeID int64) error
	ToggleUpvote(ctx context.Context, e domain.Engagement, noticeID int64) (domain.UpvoteResult, error)
	State(ctx context.Context, e domain.Engagement) (domain.EngagementState, error)
}

type engagementService struct {
	engagement repository.EngagementRepository
}

func NewEngagementService(engagement repository.EngagementRepository) EngagementService {
	return &engagementService{engagement: engagement}
}

func (s *engagementService) MarkRead(ctx context.Context, e domain.Engagement, noticeID int64) error {
	userID, err := serverUser(e)
	if err != nil {
		return err
	}
	if noticeID <= 0 {
		return fmt.Errorf("notice %d: %w", noticeID, domain.ErrNotFound)
	}
	return s.engagement.MarkRead(ctx, userID, noticeID)
}

func (s *engagementService) ToggleUpvote(ctx context.Context, e domain.Engagement, noticeID int64) (domain.UpvoteResult, error) {
	userID, err := serverUser(e)
	if err != nil {
		return domain.UpvoteResult{}, err
	}
	if noticeID <= 0 {
		return domain.UpvoteResult{}, fmt.Errorf("notice %d: %w", noticeID, domain.ErrNotFound)
	}
	return s.engagement.ToggleUpvote(ctx, userID, noticeID)
}

func (s *engagementService) State(ctx context.Context, e domain.Engagement) (domain.EngagementState, error) {
	userID, err := serverUser(e)
	if err != nil {
		return domain.EngagementState{}, err
	}
	return s.engagement.State(ctx, userID)
}

func serverUser(e domain.Engagement) (int64, error) {
	userID, ok := e.UserID()
	if !ok {
		return 0, fmt.Errorf("engagement is %s: %w", e, domain.ErrUnauthorized)
	}
	return userID, nil
}
