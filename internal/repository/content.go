package repository

import (
	"context"

	"campushub/internal/domain"
)

// PostRepository persists forum posts and their comments.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Post, error)
	List(ctx context.Context) ([]domain.Post, error)
	CreateComment(ctx context.Context, comment *domain.Comment) (int64, error)
	ListComments(ctx context.Context, postID int64) ([]domain.Comment, error)
}

// ResourceRepository persists shared resource links.
type ResourceRepository interface {
	Create(ctx context.Context, resource *domain.Resource) (int64, error)
	List(ctx context.Context) ([]domain.Resource, error)
}

// ContactRepository stores contact form submissions.
type ContactRepository interface {
	Create(ctx context.Context, msg *domain.ContactMessage) (int64, error)
}
