package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campushub/internal/domain"
	"campushub/internal/repository"
)

// NoticeService manages notice content. Upvote counts are owned by
// EngagementService and never set here.
type NoticeService interface {
	Create(ctx context.Context, author domain.Identity, title, date, description string) (*domain.Notice, error)
	Get(ctx context.Context, id int64) (*domain.Notice, error)
	List(ctx context.Context) ([]domain.Notice, error)
	// DeleteLatest removes the caller's own newest notice.
	DeleteLatest(ctx context.Context, author domain.Identity) (*domain.Notice, error)
}

// ForumService manages forum threads and comments.
type ForumService interface {
	CreatePost(ctx context.Context, author domain.Identity, title, body string) (*domain.Post, error)
	GetPost(ctx context.Context, id int64) (*domain.Post, error)
	ListPosts(ctx context.Context) ([]domain.Post, error)
	AddComment(ctx context.Context, author domain.Identity, postID int64, body string) (*domain.Comment, error)
	ListComments(ctx context.Context, postID int64) ([]domain.Comment, error)
}

// ResourceService manages shared resource links.
type ResourceService interface {
	Create(ctx context.Context, author domain.Identity, title, url string) (*domain.Resource, error)
	List(ctx context.Context) ([]domain.Resource, error)
}

// ContactService records contact form messages.
type ContactService interface {
	Submit(ctx context.Context, name, email, message string) error
}

type noticeService struct {
	notices repository.NoticeRepository
	now     func() time.Time
}

func NewNoticeService(notices repository.NoticeRepository) NoticeService {
	return &noticeService{notices: notices, now: time.Now}
}

func (s *noticeService) Create(ctx context.Context, author domain.Identity, title, date, description string) (*domain.Notice, error) {
	title, description = strings.TrimSpace(title), strings.TrimSpace(description)
	if err := required(title, description); err != nil {
		return nil, err
	}
	date = strings.TrimSpace(date)
	if date == "" {
		date = s.now().Format(domain.NoticeDateLayout)
	}

	notice := &domain.Notice{
		Title:       title,
		Date:        date,
		Description: description,
		AuthorID:    author.ID,
	}
	if _, err := s.notices.Create(ctx, notice); err != nil {
		return nil, err
	}
	return notice, nil
}

func (s *noticeService) Get(ctx context.Context, id int64) (*domain.Notice, error) {
	return s.notices.Get(ctx, id)
}

func (s *noticeService) List(ctx context.Context) ([]domain.Notice, error) {
	return s.notices.List(ctx)
}

func (s *noticeService) DeleteLatest(ctx context.Context, author domain.Identity) (*domain.Notice, error) {
	if author.ID <= 0 {
		return nil, domain.ErrUnauthorized
	}
	return s.notices.DeleteLatest(ctx, author.ID)
}

type forumService struct {
	posts repository.PostRepository
}

func NewForumService(posts repository.PostRepository) ForumService {
	return &forumService{posts: posts}
}

func (s *forumService) CreatePost(ctx context.Context, author domain.Identity, title, body string) (*domain.Post, error) {
	title, body = strings.TrimSpace(title), strings.TrimSpace(body)
	if err := required(title, body); err != nil {
		return nil, err
	}
	post := &domain.Post{
		Title:      title,
		Body:       body,
		AuthorID:   author.ID,
		AuthorName: author.Name,
	}
	if _, err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *forumService) GetPost(ctx context.Context, id int64) (*domain.Post, error) {
	return s.posts.Get(ctx, id)
}

func (s *forumService) ListPosts(ctx context.Context) ([]domain.Post, error) {
	return s.posts.List(ctx)
}

func (s *forumService) AddComment(ctx context.Context, author domain.Identity, postID int64, body string) (*domain.Comment, error) {
	body = strings.TrimSpace(body)
	if err := required(body); err != nil {
		return nil, err
	}
	comment := &domain.Comment{
		PostID:     postID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Body:       body,
	}
	if _, err := s.posts.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *forumService) ListComments(ctx context.Context, postID int64) ([]domain.Comment, error) {
	return s.posts.ListComments(ctx, postID)
}

type resourceService struct {
	resources repository.ResourceRepository
}

func NewResourceService(resources repository.ResourceRepository) ResourceService {
	return &resourceService{resources: resources}
}

func (s *resourceService) Create(ctx context.Context, author domain.Identity, title, url string) (*domain.Resource, error) {
	title, url = strings.TrimSpace(title), strings.TrimSpace(url)
	if err := required(title, url); err != nil {
		return nil, err
	}
	res := &domain.Resource{Title: title, URL: url, AuthorID: author.ID}
	if _, err := s.resources.Create(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *resourceService) List(ctx context.Context) ([]domain.Resource, error) {
	return s.resources.List(ctx)
}

type contactService struct {
	messages repository.ContactRepository
}

func NewContactService(messages repository.ContactRepository) ContactService {
	return &contactService{messages: messages}
}

func (s *contactService) Submit(ctx context.Context, name, email, message string) error {
	msg := &domain.ContactMessage{
		Name:    strings.TrimSpace(name),
		Email:   NormalizeEmail(email),
		Message: strings.TrimSpace(message),
	}
	if err := required(msg.Name, msg.Email, msg.Message); err != nil {
		return err
	}
	_, err := s.messages.Create(ctx, msg)
	return err
}

func required(fields ...string) error {
	for _, f := range fields {
		if f == "" {
			return fmt.Errorf("missing fields: %w", domain.ErrInvalidInput)
		}
	}
	return nil
}
