package service

import (
	"context"
	"sync"

	"campushub/internal/domain"
	"campushub/internal/repository"
)

type fakeUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*domain.User

	getErr    error
	createErr error
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[int64]*domain.User{}}
}

func (f *fakeUsers) Create(_ context.Context, u *domain.User) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return 0, f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return 0, domain.ErrConflict
		}
	}
	f.nextID++
	u.ID = f.nextID
	cpy := *u
	f.byID[u.ID] = &cpy
	return u.ID, nil
}

func (f *fakeUsers) find(match func(*domain.User) bool) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if match(u) {
			cpy := *u
			return &cpy, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return f.find(func(u *domain.User) bool { return u.Email == email })
}

func (f *fakeUsers) GetByToken(_ context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrNotFound
	}
	return f.find(func(u *domain.User) bool { return u.SessionToken == token })
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	return f.find(func(u *domain.User) bool { return u.ID == id })
}

func (f *fakeUsers) SetSessionToken(_ context.Context, id int64, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.SessionToken = token
	return nil
}

func (f *fakeUsers) ClearSessionToken(_ context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if token != "" && u.SessionToken == token {
			u.SessionToken = ""
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id int64, p domain.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Name = p.Name
	u.Profile = p
	return nil
}

type fakeEngagement struct {
	markCalls   int
	toggleCalls int
	lastUser    int64
	result      domain.UpvoteResult
	state       domain.EngagementState
	err         error
}

var _ repository.EngagementRepository = (*fakeEngagement)(nil)

func (f *fakeEngagement) MarkRead(_ context.Context, userID, _ int64) error {
	f.markCalls++
	f.lastUser = userID
	return f.err
}

func (f *fakeEngagement) ToggleUpvote(_ context.Context, userID, _ int64) (domain.UpvoteResult, error) {
	f.toggleCalls++
	f.lastUser = userID
	return f.result, f.err
}

func (f *fakeEngagement) State(_ context.Context, userID int64) (domain.EngagementState, error) {
	f.lastUser = userID
	return f.state, f.err
}

type fakeNotices struct {
	created []domain.Notice
}

func (f *fakeNotices) Create(_ context.Context, n *domain.Notice) (int64, error) {
	n.ID = int64(len(f.created) + 1)
	f.created = append(f.created, *n)
	return n.ID, nil
}

func (f *fakeNotices) Get(_ context.Context, id int64) (*domain.Notice, error) {
	for _, n := range f.created {
		if n.ID == id {
			cpy := n
			return &cpy, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeNotices) List(context.Context) ([]domain.Notice, error) {
	return f.created, nil
}

func (f *fakeNotices) DeleteLatest(_ context.Context, authorID int64) (*domain.Notice, error) {
	for i := len(f.created) - 1; i >= 0; i-- {
		if f.created[i].AuthorID == authorID {
			n := f.created[i]
			f.created = append(f.created[:i], f.created[i+1:]...)
			return &n, nil
		}
	}
	return nil, domain.ErrNotFound
}
