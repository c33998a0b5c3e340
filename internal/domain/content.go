package domain

import "time"

// Post is a forum thread.
type Post struct {
	ID         int64
	Title      string
	Body       string
	AuthorID   int64
	AuthorName string
	CreatedAt  time.Time
}

// Comment belongs to a forum post.
type Comment struct {
	ID         int64
	PostID     int64
	AuthorID   int64
	AuthorName string
	Body       string
	CreatedAt  time.Time
}

// Resource is a shared link to study material.
type Resource struct {
	ID        int64
	Title     string
	URL       string
	AuthorID  int64
	CreatedAt time.Time
}

// ContactMessage is a message left through the public contact form.
type ContactMessage struct {
	ID        int64
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
}
