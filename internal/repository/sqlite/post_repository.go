package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"campushub/internal/domain"
	"campushub/internal/repository"
)

type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) repository.PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (int64, error) {
	post.CreatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
INSERT INTO posts (title, body, author_id, author_name, created_at)
VALUES (?, ?, ?, ?, ?)`,
		post.Title,
		post.Body,
		nullID(post.AuthorID),
		post.AuthorName,
		post.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("post last insert id: %w", err)
	}
	post.ID = id
	return id, nil
}

func (r *PostRepository) Get(ctx context.Context, id int64) (*domain.Post, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, body, author_id, author_name, created_at
FROM posts
WHERE id = ?`, id)
	return scanPost(row)
}

func (r *PostRepository) List(ctx context.Context) ([]domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, body, author_id, author_name, created_at
FROM posts
ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) CreateComment(ctx context.Context, comment *domain.Comment) (int64, error) {
	comment.CreatedAt = time.Now().UTC()
	var id int64
	err := withTx(ctx, r.db, func(tx querier) error {
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM posts WHERE id=?`, comment.PostID).Scan(&exists); err != nil {
			return notFound(err, "post")
		}
		res, err := tx.ExecContext(ctx, `
INSERT INTO comments (post_id, author_id, author_name, body, created_at)
VALUES (?, ?, ?, ?, ?)`,
			comment.PostID,
			comment.AuthorID,
			comment.AuthorName,
			comment.Body,
			comment.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert comment: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("comment last insert id: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	comment.ID = id
	return id, nil
}

func (r *PostRepository) ListComments(ctx context.Context, postID int64) ([]domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, post_id, author_id, author_name, body, created_at
FROM comments
WHERE post_id = ?
ORDER BY created_at DESC, id DESC`, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.AuthorName, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return comments, nil
}

func scanPost(row scanner) (*domain.Post, error) {
	var (
		post     domain.Post
		authorID sql.NullInt64
	)
	if err := row.Scan(&post.ID, &post.Title, &post.Body, &authorID, &post.AuthorName, &post.CreatedAt); err != nil {
		return nil, notFound(err, "post")
	}
	post.AuthorID = authorID.Int64
	return &post, nil
}
