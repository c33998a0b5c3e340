package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"campushub/internal/domain"
	"campushub/internal/repository"
)

type ResourceRepository struct {
	db *sql.DB
}

func NewResourceRepository(db *sql.DB) repository.ResourceRepository {
	return &ResourceRepository{db: db}
}

func (r *ResourceRepository) Create(ctx context.Context, resource *domain.Resource) (int64, error) {
	resource.CreatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
INSERT INTO resources (title, url, author_id, created_at)
VALUES (?, ?, ?, ?)`,
		resource.Title,
		resource.URL,
		nullID(resource.AuthorID),
		resource.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert resource: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resource last insert id: %w", err)
	}
	resource.ID = id
	return id, nil
}

func (r *ResourceRepository) List(ctx context.Context) ([]domain.Resource, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, url, author_id, created_at
FROM resources
ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	resources := []domain.Resource{}
	for rows.Next() {
		var (
			res      domain.Resource
			authorID sql.NullInt64
		)
		if err := rows.Scan(&res.ID, &res.Title, &res.URL, &authorID, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		res.AuthorID = authorID.Int64
		resources = append(resources, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resources: %w", err)
	}
	return resources, nil
}

type ContactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) repository.ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, msg *domain.ContactMessage) (int64, error) {
	msg.CreatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
INSERT INTO contact_messages (name, email, message, created_at)
VALUES (?, ?, ?, ?)`,
		msg.Name,
		msg.Email,
		msg.Message,
		msg.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert contact message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("contact message last insert id: %w", err)
	}
	msg.ID = id
	return id, nil
}
