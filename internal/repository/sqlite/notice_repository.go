package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"campushub/internal/domain"
	"campushub/internal/repository"
)

const noticeColumns = `id, title, date, description, author_id, upvote_count, created_at`

type NoticeRepository struct {
	db *sql.DB
}

func NewNoticeRepository(db *sql.DB) repository.NoticeRepository {
	return &NoticeRepository{db: db}
}

func (r *NoticeRepository) Create(ctx context.Context, notice *domain.Notice) (int64, error) {
	notice.CreatedAt = time.Now().UTC()
	notice.UpvoteCount = 0

	res, err := r.db.ExecContext(ctx, `
INSERT INTO notices (title, date, description, author_id, upvote_count, created_at)
VALUES (?, ?, ?, ?, 0, ?)`,
		notice.Title,
		notice.Date,
		notice.Description,
		nullID(notice.AuthorID),
		notice.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert notice: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("notice last insert id: %w", err)
	}
	notice.ID = id
	return id, nil
}

func (r *NoticeRepository) Get(ctx context.Context, id int64) (*domain.Notice, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+noticeColumns+` FROM notices WHERE id = ?`, id)
	return scanNotice(row)
}

func (r *NoticeRepository) List(ctx context.Context) ([]domain.Notice, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+noticeColumns+` FROM notices ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list notices: %w", err)
	}
	defer rows.Close()

	notices := []domain.Notice{}
	for rows.Next() {
		notice, err := scanNotice(rows)
		if err != nil {
			return nil, err
		}
		notices = append(notices, *notice)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notices: %w", err)
	}
	return notices, nil
}

func (r *NoticeRepository) DeleteLatest(ctx context.Context, authorID int64) (*domain.Notice, error) {
	var latest *domain.Notice
	err := withTx(ctx, r.db, func(tx querier) error {
		row := tx.QueryRowContext(ctx, `SELECT `+noticeColumns+` FROM notices WHERE author_id=? ORDER BY created_at DESC, id DESC LIMIT 1`, authorID)
		notice, err := scanNotice(row)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM notices WHERE id=?`, notice.ID); err != nil {
			return fmt.Errorf("delete notice: %w", err)
		}
		latest = notice
		return nil
	})
	if err != nil {
		return nil, err
	}
	return latest, nil
}

func scanNotice(row scanner) (*domain.Notice, error) {
	var (
		notice   domain.Notice
		authorID sql.NullInt64
	)
	if err := row.Scan(
		&notice.ID,
		&notice.Title,
		&notice.Date,
		&notice.Description,
		&authorID,
		&notice.UpvoteCount,
		&notice.CreatedAt,
	); err != nil {
		return nil, notFound(err, "notice")
	}
	notice.AuthorID = authorID.Int64
	return &notice, nil
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id > 0}
}
