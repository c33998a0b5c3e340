package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"campushub/internal/domain"
	"campushub/internal/repository"
)

type EngagementRepository struct {
	db *sql.DB
}

func NewEngagementRepository(db *sql.DB) repository.EngagementRepository {
	return &EngagementRepository{db: db}
}

func (r *EngagementRepository) MarkRead(ctx context.Context, userID, noticeID int64) error {
	return withTx(ctx, r.db, func(tx querier) error {
		if _, err := noticeUpvotes(ctx, tx, noticeID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO notice_reads (user_id, notice_id)
VALUES (?, ?)
ON CONFLICT (user_id, notice_id) DO NOTHING`,
			userID,
			noticeID,
		); err != nil {
			return fmt.Errorf("mark read: %w", err)
		}
		return nil
	})
}

// ToggleUpvote removes the membership row if present and decrements the
// counter, otherwise inserts it and increments. Both writes share one
// transaction so the counter always equals the number of membership rows.
func (r *EngagementRepository) ToggleUpvote(ctx context.Context, userID, noticeID int64) (domain.UpvoteResult, error) {
	var result domain.UpvoteResult
	err := withTx(ctx, r.db, func(tx querier) error {
		if _, err := noticeUpvotes(ctx, tx, noticeID); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM notice_upvotes WHERE user_id=? AND notice_id=?`, userID, noticeID)
		if err != nil {
			return fmt.Errorf("remove upvote: %w", err)
		}
		removed, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("remove upvote rows affected: %w", err)
		}

		delta := -1
		if removed == 0 {
			if _, err := tx.ExecContext(ctx, `INSERT INTO notice_upvotes (user_id, notice_id) VALUES (?, ?)`, userID, noticeID); err != nil {
				return fmt.Errorf("add upvote: %w", err)
			}
			delta = 1
		}

		if _, err := tx.ExecContext(ctx, `UPDATE notices SET upvote_count = upvote_count + ? WHERE id=?`, delta, noticeID); err != nil {
			return fmt.Errorf("adjust upvote count: %w", err)
		}

		count, err := noticeUpvotes(ctx, tx, noticeID)
		if err != nil {
			return err
		}
		result = domain.UpvoteResult{UpvoteCount: count, Upvoted: delta > 0}
		return nil
	})
	if err != nil {
		return domain.UpvoteResult{}, err
	}
	return result, nil
}

func (r *EngagementRepository) State(ctx context.Context, userID int64) (domain.EngagementState, error) {
	read, err := r.noticeIDs(ctx, `SELECT notice_id FROM notice_reads WHERE user_id=? ORDER BY notice_id`, userID)
	if err != nil {
		return domain.EngagementState{}, fmt.Errorf("list read notices: %w", err)
	}
	upvoted, err := r.noticeIDs(ctx, `SELECT notice_id FROM notice_upvotes WHERE user_id=? ORDER BY notice_id`, userID)
	if err != nil {
		return domain.EngagementState{}, fmt.Errorf("list upvoted notices: %w", err)
	}
	return domain.EngagementState{Read: read, Upvoted: upvoted}, nil
}

func (r *EngagementRepository) noticeIDs(ctx context.Context, query string, userID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func noticeUpvotes(ctx context.Context, q querier, noticeID int64) (int64, error) {
	var count int64
	if err := q.QueryRowContext(ctx, `SELECT upvote_count FROM notices WHERE id=?`, noticeID).Scan(&count); err != nil {
		return 0, notFound(err, "notice")
	}
	return count, nil
}
