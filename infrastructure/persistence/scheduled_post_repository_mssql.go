package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hootsuite-publisher/domain/model"
	"hootsuite-publisher/domain/repository"
)

type ScheduledPostRepositoryMSSQL struct {
	db *sql.DB
}

func NewScheduledPostRepositoryMSSQL(db *sql.DB) *ScheduledPostRepositoryMSSQL {
	return &ScheduledPostRepositoryMSSQL{db: db}
}

func (r *ScheduledPostRepositoryMSSQL) GetByID(ctx context.Context, id int64) (*model.ScheduledPost, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+scheduledPostColumns+` FROM dbo.[scheduled_posts] WHERE id=@p1`, id)
	post, err := scanScheduledPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrPostNotFound
	}
	return post, err
}

func (r *ScheduledPostRepositoryMSSQL) ListByContent(ctx context.Context, contentID int64) ([]*model.ScheduledPost, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+scheduledPostColumns+` FROM dbo.[scheduled_posts] WHERE content_id=@p1 ORDER BY scheduled_time, id`, contentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectScheduledPosts(rows)
}

func (r *ScheduledPostRepositoryMSSQL) UpdateRemotePostID(ctx context.Context, id int64, remotePostID *string) error {
	var remote sql.NullString
	if remotePostID != nil {
		remote = sql.NullString{String: *remotePostID, Valid: true}
	}
	res, err := r.db.ExecContext(ctx, `UPDATE dbo.[scheduled_posts] SET remote_post_id=@p1, updated_at=@p2 WHERE id=@p3`, remote, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return expectOneRow(res, repository.ErrPostNotFound)
}
