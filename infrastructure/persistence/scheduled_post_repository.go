package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hootsuite-publisher/domain/model"
	"hootsuite-publisher/domain/repository"
)

const scheduledPostColumns = `id, content_id, profile_id, profile_name, profile_type, post_text, scheduled_time, image_ref, pinterest_board, pinterest_url, remote_post_id, created_at, updated_at`

// ScheduledPostRepository implements repository.IScheduledPost on PostgreSQL
type ScheduledPostRepository struct {
	db *sql.DB
}

func NewScheduledPostRepository(db *sql.DB) *ScheduledPostRepository {
	return &ScheduledPostRepository{db: db}
}

func (r *ScheduledPostRepository) GetByID(ctx context.Context, id int64) (*model.ScheduledPost, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+scheduledPostColumns+` FROM scheduled_posts WHERE id=$1`, id)
	post, err := scanScheduledPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrPostNotFound
	}
	return post, err
}

func (r *ScheduledPostRepository) ListByContent(ctx context.Context, contentID int64) ([]*model.ScheduledPost, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+scheduledPostColumns+` FROM scheduled_posts WHERE content_id=$1 ORDER BY scheduled_time, id`, contentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectScheduledPosts(rows)
}

func (r *ScheduledPostRepository) UpdateRemotePostID(ctx context.Context, id int64, remotePostID *string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE scheduled_posts SET remote_post_id=$1, updated_at=$2 WHERE id=$3`, remotePostID, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return expectOneRow(res, repository.ErrPostNotFound)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanScheduledPost(row rowScanner) (*model.ScheduledPost, error) {
	p := &model.ScheduledPost{}
	var profileName, profileType sql.NullString
	var imageRef, board, pinURL, remoteID sql.NullString
	if err := row.Scan(&p.ID, &p.ContentID, &p.ProfileID, &profileName, &profileType, &p.PostText, &p.ScheduledTime,
		&imageRef, &board, &pinURL, &remoteID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.ProfileName = profileName.String
	p.ProfileType = profileType.String
	p.ScheduledTime = p.ScheduledTime.UTC()
	p.ImageRef = nullableString(imageRef)
	p.PinterestBoard = nullableString(board)
	p.PinterestURL = nullableString(pinURL)
	p.RemotePostID = nullableString(remoteID)
	return p, nil
}

func collectScheduledPosts(rows *sql.Rows) ([]*model.ScheduledPost, error) {
	var list []*model.ScheduledPost
	for rows.Next() {
		p, err := scanScheduledPost(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func nullableString(v sql.NullString) *string {
	if !v.Valid || v.String == "" {
		return nil
	}
	s := v.String
	return &s
}

func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
