package persistence

import (
	"context"
	"database/sql"
	"errors"

	"hootsuite-publisher/domain/model"
	"hootsuite-publisher/domain/repository"
)

const contentColumns = `id, title, summary, body, published, publish_on, url, image_ref, created_at, updated_at`

// ContentRepository reads content items from PostgreSQL
type ContentRepository struct {
	db *sql.DB
}

func NewContentRepository(db *sql.DB) *ContentRepository { return &ContentRepository{db: db} }

func (r *ContentRepository) GetByID(ctx context.Context, id int64) (*model.Content, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+contentColumns+` FROM contents WHERE id=$1`, id)
	c, err := scanContent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrContentNotFound
	}
	return c, err
}

// ContentRepositoryMSSQL reads content items from SQL Server
type ContentRepositoryMSSQL struct {
	db *sql.DB
}

func NewContentRepositoryMSSQL(db *sql.DB) *ContentRepositoryMSSQL {
	return &ContentRepositoryMSSQL{db: db}
}

func (r *ContentRepositoryMSSQL) GetByID(ctx context.Context, id int64) (*model.Content, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+contentColumns+` FROM dbo.[contents] WHERE id=@p1`, id)
	c, err := scanContent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrContentNotFound
	}
	return c, err
}

func scanContent(row rowScanner) (*model.Content, error) {
	c := &model.Content{}
	var summary, body, url, imageRef sql.NullString
	var publishOn sql.NullTime
	if err := row.Scan(&c.ID, &c.Title, &summary, &body, &c.Published, &publishOn, &url, &imageRef, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Summary = summary.String
	c.Body = body.String
	c.URL = url.String
	c.ImageRef = nullableString(imageRef)
	if publishOn.Valid {
		t := publishOn.Time.UTC()
		c.PublishOn = &t
	}
	return c, nil
}
