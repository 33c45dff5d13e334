package repository

import (
	"context"
	"errors"

	"hootsuite-publisher/domain/model"
)

var (
	ErrPostNotFound    = errors.New("scheduled post not found")
	ErrContentNotFound = errors.New("content not found")
)

// IScheduledPost loads and saves scheduled posts owned by content items.
type IScheduledPost interface {
	GetByID(ctx context.Context, id int64) (*model.ScheduledPost, error)
	ListByContent(ctx context.Context, contentID int64) ([]*model.ScheduledPost, error)
	// UpdateRemotePostID touches only remote_post_id; nil clears it.
	UpdateRemotePostID(ctx context.Context, id int64, remotePostID *string) error
}

// IContent resolves content items for the publisher.
type IContent interface {
	GetByID(ctx context.Context, id int64) (*model.Content, error)
}

// IPublishAudit appends publish attempts.
type IPublishAudit interface {
	Create(ctx context.Context, audits []*model.PublishAudit) error
}
