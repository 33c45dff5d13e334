package usecase

import (
	"context"
	"errors"
	"fmt"

	"hootsuite-publisher/domain/dto"
	"hootsuite-publisher/domain/model"
	"hootsuite-publisher/domain/repository"

	"github.com/sirupsen/logrus"
)

const (
	ContentActionSaved   = "saved"
	ContentActionDeleted = "deleted"
)

// ErrPostDelivered means the post already went out and can no longer be changed.
var ErrPostDelivered = errors.New("scheduled time has passed")

type IPublishUsecase interface {
	HandleContent(ctx context.Context, contentID int64) (*dto.PublishResponse, error)
	HandleEvent(ctx context.Context, event model.ContentEvent) error
	DeletePost(ctx context.Context, postID int64) error
}

type publishUsecase struct {
	contents  repository.IContent
	posts     repository.IScheduledPost
	audit     repository.IPublishAudit
	publisher *PostPublisher
	log       logrus.FieldLogger
}

// NewPublishUsecase wires the batch driver. audit may be nil.
func NewPublishUsecase(contents repository.IContent, posts repository.IScheduledPost, audit repository.IPublishAudit, publisher *PostPublisher, log logrus.FieldLogger) IPublishUsecase {
	return &publishUsecase{contents: contents, posts: posts, audit: audit, publisher: publisher, log: log}
}

// HandleContent publishes every scheduled post of a content item. Each post
// is independent; one failing does not stop the others.
func (u *publishUsecase) HandleContent(ctx context.Context, contentID int64) (*dto.PublishResponse, error) {
	content, err := u.contents.GetByID(ctx, contentID)
	if err != nil {
		return nil, err
	}
	posts, err := u.posts.ListByContent(ctx, contentID)
	if err != nil {
		return nil, fmt.Errorf("list scheduled posts: %w", err)
	}

	batch := u.publisher.NewBatch()
	results := make([]*model.PublishResult, 0, len(posts))
	for _, post := range posts {
		if post.ProfileID == "" {
			continue
		}
		results = append(results, batch.Publish(ctx, post, content))
	}

	u.record(ctx, contentID, results)
	u.log.WithField("content_id", contentID).WithField("posts", len(results)).Info("content handled")
	return &dto.PublishResponse{ContentID: contentID, Results: results}, nil
}

// HandleEvent reacts to a content change published by the editorial system.
func (u *publishUsecase) HandleEvent(ctx context.Context, event model.ContentEvent) error {
	switch event.Action {
	case ContentActionSaved, "":
		_, err := u.HandleContent(ctx, event.ContentID)
		return err
	case ContentActionDeleted:
		posts, err := u.posts.ListByContent(ctx, event.ContentID)
		if err != nil {
			return fmt.Errorf("list scheduled posts: %w", err)
		}
		for _, post := range posts {
			if err := u.deletePost(ctx, post); err != nil && !errors.Is(err, ErrPostDelivered) {
				u.log.WithField("post_id", post.ID).WithField("error", err).Error("failed to delete post")
			}
		}
		return nil
	default:
		u.log.WithField("action", event.Action).Warn("ignoring content event")
		return nil
	}
}

// DeletePost removes a post from Hootsuite and forgets its remote id.
func (u *publishUsecase) DeletePost(ctx context.Context, postID int64) error {
	post, err := u.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	return u.deletePost(ctx, post)
}

func (u *publishUsecase) deletePost(ctx context.Context, post *model.ScheduledPost) error {
	if !post.HasRemotePost() {
		return nil
	}
	if post.ScheduledTime.Before(u.publisher.now()) {
		return ErrPostDelivered
	}
	if err := u.publisher.DeletePost(ctx, post, false); err != nil {
		return err
	}
	if err := u.posts.UpdateRemotePostID(ctx, post.ID, nil); err != nil {
		return fmt.Errorf("clear remote post id: %w", err)
	}
	post.RemotePostID = nil
	return nil
}

func (u *publishUsecase) record(ctx context.Context, contentID int64, results []*model.PublishResult) {
	if u.audit == nil || len(results) == 0 {
		return
	}
	audits := make([]*model.PublishAudit, 0, len(results))
	for _, r := range results {
		audits = append(audits, &model.PublishAudit{
			PostID:       r.PostID,
			ContentID:    contentID,
			ProfileID:    r.ProfileID,
			Outcome:      string(r.Outcome),
			Message:      r.Message,
			RemotePostID: r.RemotePostID,
		})
	}
	if err := u.audit.Create(ctx, audits); err != nil {
		u.log.WithField("error", err).Error("failed to write publish audit")
	}
}
