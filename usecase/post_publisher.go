package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hootsuite-publisher/domain/dto"
	"hootsuite-publisher/domain/model"
	"hootsuite-publisher/domain/repository"
	"hootsuite-publisher/infrastructure/clients/hootsuite"
	"hootsuite-publisher/infrastructure/utils"

	"github.com/sirupsen/logrus"
)

const stateScheduled = "SCHEDULED"

// PostPublisherConfig wires a PostPublisher.
type PostPublisherConfig struct {
	Transport           repository.IHootsuiteTransport
	Posts               repository.IScheduledPost
	Files               repository.IFileStore
	Notices             repository.INotificationSink
	PostMessageEndpoint string
	MediaEndpoint       string
	Polling             MediaPolling
	Log                 logrus.FieldLogger
	Now                 func() time.Time
}

// PostPublisher schedules posts on Hootsuite. It is long lived; media
// caching happens per PublishBatch.
type PostPublisher struct {
	transport   repository.IHootsuiteTransport
	posts       repository.IScheduledPost
	files       repository.IFileStore
	notices     repository.INotificationSink
	endpoint    string
	newUploader func() IMediaUploader
	pollBudget  time.Duration
	log         logrus.FieldLogger
	now         func() time.Time
}

func NewPostPublisher(cfg PostPublisherConfig) *PostPublisher {
	p := &PostPublisher{
		transport: cfg.Transport,
		posts:     cfg.Posts,
		files:     cfg.Files,
		notices:   cfg.Notices,
		endpoint:  strings.TrimSuffix(cfg.PostMessageEndpoint, "/"),
		log:       cfg.Log,
		now:       cfg.Now,
	}
	if p.notices == nil {
		p.notices = discardNotices{}
	}
	if p.now == nil {
		p.now = utils.GetCurrentTime
	}
	polling := cfg.Polling.withDefaults()
	p.pollBudget = time.Duration(polling.Attempts) * polling.Interval
	p.newUploader = func() IMediaUploader {
		return NewMediaUploader(cfg.Transport, cfg.MediaEndpoint, cfg.Polling, cfg.Log)
	}
	return p
}

// PublishBatch publishes the posts of one content item. Images shared by
// several posts are uploaded once per batch.
type PublishBatch struct {
	publisher *PostPublisher
	uploader  IMediaUploader
}

// NewBatch starts a batch with an empty media cache.
func (p *PostPublisher) NewBatch() *PublishBatch {
	return &PublishBatch{publisher: p, uploader: p.newUploader()}
}

// Publish validates and schedules one post. Failures never escape as
// errors; they are reported in the result and to the notice sink.
func (b *PublishBatch) Publish(ctx context.Context, post *model.ScheduledPost, content *model.Content) *model.PublishResult {
	p := b.publisher
	lg := p.log.WithField("post_id", post.ID).WithField("profile", post.ProfileName)

	if msg, ok := p.validate(post, content); !ok {
		if msg != "" {
			lg.WithField("reason", msg).Info("post skipped")
			p.notify(model.NoticeWarning, msg, post)
		} else {
			lg.Debug("post skipped, scheduled time has passed")
		}
		return skipped(post, msg)
	}

	var extended []dto.ExtendedInfo
	if post.ProfileType == model.ProfileTypePinterest {
		info, ok := pinterestInfo(post, content)
		if !ok {
			msg := fmt.Sprintf("Post for %s has not been posted/changed on Hootsuite due to missing board id.", post.ProfileName)
			lg.Info("pinterest board missing")
			p.notify(model.NoticeError, msg, post)
			return &model.PublishResult{PostID: post.ID, ProfileID: post.ProfileID, Outcome: model.OutcomeFailed, Message: msg}
		}
		extended = []dto.ExtendedInfo{info}
	}

	if post.HasRemotePost() {
		if err := p.DeletePost(ctx, post, true); err != nil {
			msg := fmt.Sprintf("Post for %s has not been changed on Hootsuite because the previous post could not be deleted.", post.ProfileName)
			return p.fail(lg, post, msg, err)
		}
		post.RemotePostID = nil
		res := b.schedule(ctx, lg, post, content, extended)
		if res.Outcome != model.OutcomeScheduled {
			p.forgetRemotePost(ctx, lg, post)
		}
		return res
	}
	return b.schedule(ctx, lg, post, content, extended)
}

// schedule uploads the image, if any, and creates the post.
func (b *PublishBatch) schedule(ctx context.Context, lg logrus.FieldLogger, post *model.ScheduledPost, content *model.Content, extended []dto.ExtendedInfo) *model.PublishResult {
	p := b.publisher
	req := &dto.MessageRequest{
		Text:              resolveText(post.PostText, content),
		SocialProfileIDs:  []string{post.ProfileID},
		ScheduledSendTime: post.ScheduledSendTime(),
		ExtendedInfo:      extended,
	}

	if post.HasImage() {
		mediaID, err := b.attachImage(ctx, post, content)
		if err != nil {
			msg := fmt.Sprintf("Post for %s has not been posted/changed on Hootsuite due to error on image processing.", post.ProfileName)
			return p.fail(lg, post, msg, err)
		}
		if mediaID != "" {
			req.Media = []dto.MediaRef{{ID: mediaID}}
		}
	}

	failed := fmt.Sprintf("Failed posting for %s.", post.ProfileName)
	raw, err := p.transport.Call(ctx, http.MethodPost, p.endpoint, nil, req)
	if err != nil {
		return p.fail(lg, post, failed, err)
	}
	if len(raw) == 0 {
		return p.fail(lg, post, failed, errors.New("empty response"))
	}

	var resp dto.MessageResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return p.fail(lg, post, failed, fmt.Errorf("decode response: %w", err))
	}
	if len(resp.Data) == 0 || resp.Data[0].State != stateScheduled {
		state := ""
		if len(resp.Data) > 0 {
			state = resp.Data[0].State
		}
		lg.WithField("state", state).Warn("hootsuite did not schedule post")
		p.notify(model.NoticeWarning, failed, post)
		return &model.PublishResult{PostID: post.ID, ProfileID: post.ProfileID, Outcome: model.OutcomeFailed, Message: failed}
	}

	remoteID := resp.Data[0].ID
	if err := p.posts.UpdateRemotePostID(ctx, post.ID, &remoteID); err != nil {
		lg.WithField("error", err).WithField("remote_post_id", remoteID).Error("failed to store remote post id")
	}
	post.RemotePostID = &remoteID

	lg.WithField("remote_post_id", remoteID).Info("created post")
	msg := fmt.Sprintf("The post for %s has been successfully scheduled.", post.ProfileName)
	p.notify(model.NoticeInfo, msg, post)
	return &model.PublishResult{PostID: post.ID, ProfileID: post.ProfileID, Outcome: model.OutcomeScheduled, Message: msg, RemotePostID: &remoteID}
}

// attachImage returns an empty id when the reference resolves to no file.
func (b *PublishBatch) attachImage(ctx context.Context, post *model.ScheduledPost, content *model.Content) (string, error) {
	ref := utils.ReplacePlaceholders(*post.ImageRef, placeholderValues(content))
	if ref == "" {
		return "", nil
	}
	asset, err := b.publisher.files.Resolve(ctx, ref)
	if errors.Is(err, repository.ErrMediaNotFound) {
		b.publisher.log.WithField("image", ref).Warn("image not found, posting without media")
		return "", nil
	}
	if err != nil {
		return "", err
	}
	id, err := b.uploader.RegisterAndUpload(ctx, asset)
	if errors.Is(err, hootsuite.ErrUploadTimeout) {
		msg := fmt.Sprintf("Image could not be uploaded, waited for %s", b.publisher.pollBudget)
		b.publisher.notify(model.NoticeWarning, msg, post)
	}
	return id, err
}

// DeletePost removes the remote post. Posts without a remote id and posts
// whose time has passed are left alone. Outside replace mode the deletion
// is logged and announced.
func (p *PostPublisher) DeletePost(ctx context.Context, post *model.ScheduledPost, replaceMode bool) error {
	if !post.HasRemotePost() || post.ScheduledTime.Before(p.now()) {
		return nil
	}
	lg := p.log.WithField("post_id", post.ID).WithField("remote_post_id", *post.RemotePostID)

	_, err := p.transport.Call(ctx, http.MethodDelete, p.endpoint+"/"+*post.RemotePostID, nil, nil)
	if err != nil {
		var te *hootsuite.TransportError
		if !errors.As(err, &te) || te.StatusCode != http.StatusNotFound {
			return err
		}
		lg.Warn("remote post already gone")
	}

	if !replaceMode {
		lg.WithField("profile", post.ProfileName).Info("deleted post")
		p.notify(model.NoticeInfo, fmt.Sprintf("Deleted post for %s.", post.ProfileName), post)
	}
	return nil
}

// validate reports whether the post may be sent. A skip with an empty
// message is silent.
func (p *PostPublisher) validate(post *model.ScheduledPost, content *model.Content) (string, bool) {
	if !content.IsPublished() {
		publishOn := content.PublishOnTime()
		if publishOn == nil || !publishOn.After(p.now()) {
			return fmt.Sprintf("Cannot schedule post for %s for unpublished entry.", post.ProfileName), false
		}
		if post.ScheduledTime.Before(*publishOn) {
			return fmt.Sprintf("Cannot schedule post for %s before the entry is being published.", post.ProfileName), false
		}
	}
	if post.ScheduledTime.Before(p.now()) {
		return "", false
	}
	return "", true
}

// forgetRemotePost clears the stored id of a post deleted in replace mode
// whose successor was not scheduled.
func (p *PostPublisher) forgetRemotePost(ctx context.Context, lg logrus.FieldLogger, post *model.ScheduledPost) {
	if err := p.posts.UpdateRemotePostID(ctx, post.ID, nil); err != nil {
		lg.WithField("error", err).Error("failed to clear remote post id")
	}
}

func (p *PostPublisher) fail(lg logrus.FieldLogger, post *model.ScheduledPost, msg string, err error) *model.PublishResult {
	lg.WithField("error", err).Error("publishing post failed")
	p.notify(model.NoticeError, msg, post)
	return &model.PublishResult{PostID: post.ID, ProfileID: post.ProfileID, Outcome: model.OutcomeFailed, Message: msg}
}

func (p *PostPublisher) notify(level model.NoticeLevel, msg string, post *model.ScheduledPost) {
	p.notices.Notify(model.Notice{Level: level, Message: msg, ContentID: post.ContentID, PostID: post.ID})
}

func skipped(post *model.ScheduledPost, msg string) *model.PublishResult {
	return &model.PublishResult{PostID: post.ID, ProfileID: post.ProfileID, Outcome: model.OutcomeSkipped, Message: msg}
}

func pinterestInfo(post *model.ScheduledPost, content *model.Content) (dto.ExtendedInfo, bool) {
	if post.PinterestBoard == nil || *post.PinterestBoard == "" {
		return dto.ExtendedInfo{}, false
	}
	destination := content.CanonicalURL()
	if post.PinterestURL != nil && *post.PinterestURL != "" {
		destination = *post.PinterestURL
	}
	return dto.ExtendedInfo{
		SocialProfileType: model.ProfileTypePinterest,
		SocialProfileID:   post.ProfileID,
		Data:              dto.PinterestData{BoardID: *post.PinterestBoard, DestinationURL: destination},
	}, true
}

func resolveText(template string, content *model.Content) string {
	return utils.PlainText(utils.ReplacePlaceholders(template, placeholderValues(content)))
}

func placeholderValues(content *model.Content) map[string]string {
	values := map[string]string{
		"content:id":      strconv.FormatInt(content.ID, 10),
		"content:title":   content.Title,
		"content:summary": content.Summary,
		"content:body":    content.Body,
		"content:url":     content.CanonicalURL(),
	}
	if content.ImageRef != nil {
		values["content:image"] = *content.ImageRef
	}
	return values
}

type discardNotices struct{}

func (discardNotices) Notify(model.Notice) {}
