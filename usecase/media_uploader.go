package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"hootsuite-publisher/domain/dto"
	"hootsuite-publisher/domain/model"
	"hootsuite-publisher/domain/repository"
	"hootsuite-publisher/infrastructure/clients/hootsuite"

	"github.com/sirupsen/logrus"
)

const (
	DefaultPollAttempts = 20
	DefaultPollInterval = time.Second
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// MediaPolling bounds how long an upload may take to become READY.
type MediaPolling struct {
	Attempts int
	Interval time.Duration
	Sleep    SleepFunc
}

func (p MediaPolling) withDefaults() MediaPolling {
	if p.Attempts <= 0 {
		p.Attempts = DefaultPollAttempts
	}
	if p.Interval <= 0 {
		p.Interval = DefaultPollInterval
	}
	if p.Sleep == nil {
		p.Sleep = sleepContext
	}
	return p
}

type IMediaUploader interface {
	RegisterAndUpload(ctx context.Context, asset *model.MediaAsset) (string, error)
}

// mediaUploader caches media ids by local asset id. One instance serves
// one publishing batch and is not safe for concurrent use.
type mediaUploader struct {
	transport repository.IHootsuiteTransport
	endpoint  string
	polling   MediaPolling
	log       logrus.FieldLogger
	cache     map[string]string
}

func NewMediaUploader(transport repository.IHootsuiteTransport, endpoint string, polling MediaPolling, log logrus.FieldLogger) IMediaUploader {
	return &mediaUploader{
		transport: transport,
		endpoint:  strings.TrimSuffix(endpoint, "/"),
		polling:   polling.withDefaults(),
		log:       log,
		cache:     make(map[string]string),
	}
}

// RegisterAndUpload registers the asset, pushes its bytes and waits until
// the provider reports it READY.
func (u *mediaUploader) RegisterAndUpload(ctx context.Context, asset *model.MediaAsset) (string, error) {
	if id, ok := u.cache[asset.LocalID]; ok {
		return id, nil
	}
	lg := u.log.WithField("asset", asset.LocalID)

	raw, err := u.transport.Call(ctx, http.MethodPost, u.endpoint, nil, dto.MediaRegistrationRequest{
		MimeType:  asset.MimeType,
		SizeBytes: asset.ByteSize,
	})
	if err != nil {
		return "", fmt.Errorf("register media: %w", err)
	}
	var registered dto.MediaResponse
	if err := json.Unmarshal(raw, &registered); err != nil {
		return "", fmt.Errorf("decode media registration: %w", err)
	}
	handle := registered.Data
	if handle.MediaID == "" || handle.UploadURL == "" {
		return "", fmt.Errorf("media registration returned no id or upload url")
	}

	if err := u.upload(ctx, asset, handle.UploadURL); err != nil {
		lg.WithField("error", err).Error("media upload failed")
		return "", err
	}

	if err := u.waitReady(ctx, handle.MediaID); err != nil {
		return "", err
	}
	lg.WithField("media_id", handle.MediaID).Info("media ready")

	u.cache[asset.LocalID] = handle.MediaID
	return handle.MediaID, nil
}

func (u *mediaUploader) upload(ctx context.Context, asset *model.MediaAsset, uploadURL string) error {
	r, err := asset.Open()
	if err != nil {
		return fmt.Errorf("open media %s: %w", asset.LocalURI, err)
	}
	defer r.Close()
	return u.transport.Upload(ctx, uploadURL, asset.MimeType, asset.ByteSize, r)
}

func (u *mediaUploader) waitReady(ctx context.Context, mediaID string) error {
	for attempt := 1; attempt <= u.polling.Attempts; attempt++ {
		if err := u.polling.Sleep(ctx, u.polling.Interval); err != nil {
			return err
		}
		raw, err := u.transport.Call(ctx, http.MethodGet, u.endpoint+"/"+mediaID, nil, nil)
		if err != nil {
			return fmt.Errorf("poll media %s: %w", mediaID, err)
		}
		var state dto.MediaResponse
		if err := json.Unmarshal(raw, &state); err != nil {
			return fmt.Errorf("decode media state: %w", err)
		}
		if state.Data.State == model.MediaStateReady {
			return nil
		}
	}
	u.log.WithField("media_id", mediaID).WithField("attempts", u.polling.Attempts).
		Warn("timeout on ready state for media")
	return fmt.Errorf("%w: media %s after %d attempts", hootsuite.ErrUploadTimeout, mediaID, u.polling.Attempts)
}
