package repository

import (
	"context"
	"errors"
	"io"

	"hootsuite-publisher/domain/model"
)

// IHootsuiteTransport sends authenticated calls to the Hootsuite API.
type IHootsuiteTransport interface {
	Call(ctx context.Context, method, endpoint string, params, body interface{}) ([]byte, error)
	Upload(ctx context.Context, uploadURL, mimeType string, size int64, r io.Reader) error
}

// IHootsuiteAuth runs the OAuth2 authorization code flow.
type IHootsuiteAuth interface {
	AuthorizationURL() string
	AuthorizationURLWithState(state string) string
	ExchangeCode(ctx context.Context, code string) (model.TokenPair, error)
}

// ErrMediaNotFound means a media reference resolves to no file.
var ErrMediaNotFound = errors.New("media not found")

// IFileStore resolves local media references for upload.
type IFileStore interface {
	Resolve(ctx context.Context, ref string) (*model.MediaAsset, error)
}

// INotificationSink receives user-facing notices. Delivery is best effort.
type INotificationSink interface {
	Notify(notice model.Notice)
}
