package model

import "io"

// MediaAsset is a local file that can be attached to a post.
type MediaAsset struct {
	LocalID  string
	MimeType string
	ByteSize int64
	LocalURI string
	Open     func() (io.ReadCloser, error)
}

type MediaState string

const (
	MediaStatePending MediaState = "PENDING"
	MediaStateReady   MediaState = "READY"
)

// RemoteMediaHandle is the provider-side record of a registered media upload.
type RemoteMediaHandle struct {
	MediaID   string     `json:"id"`
	UploadURL string     `json:"uploadUrl"`
	State     MediaState `json:"state"`
}
