package model

// SocialProfile is a connected social network account at the provider.
type SocialProfile struct {
	ID          string `json:"id"`
	NetworkType string `json:"type"`
	Username    string `json:"socialNetworkUsername"`
}

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a user-facing message raised while publishing.
type Notice struct {
	Level     NoticeLevel `json:"level"`
	Message   string      `json:"message"`
	ContentID int64       `json:"content_id,omitempty"`
	PostID    int64       `json:"post_id,omitempty"`
}
