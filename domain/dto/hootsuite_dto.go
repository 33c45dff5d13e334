package dto

import "hootsuite-publisher/domain/model"

// MessageRequest is the body posted to the message scheduling endpoint
type MessageRequest struct {
	Text              string         `json:"text"`
	SocialProfileIDs  []string       `json:"socialProfileIds"`
	ScheduledSendTime string         `json:"scheduledSendTime"`
	Media             []MediaRef     `json:"media,omitempty"`
	ExtendedInfo      []ExtendedInfo `json:"extendedInfo,omitempty"`
}

// MediaRef attaches an uploaded media id to a message
type MediaRef struct {
	ID string `json:"id"`
}

// ExtendedInfo carries network specific fields for one profile
type ExtendedInfo struct {
	SocialProfileType string        `json:"socialProfileType"`
	SocialProfileID   string        `json:"socialProfileId"`
	Data              PinterestData `json:"data"`
}

// PinterestData is the extended info Pinterest requires
type PinterestData struct {
	BoardID        string `json:"boardId"`
	DestinationURL string `json:"destinationUrl,omitempty"`
}

// MessageState is one element of the scheduling response
type MessageState struct {
	ID    string `json:"id"`
	State string `json:"state"`
}

// MessageResponse is the scheduling response envelope
type MessageResponse struct {
	Data []MessageState `json:"data"`
}

// MediaRegistrationRequest registers an upload with the provider
type MediaRegistrationRequest struct {
	MimeType  string `json:"mimeType"`
	SizeBytes int64  `json:"sizeBytes"`
}

// MediaResponse wraps a media registration or state lookup
type MediaResponse struct {
	Data model.RemoteMediaHandle `json:"data"`
}

// SocialProfilesResponse wraps the profile listing
type SocialProfilesResponse struct {
	Data []model.SocialProfile `json:"data"`
}

// PublishResponse is returned by the publish endpoint
type PublishResponse struct {
	ContentID int64                  `json:"content_id"`
	Results   []*model.PublishResult `json:"results"`
}

// AuthStatusResponse reports whether tokens are stored
type AuthStatusResponse struct {
	Connected        bool   `json:"connected"`
	AuthorizationURL string `json:"authorization_url,omitempty"`
	Message          string `json:"message,omitempty"`
}
