package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Content is an editorial content item that owns scheduled posts.
type Content struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Summary   string     `json:"summary"`
	Body      string     `json:"body"`
	Published bool       `json:"published"`
	PublishOn *time.Time `json:"publish_on,omitempty"`
	URL       string     `json:"url"`
	ImageRef  *string    `json:"image_ref,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (c *Content) IsPublished() bool { return c.Published }

func (c *Content) PublishOnTime() *time.Time { return c.PublishOn }

func (c *Content) CanonicalURL() string { return c.URL }

// ContentEvent is emitted by the editorial system when a content item is saved.
type ContentEvent struct {
	ContentID int64  `json:"content_id"`
	Action    string `json:"action"` // saved | deleted
}

// ParseContentEvent decodes an event payload. A missing action means saved.
func ParseContentEvent(data []byte) (ContentEvent, error) {
	var event ContentEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return ContentEvent{}, fmt.Errorf("decode content event: %w", err)
	}
	if event.ContentID <= 0 {
		return ContentEvent{}, fmt.Errorf("decode content event: invalid content_id %d", event.ContentID)
	}
	return event, nil
}
