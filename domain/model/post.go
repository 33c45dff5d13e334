package model

import "time"

// ScheduledSendLayout is the naive UTC layout used for scheduled times.
const ScheduledSendLayout = "2006-01-02T15:04:05"

// ScheduledPost is one post for one social profile at a given time
// (an "assignment" in the editorial system).
type ScheduledPost struct {
	ID             int64     `json:"id"`
	ContentID      int64     `json:"content_id"`
	ProfileID      string    `json:"profile_id"`
	ProfileName    string    `json:"profile_name"`
	ProfileType    string    `json:"profile_type"` // TWITTER | FACEBOOK | PINTEREST | ...
	PostText       string    `json:"post_text"`
	ScheduledTime  time.Time `json:"scheduled_time"`
	ImageRef       *string   `json:"image_ref,omitempty"`
	PinterestBoard *string   `json:"pinterest_board,omitempty"`
	PinterestURL   *string   `json:"pinterest_url,omitempty"`
	RemotePostID   *string   `json:"remote_post_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (p *ScheduledPost) HasRemotePost() bool {
	return p.RemotePostID != nil && *p.RemotePostID != ""
}

func (p *ScheduledPost) HasImage() bool {
	return p.ImageRef != nil && *p.ImageRef != ""
}

// ScheduledSendTime renders the scheduled time the way the provider expects it.
func (p *ScheduledPost) ScheduledSendTime() string {
	return p.ScheduledTime.UTC().Format(ScheduledSendLayout) + "Z"
}

// Profile network types that need extra payload.
const (
	ProfileTypePinterest = "PINTEREST"
)

// Outcome is the tri-state result of publishing one post.
type Outcome string

const (
	OutcomeScheduled Outcome = "SCHEDULED"
	OutcomeSkipped   Outcome = "SKIPPED"
	OutcomeFailed    Outcome = "FAILED"
)

// PublishResult is the per-post result surfaced to callers.
type PublishResult struct {
	PostID       int64   `json:"post_id"`
	ProfileID    string  `json:"profile_id"`
	Outcome      Outcome `json:"outcome"`
	Message      string  `json:"message,omitempty"`
	RemotePostID *string `json:"remote_post_id,omitempty"`
}

// PublishAudit is an append-only log of publish attempts
type PublishAudit struct {
	ID           uint      `json:"id" bson:"-" gorm:"primaryKey"`
	PostID       int64     `json:"post_id" bson:"postId" gorm:"index"`
	ContentID    int64     `json:"content_id" bson:"contentId" gorm:"index"`
	ProfileID    string    `json:"profile_id" bson:"profileId" gorm:"size:128"`
	Outcome      string    `json:"outcome" bson:"outcome" gorm:"size:16"`
	Message      string    `json:"message" bson:"message"`
	RemotePostID *string   `json:"remote_post_id,omitempty" bson:"remotePostId,omitempty" gorm:"size:128"`
	CreatedAt    time.Time `json:"created_at" bson:"createdAt" gorm:"autoCreateTime;index"`
}

func (PublishAudit) TableName() string { return "publish_audit" }
