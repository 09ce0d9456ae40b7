package model

import "time"

type FollowStatus string

const (
	FollowStatusPending  FollowStatus = "pending"
	FollowStatusAccepted FollowStatus = "accepted"
	FollowStatusRejected FollowStatus = "rejected"
)

// Follow is a directed edge: FollowerID wants to follow FollowingID.
// A mutual connection exists when both directions are accepted; acceptance
// materializes the reciprocal edge so reads never have to check the reverse
// direction.
type Follow struct {
	ID          uint64       `gorm:"primaryKey"`
	FollowerID  uint64       `gorm:"not null;index:idx_follower_id;uniqueIndex:uk_follow_pair"`
	FollowingID uint64       `gorm:"not null;index:idx_following_id;uniqueIndex:uk_follow_pair"`
	Status      FollowStatus `gorm:"size:16;not null;default:'pending'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Follow) TableName() string { return "follows" }

// SocialOutbox holds follow events pending delivery to the message broker.
type SocialOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	EventType string `gorm:"size:32;not null"` // follow.requested / follow.accepted / follow.rejected / follow.removed
	Follower  uint64 `gorm:"not null"`
	Following uint64 `gorm:"not null"`
	Payload   string `gorm:"type:json;not null"`
	Status    int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SocialOutbox) TableName() string { return "social_outbox" }
