package model

import "time"

type CommunityPrivacy string

const (
	PrivacyPublic  CommunityPrivacy = "public"
	PrivacyPrivate CommunityPrivacy = "private"
)

type Community struct {
	ID          uint64           `gorm:"primaryKey"`
	Name        string           `gorm:"uniqueIndex;size:64;not null"`
	Description string           `gorm:"type:text"`
	CreatorID   uint64           `gorm:"not null;index"`
	Privacy     CommunityPrivacy `gorm:"size:16;not null;default:'public'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Community) TableName() string { return "communities" }

// CommunityMember binds a user to a community with a role. Role values are
// the closed set defined in internal/permission.
type CommunityMember struct {
	ID          uint64    `gorm:"primaryKey"`
	CommunityID uint64    `gorm:"not null;index;uniqueIndex:uk_community_user"`
	UserID      uint64    `gorm:"not null;index;uniqueIndex:uk_community_user"`
	Role        string    `gorm:"size:16;not null;default:'member'"`
	JoinedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time
}

func (CommunityMember) TableName() string { return "community_members" }
