package model

import "time"

type Post struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index:idx_post_community"`
	AuthorID    uint64 `gorm:"not null;index:idx_post_author"`
	Content     string `gorm:"type:text;not null"`
	MediaURL    string `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Post) TableName() string { return "posts" }
