package model

import "time"

type Message struct {
	ID         uint64 `gorm:"primaryKey"`
	SenderID   uint64 `gorm:"not null;index:idx_msg_sender"`
	ReceiverID uint64 `gorm:"not null;index:idx_msg_receiver"`
	Content    string `gorm:"type:text;not null"`
	MediaURL   string `gorm:"size:255"`
	IsRead     bool   `gorm:"not null;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Message) TableName() string { return "messages" }
