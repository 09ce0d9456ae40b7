package model

import "time"

type User struct {
	ID                uint64 `gorm:"primaryKey"`
	Username          string `gorm:"uniqueIndex;size:32;not null"`
	Email             string `gorm:"uniqueIndex;size:64;not null"`
	Password          string `gorm:"size:255;not null" json:"-"`
	Bio               string `gorm:"type:text"`
	ProfilePictureURL string `gorm:"size:255"`
	IsPrivate         bool   `gorm:"not null;default:false"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (User) TableName() string { return "users" }
