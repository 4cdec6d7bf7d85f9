package models

import "time"

// Video is a bookmarked video in the watch queue.
type Video struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	Title     string `gorm:"size:255;not null"`
	Link      string `gorm:"size:1024;not null"`
	Watched   bool   `gorm:"index;not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
