package models

import "time"

// Todo is a simple user task.
type Todo struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	Title     string `gorm:"size:255;not null"`
	Note      string `gorm:"size:1024"`
	Done      bool   `gorm:"index;not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
