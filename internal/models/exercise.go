package models

import "time"

// Exercise is one movement in a weekly routine, keyed by a day label.
type Exercise struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	Name      string `gorm:"size:128;not null"`
	Day       string `gorm:"size:16;index;not null"` // e.g. "monday"
	Sets      int    `gorm:"not null;default:0"`
	Reps      int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
