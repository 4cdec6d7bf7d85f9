package models

import "time"

// Session stores refresh-token sessions (for logout, rotation, audit).
type Session struct {
	ID           string    `gorm:"primaryKey;size:64"` // UUID
	UserID       uint      `gorm:"index;not null"`
	RefreshToken string    `gorm:"size:128;uniqueIndex;not null"`
	ExpiresAt    time.Time `gorm:"index;not null"`
	Revoked      bool      `gorm:"index;not null"`
	CreatedAt    time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
