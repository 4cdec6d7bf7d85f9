package models

import "time"

// User represents the application user. The system is operated by a
// single admin; the first registered account gets the admin role.
type User struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"size:64;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	DisplayName  string    `gorm:"size:64"`
	Role         string    `gorm:"size:16;not null;default:user"` // admin / user
	CreatedAt    time.Time
	UpdatedAt    time.Time

	FailedLoginAttempts int        `gorm:"default:0"`
	LockedUntil         *time.Time `gorm:"index"`
	LastLoginAt         *time.Time
	LastLoginIP         string `gorm:"size:64"`
}

func (u *User) IsAdmin() bool { return u.Role == "admin" }
