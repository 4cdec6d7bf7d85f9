package models

import "time"

// Site is a tracked domain in the SEO review workflow. The page
// counters are kept consistent with Url row mutations inside the same
// database transaction.
type Site struct {
	ID               uint   `gorm:"primaryKey"`
	Name             string `gorm:"size:255;uniqueIndex;not null"` // domain name
	MonthlyVisitors  int64  `gorm:"not null;default:0"`
	NotReviewedPages int64  `gorm:"not null;default:0"`
	ReviewedPages    int64  `gorm:"not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Language is a vocabulary entry attached to sites.
type Language struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"size:8;uniqueIndex;not null" json:"code"` // e.g. "en", "tr"
	CreatedAt time.Time `json:"-"`
}

// Category is a vocabulary entry attached to sites.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:64;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"-"`
}

// SiteLanguage and SiteCategory are explicit join tables. Associations
// are queried through explicit functions rather than ORM association
// magic.
type SiteLanguage struct {
	SiteID     uint `gorm:"primaryKey;autoIncrement:false"`
	LanguageID uint `gorm:"primaryKey;autoIncrement:false"`
}

type SiteCategory struct {
	SiteID     uint `gorm:"primaryKey;autoIncrement:false"`
	CategoryID uint `gorm:"primaryKey;autoIncrement:false"`
}
