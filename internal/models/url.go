package models

import "time"

// Url is a crawled page awaiting manual SEO review. It is tied to its
// site by domain name rather than a foreign key; the (domain, address)
// pair is unique so a bulk insert with a duplicate rolls back whole.
type Url struct {
	ID         uint   `gorm:"primaryKey"`
	DomainName string `gorm:"size:255;not null;uniqueIndex:idx_domain_address"`
	Address    string `gorm:"size:1024;not null;uniqueIndex:idx_domain_address"`
	Reviewed   bool   `gorm:"index;not null;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
