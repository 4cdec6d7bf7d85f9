package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	KindIncome  = "income"
	KindExpense = "expense"
)

// BalanceEntry represents a single income or expense record. Amounts
// are stored as decimals with two fractional digits. Income entries
// always carry TotalInstallments == 1; expense entries may be split
// into N monthly installments and optionally recur.
type BalanceEntry struct {
	ID                uint            `gorm:"primaryKey"`
	UserID            uint            `gorm:"index;not null"`
	Kind              string          `gorm:"size:16;index;not null"` // income / expense
	Category          string          `gorm:"size:64;not null"`
	Amount            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Date              time.Time       `gorm:"index;not null"` // month granularity in practice
	Note              string          `gorm:"size:255"`
	TotalInstallments int             `gorm:"not null;default:1"`
	IsCompleted       bool            `gorm:"not null;default:false"`
	IsRecurring       bool            `gorm:"not null;default:false"`
	AddedByAdmin      bool            `gorm:"not null;default:false"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// UserTotalBalance holds one running net total per user, created lazily
// on the first balance mutation.
type UserTotalBalance struct {
	ID          uint            `gorm:"primaryKey"`
	UserID      uint            `gorm:"uniqueIndex;not null"`
	TotalIncome decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	UpdatedAt   time.Time
}
