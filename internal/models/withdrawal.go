package models

import (
	"time"

	"carty/internal/domain"

	"github.com/shopspring/decimal"
)

// Withdrawal is a payout to the store's bank account (wd_) or a one-off
// transfer to another account (tr_).
type Withdrawal struct {
	ID            uint                    `gorm:"primaryKey" json:"id"`
	StoreID       uint                    `gorm:"not null;index" json:"store_id"`
	Amount        decimal.Decimal         `gorm:"type:decimal(14,2);not null" json:"amount"`
	Reference     string                  `gorm:"uniqueIndex;size:64;not null" json:"reference"`
	Status        domain.WithdrawalStatus `gorm:"size:16;not null;index" json:"status"`
	AccountName   string                  `gorm:"size:255" json:"account_name"`
	TransferCode  string                  `gorm:"size:64" json:"-"`
	FailureReason string                  `gorm:"size:255" json:"failure_reason,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
	CompletedAt   *time.Time              `json:"completed_at"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}
