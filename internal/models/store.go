package models

import (
	"time"

	"carty/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Store is a merchant storefront. WalletBalance, PendingBalance and
// TotalEarnings form the store ledger; they are only changed through relative
// updates in repository.StoreRepository.
type Store struct {
	ID                  uint                      `gorm:"primaryKey" json:"id"`
	UserID              uint                      `gorm:"uniqueIndex;not null" json:"user_id"`
	Name                string                    `gorm:"size:128;not null" json:"name"`
	Slug                string                    `gorm:"uniqueIndex;size:160;not null" json:"slug"`
	Logo                string                    `gorm:"size:512" json:"logo"`
	WhatsAppNumber      string                    `gorm:"column:whatsapp_number;size:32" json:"whatsapp_number"`
	Email               string                    `gorm:"size:255" json:"email"`
	WalletBalance       decimal.Decimal           `gorm:"type:decimal(14,2);not null;default:0" json:"wallet_balance"`
	PendingBalance      decimal.Decimal           `gorm:"type:decimal(14,2);not null;default:0" json:"pending_balance"`
	TotalEarnings       decimal.Decimal           `gorm:"type:decimal(14,2);not null;default:0" json:"total_earnings"`
	SubscriptionStatus  domain.SubscriptionStatus `gorm:"size:16;not null;default:'inactive'" json:"subscription_status"`
	SubscriptionEndDate *time.Time                `json:"subscription_end_date"`
	BankName            string                    `gorm:"size:128" json:"bank_name"`
	BankCode            string                    `gorm:"size:32" json:"-"`
	BankAccountNumber   string                    `gorm:"size:32" json:"bank_account_number"`
	BankAccountName     string                    `gorm:"size:255" json:"bank_account_name"`
	RecipientCode       string                    `gorm:"size:64" json:"-"`
	CreatedAt           time.Time                 `json:"created_at"`
	UpdatedAt           time.Time                 `json:"updated_at"`
	DeletedAt           gorm.DeletedAt            `gorm:"index" json:"-"`
}

func (Store) TableName() string {
	return "stores"
}

func (s *Store) IsSubscribed() bool { return s.SubscriptionStatus == domain.SubscriptionActive }

func (s *Store) HasBankLinked() bool { return s.RecipientCode != "" }
