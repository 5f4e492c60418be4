package service

import (
	"carty/internal/domain"
	"carty/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ledger applies balance changes to a store. Every change is a single
// relative UPDATE so concurrent writers cannot lose each other's updates.
type Ledger struct {
	stores *repository.StoreRepository
}

func NewLedger(stores *repository.StoreRepository) *Ledger {
	return &Ledger{stores: stores}
}

// WithTx binds the ledger to an open transaction.
func (l *Ledger) WithTx(tx *gorm.DB) *Ledger {
	return &Ledger{stores: l.stores.WithTx(tx)}
}

// CreditSale adds a settled sale to wallet_balance and total_earnings.
func (l *Ledger) CreditSale(storeID uint, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	return notFound(l.stores.CreditSale(storeID, amount), "store")
}

// Debit takes a payout out of wallet_balance. Amounts under the minimum and
// amounts the balance cannot cover are rejected without touching the row.
func (l *Ledger) Debit(storeID uint, amount decimal.Decimal) error {
	if err := ValidatePayoutAmount(amount); err != nil {
		return err
	}
	return ledgerErr(l.stores.Debit(storeID, amount))
}

// Refund returns a failed payout to wallet_balance.
func (l *Ledger) Refund(storeID uint, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	return notFound(l.stores.Refund(storeID, amount), "store")
}

func ValidatePayoutAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.LessThan(domain.MinimumPayout) {
		return ErrBelowMinimum
	}
	return nil
}
