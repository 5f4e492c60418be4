package repository

import (
	"errors"
	"time"

	"carty/internal/domain"
	"carty/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrInsufficientBalance = errors.New("insufficient wallet balance")

// StoreRepository owns the store row, including its ledger columns. Balance
// changes are relative SQL expressions so concurrent writers never overwrite
// each other.
type StoreRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) *StoreRepository {
	return &StoreRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *StoreRepository) WithTx(tx *gorm.DB) *StoreRepository {
	return &StoreRepository{db: tx}
}

func (r *StoreRepository) Create(s *models.Store) error {
	return r.db.Create(s).Error
}

func (r *StoreRepository) GetByID(id uint) (*models.Store, error) {
	var s models.Store
	err := r.db.First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StoreRepository) GetBySlug(slug string) (*models.Store, error) {
	var s models.Store
	err := r.db.Where("slug = ?", slug).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StoreRepository) GetByUserID(userID uint) (*models.Store, error) {
	var s models.Store
	err := r.db.Where("user_id = ?", userID).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StoreRepository) SlugExists(slug string) (bool, error) {
	var n int64
	err := r.db.Model(&models.Store{}).Where("slug = ?", slug).Count(&n).Error
	return n > 0, err
}

// CreditSale adds a settled sale to wallet_balance and total_earnings.
func (r *StoreRepository) CreditSale(storeID uint, amount decimal.Decimal) error {
	res := r.db.Model(&models.Store{}).Where("id = ?", storeID).Updates(map[string]interface{}{
		"wallet_balance": gorm.Expr("wallet_balance + ?", amount),
		"total_earnings": gorm.Expr("total_earnings + ?", amount),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Debit removes amount from wallet_balance only if the balance covers it.
func (r *StoreRepository) Debit(storeID uint, amount decimal.Decimal) error {
	res := r.db.Model(&models.Store{}).
		Where("id = ? AND wallet_balance >= ?", storeID, amount).
		Update("wallet_balance", gorm.Expr("wallet_balance - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientBalance
	}
	return nil
}

// Refund returns a failed payout to wallet_balance. total_earnings is not
// touched: the money was earned once already.
func (r *StoreRepository) Refund(storeID uint, amount decimal.Decimal) error {
	res := r.db.Model(&models.Store{}).Where("id = ?", storeID).
		Update("wallet_balance", gorm.Expr("wallet_balance + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *StoreRepository) ActivateSubscription(storeID uint, endDate time.Time) error {
	return r.db.Model(&models.Store{}).Where("id = ?", storeID).Updates(map[string]interface{}{
		"subscription_status":   domain.SubscriptionActive,
		"subscription_end_date": endDate,
	}).Error
}

// ExpireSubscriptions deactivates every active store whose period ended before now.
func (r *StoreRepository) ExpireSubscriptions(now time.Time) (int64, error) {
	res := r.db.Model(&models.Store{}).
		Where("subscription_status = ? AND subscription_end_date < ?", domain.SubscriptionActive, now).
		Update("subscription_status", domain.SubscriptionInactive)
	return res.RowsAffected, res.Error
}

type BankLink struct {
	BankName      string
	BankCode      string
	AccountNumber string
	AccountName   string
	RecipientCode string
}

func (r *StoreRepository) LinkBank(storeID uint, b BankLink) error {
	return r.db.Model(&models.Store{}).Where("id = ?", storeID).Updates(map[string]interface{}{
		"bank_name":           b.BankName,
		"bank_code":           b.BankCode,
		"bank_account_number": b.AccountNumber,
		"bank_account_name":   b.AccountName,
		"recipient_code":      b.RecipientCode,
	}).Error
}

func (r *StoreRepository) UnlinkBank(storeID uint) error {
	return r.LinkBank(storeID, BankLink{})
}

func (r *StoreRepository) Update(s *models.Store) error {
	return r.db.Model(s).Select("name", "logo", "whatsapp_number", "email").Updates(s).Error
}
