package repository

import (
	"time"
	"unicode/utf8"

	"carty/internal/domain"
	"carty/internal/models"

	"gorm.io/gorm"
)

type WithdrawalRepository struct {
	db *gorm.DB
}

func NewWithdrawalRepository(db *gorm.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *WithdrawalRepository) WithTx(tx *gorm.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: tx}
}

func (r *WithdrawalRepository) Create(w *models.Withdrawal) error {
	return r.db.Create(w).Error
}

func (r *WithdrawalRepository) GetByReference(ref string) (*models.Withdrawal, error) {
	var w models.Withdrawal
	err := r.db.Where("reference = ?", ref).First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WithdrawalRepository) ListByStore(storeID uint, limit int) ([]models.Withdrawal, error) {
	var list []models.Withdrawal
	err := r.db.Where("store_id = ?", storeID).Order("created_at DESC").Limit(limit).Find(&list).Error
	return list, err
}

func (r *WithdrawalRepository) SetTransferCode(ref, code string) error {
	return r.db.Model(&models.Withdrawal{}).Where("reference = ?", ref).Update("transfer_code", code).Error
}

// Resolve moves a pending withdrawal to a terminal status. It reports false
// when the withdrawal was already resolved.
func (r *WithdrawalRepository) Resolve(ref string, status domain.WithdrawalStatus, reason string, at time.Time) (bool, error) {
	updates := map[string]interface{}{"status": status, "failure_reason": truncateRunes(reason, maxReasonLen)}
	if status == domain.WithdrawalSuccess {
		updates["completed_at"] = at
	}
	res := r.db.Model(&models.Withdrawal{}).
		Where("reference = ? AND status = ?", ref, domain.WithdrawalPending).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

const maxReasonLen = 255

// truncateRunes cuts s to at most n characters without splitting a rune.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
