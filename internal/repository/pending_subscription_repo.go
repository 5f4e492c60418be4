package repository

import (
	"carty/internal/models"

	"gorm.io/gorm"
)

type PendingSubscriptionRepository struct {
	db *gorm.DB
}

func NewPendingSubscriptionRepository(db *gorm.DB) *PendingSubscriptionRepository {
	return &PendingSubscriptionRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *PendingSubscriptionRepository) WithTx(tx *gorm.DB) *PendingSubscriptionRepository {
	return &PendingSubscriptionRepository{db: tx}
}

func (r *PendingSubscriptionRepository) Create(p *models.PendingSubscription) error {
	return r.db.Create(p).Error
}

func (r *PendingSubscriptionRepository) GetByReference(ref string) (*models.PendingSubscription, error) {
	var p models.PendingSubscription
	err := r.db.Where("reference = ?", ref).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Claim deletes the staging row for ref. Only the caller that gets true may
// activate the subscription.
func (r *PendingSubscriptionRepository) Claim(ref string) (bool, error) {
	res := r.db.Where("reference = ?", ref).Delete(&models.PendingSubscription{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
