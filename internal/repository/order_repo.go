package repository

import (
	"time"

	"carty/internal/domain"
	"carty/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{db: tx}
}

func (r *OrderRepository) Create(o *models.Order) error {
	return r.db.Create(o).Error
}

func (r *OrderRepository) GetByReference(ref string) (*models.Order, error) {
	var o models.Order
	err := r.db.Where("payment_reference = ?", ref).First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) ListByStore(storeID uint, limit, offset int) ([]models.Order, error) {
	var list []models.Order
	err := r.db.Where("store_id = ?", storeID).Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// MarkCompleted moves the order from pending to completed. It reports false
// when another caller already did.
func (r *OrderRepository) MarkCompleted(ref string, paidAt time.Time) (bool, error) {
	res := r.db.Model(&models.Order{}).
		Where("payment_reference = ? AND status = ?", ref, domain.OrderPending).
		Updates(map[string]interface{}{"status": domain.OrderCompleted, "paid_at": paidAt})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

type OrderStats struct {
	Count int64
	Total decimal.Decimal
}

// CompletedStats sums the completed orders of a store.
func (r *OrderRepository) CompletedStats(storeID uint) (*OrderStats, error) {
	var row struct {
		Count int64
		Total decimal.NullDecimal
	}
	err := r.db.Model(&models.Order{}).
		Select("COUNT(*) AS count, SUM(total_amount) AS total").
		Where("store_id = ? AND status = ?", storeID, domain.OrderCompleted).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &OrderStats{Count: row.Count, Total: row.Total.Decimal}, nil
}
