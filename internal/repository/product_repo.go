package repository

import (
	"carty/internal/models"

	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(p *models.Product) error {
	return r.db.Create(p).Error
}

func (r *ProductRepository) ListByStore(storeID uint, activeOnly bool) ([]models.Product, error) {
	var list []models.Product
	q := r.db.Where("store_id = ?", storeID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Order("created_at DESC").Find(&list).Error
	return list, err
}

// GetForStore returns the active products of storeID among ids, keyed by id.
func (r *ProductRepository) GetForStore(storeID uint, ids []uint) (map[uint]models.Product, error) {
	var list []models.Product
	err := r.db.Where("store_id = ? AND id IN ? AND is_active = ?", storeID, ids, true).Find(&list).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]models.Product, len(list))
	for _, p := range list {
		out[p.ID] = p
	}
	return out, nil
}

func (r *ProductRepository) GetByIDForStore(id, storeID uint) (*models.Product, error) {
	var p models.Product
	err := r.db.Where("id = ? AND store_id = ?", id, storeID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) Update(p *models.Product) error {
	return r.db.Save(p).Error
}

func (r *ProductRepository) Delete(id, storeID uint) (bool, error) {
	res := r.db.Where("id = ? AND store_id = ?", id, storeID).Delete(&models.Product{})
	return res.RowsAffected == 1, res.Error
}

func (r *ProductRepository) CountByStore(storeID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.Product{}).Where("store_id = ?", storeID).Count(&n).Error
	return n, err
}
