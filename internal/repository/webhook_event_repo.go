package repository

import (
	"time"

	"carty/internal/models"

	"gorm.io/gorm"
)

type WebhookEventRepository struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) *WebhookEventRepository {
	return &WebhookEventRepository{db: db}
}

func (r *WebhookEventRepository) Create(e *models.WebhookEvent) error {
	return r.db.Create(e).Error
}

func (r *WebhookEventRepository) MarkProcessed(id uint, procErr error) error {
	msg := ""
	if procErr != nil {
		msg = procErr.Error()
	}
	return r.db.Model(&models.WebhookEvent{}).Where("id = ?", id).Updates(map[string]interface{}{
		"processed_at":     time.Now(),
		"processing_error": msg,
	}).Error
}

func (r *WebhookEventRepository) ListByReference(ref string) ([]models.WebhookEvent, error) {
	var list []models.WebhookEvent
	err := r.db.Where("reference = ?", ref).Order("id ASC").Find(&list).Error
	return list, err
}
