package repository

import (
	"time"

	"carty/internal/models"

	"gorm.io/gorm"
)

const (
	defaultInboxLimit = 20
	maxInboxLimit     = 100
)

// InboxPage selects a window of a seller's inbox, newest first.
type InboxPage struct {
	Limit  int
	Offset int
}

// Bounded clamps the page to the inbox limits.
func (p InboxPage) Bounded() InboxPage {
	if p.Limit <= 0 || p.Limit > maxInboxLimit {
		p.Limit = defaultInboxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// NotificationRepository is the seller inbox. Every read and write is scoped
// to the owning user.
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *models.Notification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepository) ListForSeller(userID uint, page InboxPage) ([]models.Notification, error) {
	page = page.Bounded()
	var list []models.Notification
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(page.Limit).Offset(page.Offset).
		Find(&list).Error
	return list, err
}

func (r *NotificationRepository) UnreadCount(userID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.Notification{}).Where("user_id = ? AND read_at IS NULL", userID).Count(&n).Error
	return n, err
}

// MarkRead stamps one notification. It reports false when the seller owns no
// unread notification with that id.
func (r *NotificationRepository) MarkRead(id, userID uint, at time.Time) (bool, error) {
	res := r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", id, userID).
		Update("read_at", at)
	return res.RowsAffected == 1, res.Error
}

func (r *NotificationRepository) MarkAllRead(userID uint, at time.Time) (int64, error) {
	res := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", at)
	return res.RowsAffected, res.Error
}
