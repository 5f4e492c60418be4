package models

import "time"

// PendingSubscription stages a subscription checkout until it is resolved.
// The row is deleted on success; its absence marks the reference as settled.
type PendingSubscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StoreID   uint      `gorm:"not null;index" json:"store_id"`
	Reference string    `gorm:"uniqueIndex;size:64;not null" json:"reference"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (PendingSubscription) TableName() string {
	return "pending_subscriptions"
}
