package models

import "time"

// WebhookEvent stores every signature-verified provider webhook for audit and
// replay.
type WebhookEvent struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Event           string     `gorm:"size:64;not null;index" json:"event"`
	Reference       string     `gorm:"size:64;index" json:"reference"`
	Payload         string     `gorm:"type:text;not null" json:"payload"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
	ProcessingError string     `gorm:"type:text" json:"processing_error"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (WebhookEvent) TableName() string {
	return "webhook_events"
}
