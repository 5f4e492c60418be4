package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Phone        string         `gorm:"uniqueIndex;size:32;not null" json:"phone"`
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	Country      string         `gorm:"size:2;default:'NG'" json:"country"`
	State        string         `gorm:"size:64" json:"state"`
	FCMToken     string         `gorm:"size:512" json:"-"` // For push notifications
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Store *Store `gorm:"foreignKey:UserID" json:"store,omitempty"`
}

func (User) TableName() string {
	return "users"
}
