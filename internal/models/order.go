package models

import (
	"strings"
	"time"

	"carty/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OrderItem is a line item snapshot taken at checkout. Price is the line
// total (unit price x quantity).
type OrderItem struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type Order struct {
	ID               string                          `gorm:"primaryKey;size:36" json:"id"`
	StoreID          uint                            `gorm:"not null;index" json:"store_id"`
	BuyerName        string                          `gorm:"size:255;not null" json:"buyer_name"`
	BuyerPhone       string                          `gorm:"size:32;not null" json:"buyer_phone"`
	BuyerAddress     string                          `gorm:"type:text" json:"buyer_address"`
	BuyerNote        string                          `gorm:"type:text" json:"buyer_note"`
	Items            datatypes.JSONSlice[OrderItem]  `json:"items"`
	TotalAmount      decimal.Decimal                 `gorm:"type:decimal(14,2);not null" json:"total_amount"`
	PaymentReference string                          `gorm:"uniqueIndex;size:64;not null" json:"payment_reference"`
	Status           domain.OrderStatus              `gorm:"size:16;not null;index" json:"status"`
	PaidAt           *time.Time                      `json:"paid_at"`
	CreatedAt        time.Time                       `json:"created_at"`
	UpdatedAt        time.Time                       `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// ShortID is the human-facing order number used in seller notifications.
func (o *Order) ShortID() string {
	id := o.ID
	if len(id) > 6 {
		id = id[len(id)-6:]
	}
	return strings.ToUpper(id)
}
