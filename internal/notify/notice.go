// Package notify renders seller-facing order notices for email and WhatsApp.
package notify

import (
	"carty/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// OrderNotice is what a seller is told about a paid order.
type OrderNotice struct {
	OrderID      string
	BuyerName    string
	BuyerPhone   string
	BuyerAddress string
	BuyerNote    string
	Items        []models.OrderItem
	Total        decimal.Decimal
}

func NewOrderNotice(o *models.Order) OrderNotice {
	return OrderNotice{
		OrderID:      o.ShortID(),
		BuyerName:    o.BuyerName,
		BuyerPhone:   o.BuyerPhone,
		BuyerAddress: o.BuyerAddress,
		BuyerNote:    o.BuyerNote,
		Items:        o.Items,
		Total:        o.TotalAmount,
	}
}

var printer = message.NewPrinter(language.English)

// FormatNaira renders an amount as ₦1,234.50.
func FormatNaira(amount decimal.Decimal) string {
	return printer.Sprintf("₦%.2f", amount.Round(2).InexactFloat64())
}
