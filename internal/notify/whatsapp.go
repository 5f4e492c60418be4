package notify

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeNGPhone keeps digits and puts the number in 234XXXXXXXXXX form.
func NormalizeNGPhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	switch {
	case strings.HasPrefix(clean, "0"):
		return "234" + clean[1:]
	case strings.HasPrefix(clean, "234"):
		return clean
	default:
		return "234" + clean
	}
}

// ChatLink opens a WhatsApp chat with the store, no prefilled text.
func ChatLink(phone string) string {
	return "https://wa.me/" + NormalizeNGPhone(phone)
}

// OrderMessage is the prefilled WhatsApp text sent to the seller.
func OrderMessage(n OrderNotice) string {
	var b strings.Builder
	b.WriteString("NEW ORDER!\n\n")
	fmt.Fprintf(&b, "Customer: %s\n", orNA(n.BuyerName))
	fmt.Fprintf(&b, "Phone: %s\n", orNA(n.BuyerPhone))
	fmt.Fprintf(&b, "Address: %s\n", orNA(n.BuyerAddress))
	if n.BuyerNote != "" {
		fmt.Fprintf(&b, "Note: %s\n", n.BuyerNote)
	}
	b.WriteString("Items:")
	for _, it := range n.Items {
		fmt.Fprintf(&b, "\n- %s x%d", it.Name, it.Quantity)
	}
	fmt.Fprintf(&b, "\n\nTotal: %s\n", FormatNaira(n.Total))
	fmt.Fprintf(&b, "Order: #%s\n", orNA(n.OrderID))
	b.WriteString("Payment Confirmed")
	return b.String()
}

// OrderLink is the wa.me deep link that opens a chat with the seller with
// the order text prefilled.
func OrderLink(phone string, n OrderNotice) string {
	text := strings.ReplaceAll(url.QueryEscape(OrderMessage(n)), "+", "%20")
	return ChatLink(phone) + "?text=" + text
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
