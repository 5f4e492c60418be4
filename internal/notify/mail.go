package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// Mailer delivers the order email to a seller.
type Mailer interface {
	SendOrderEmail(ctx context.Context, to string, n OrderNotice) error
}

// ResendMailer sends through the Resend API.
type ResendMailer struct {
	client *resend.Client
	from   string
}

// NewResendMailer returns nil when no API key is configured.
func NewResendMailer(apiKey, from string) *ResendMailer {
	if apiKey == "" {
		return nil
	}
	return &ResendMailer{client: resend.NewClient(apiKey), from: from}
}

func (m *ResendMailer) SendOrderEmail(ctx context.Context, to string, n OrderNotice) error {
	if m == nil || to == "" {
		return nil
	}
	html, err := RenderOrderEmail(n)
	if err != nil {
		return err
	}
	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: OrderEmailSubject(n),
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	zap.L().Info("[Mail] order email sent", zap.String("order", n.OrderID), zap.String("id", sent.Id))
	return nil
}

func OrderEmailSubject(n OrderNotice) string {
	return fmt.Sprintf("New Order #%s - %s", n.OrderID, FormatNaira(n.Total))
}

var orderEmailTmpl = template.Must(template.New("order").Funcs(template.FuncMap{
	"naira": FormatNaira,
}).Parse(`<html><body style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;">
<div style="background:#4F46E5;color:white;padding:20px;text-align:center;"><h1 style="margin:0;">New Order Received!</h1></div>
<div style="padding:20px;background:#f9f9f9;">
<p><strong>Order:</strong> #{{.OrderID}}</p>
<p><strong>Customer:</strong> {{.BuyerName}}</p>
<p><strong>Phone:</strong> {{.BuyerPhone}}</p>
<p><strong>Address:</strong> {{.BuyerAddress}}</p>
{{if .BuyerNote}}<p><strong>Note:</strong> {{.BuyerNote}}</p>{{end}}
<h3>Items:</h3><ul>{{range .Items}}<li>{{.Name}} x{{.Quantity}} - {{naira .Price}}</li>{{end}}</ul>
<div style="background:#4F46E5;color:white;padding:15px;border-radius:8px;text-align:center;"><h2 style="margin:0;">Total: {{naira .Total}}</h2></div>
<p style="color:green;font-weight:bold;margin-top:20px;">Payment Confirmed</p>
</div>
</body></html>`))

// RenderOrderEmail builds the HTML body. Buyer-supplied fields are escaped.
func RenderOrderEmail(n OrderNotice) (string, error) {
	var buf bytes.Buffer
	if err := orderEmailTmpl.Execute(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
