package payment

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrRejected marks an explicit refusal by the provider (status=false on a
// 4xx response), as opposed to a transport failure.
var ErrRejected = errors.New("payment provider rejected request")

type PaymentRequest struct {
	Reference   string
	Email       string
	AmountKobo  int64
	CallbackURL string
	Metadata    map[string]interface{}
}

type PaymentResponse struct {
	Reference        string
	AuthorizationURL string
	AccessCode       string
}

// Verification is the provider's view of a transaction. Paid is true only
// when the transaction status is "success".
type Verification struct {
	Reference  string
	Status     string
	AmountKobo int64
	Paid       bool
	Message    string
}

type BankAccount struct {
	AccountNumber string
	AccountName   string
	BankCode      string
}

type Bank struct {
	Name string `json:"name"`
	Code string `json:"code"`
	Slug string `json:"slug"`
}

type TransferRequest struct {
	Reference     string
	RecipientCode string
	AmountKobo    int64
	Reason        string
}

type TransferResponse struct {
	TransferCode string
	Status       string
}

type Provider interface {
	InitiatePayment(ctx context.Context, req PaymentRequest) (*PaymentResponse, error)
	VerifyPayment(ctx context.Context, reference string) (*Verification, error)
}

type Payouts interface {
	// ListBanks takes a provider country name such as "nigeria".
	ListBanks(ctx context.Context, country string) ([]Bank, error)
	ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*BankAccount, error)
	CreateRecipient(ctx context.Context, acct BankAccount) (string, error)
	Transfer(ctx context.Context, req TransferRequest) (*TransferResponse, error)
}

// Gateway is the full provider surface used by the settlement services.
type Gateway interface {
	Provider
	Payouts
}

// ToKobo converts a naira amount to the provider's minor unit.
func ToKobo(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// FromKobo converts a minor-unit amount back to naira.
func FromKobo(kobo int64) decimal.Decimal {
	return decimal.New(kobo, -2)
}
