package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// PaystackProvider talks to the Paystack REST API with a secret-key bearer token.
type PaystackProvider struct {
	BaseURL   string
	SecretKey string
	Currency  string
	client    *http.Client
}

func NewPaystackProvider(baseURL, secretKey, currency string, timeout time.Duration) *PaystackProvider {
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}
	if currency == "" {
		currency = "NGN"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &PaystackProvider{
		BaseURL:   baseURL,
		SecretKey: secretKey,
		Currency:  currency,
		client:    &http.Client{Timeout: timeout},
	}
}

// paystackEnvelope is the common response shape: {status, message, data}.
type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// ProviderError is an explicit status=false answer from Paystack.
type ProviderError struct {
	HTTPStatus int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("paystack: %s (http %d)", e.Message, e.HTTPStatus)
}

func (e *ProviderError) Unwrap() error { return ErrRejected }

// do sends the request and decodes the envelope. Transport errors and 5xx are
// returned as plain errors; 4xx with a decodable body become *ProviderError.
func (p *PaystackProvider) do(ctx context.Context, method, path string, in interface{}, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, p.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.SecretKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("paystack %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("paystack %s %s: read body: %w", method, path, err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		zap.L().Warn("[Paystack] upstream error", zap.String("path", path), zap.Int("status", resp.StatusCode))
		return fmt.Errorf("paystack %s %s: http %d", method, path, resp.StatusCode)
	}
	var env paystackEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("paystack %s %s: decode: %w", method, path, err)
	}
	if resp.StatusCode >= http.StatusBadRequest || !env.Status {
		return &ProviderError{HTTPStatus: resp.StatusCode, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("paystack %s %s: decode data: %w", method, path, err)
		}
	}
	return nil
}

type paystackInitReq struct {
	Email       string                 `json:"email"`
	Amount      int64                  `json:"amount"`
	Reference   string                 `json:"reference"`
	CallbackURL string                 `json:"callback_url,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

type paystackInitData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

func (p *PaystackProvider) InitiatePayment(ctx context.Context, req PaymentRequest) (*PaymentResponse, error) {
	var out paystackInitData
	err := p.do(ctx, http.MethodPost, "/transaction/initialize", paystackInitReq{
		Email:       req.Email,
		Amount:      req.AmountKobo,
		Reference:   req.Reference,
		CallbackURL: req.CallbackURL,
		Metadata:    req.Metadata,
	}, &out)
	if err != nil {
		return nil, err
	}
	zap.L().Info("[Paystack] transaction initialized", zap.String("reference", req.Reference), zap.Int64("amount_kobo", req.AmountKobo))
	ref := out.Reference
	if ref == "" {
		ref = req.Reference
	}
	return &PaymentResponse{Reference: ref, AuthorizationURL: out.AuthorizationURL, AccessCode: out.AccessCode}, nil
}

type paystackVerifyData struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
}

// VerifyPayment asks Paystack for the transaction state. Only a 400 or 404
// answer (unknown reference) is an unpaid verification; auth failures, rate
// limiting and other non-2xx answers are errors.
func (p *PaystackProvider) VerifyPayment(ctx context.Context, reference string) (*Verification, error) {
	var out paystackVerifyData
	err := p.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, &out)
	if err != nil {
		var perr *ProviderError
		if !errors.As(err, &perr) {
			return nil, err
		}
		switch perr.HTTPStatus {
		case http.StatusBadRequest, http.StatusNotFound:
			return &Verification{Reference: reference, Status: "failed", Message: perr.Message}, nil
		}
		zap.L().Warn("[Paystack] verify refused", zap.String("reference", reference), zap.Int("status", perr.HTTPStatus))
		return nil, fmt.Errorf("paystack verify %s: http %d: %s", reference, perr.HTTPStatus, perr.Message)
	}
	return &Verification{
		Reference:  reference,
		Status:     out.Status,
		AmountKobo: out.Amount,
		Paid:       out.Status == "success",
	}, nil
}

func (p *PaystackProvider) ListBanks(ctx context.Context, country string) ([]Bank, error) {
	q := url.Values{}
	q.Set("country", country)
	q.Set("use_cursor", "false")
	q.Set("perPage", "100")
	var out []Bank
	if err := p.do(ctx, http.MethodGet, "/bank?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type paystackResolveData struct {
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
}

func (p *PaystackProvider) ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*BankAccount, error) {
	q := url.Values{}
	q.Set("account_number", accountNumber)
	q.Set("bank_code", bankCode)
	var out paystackResolveData
	if err := p.do(ctx, http.MethodGet, "/bank/resolve?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &BankAccount{AccountNumber: out.AccountNumber, AccountName: out.AccountName, BankCode: bankCode}, nil
}

type paystackRecipientReq struct {
	Type          string `json:"type"`
	Name          string `json:"name"`
	AccountNumber string `json:"account_number"`
	BankCode      string `json:"bank_code"`
	Currency      string `json:"currency"`
}

type paystackRecipientData struct {
	RecipientCode string `json:"recipient_code"`
}

func (p *PaystackProvider) CreateRecipient(ctx context.Context, acct BankAccount) (string, error) {
	var out paystackRecipientData
	err := p.do(ctx, http.MethodPost, "/transferrecipient", paystackRecipientReq{
		Type:          "nuban",
		Name:          acct.AccountName,
		AccountNumber: acct.AccountNumber,
		BankCode:      acct.BankCode,
		Currency:      p.Currency,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.RecipientCode, nil
}

type paystackTransferReq struct {
	Source    string `json:"source"`
	Amount    int64  `json:"amount"`
	Recipient string `json:"recipient"`
	Reason    string `json:"reason"`
	Reference string `json:"reference"`
}

type paystackTransferData struct {
	TransferCode string `json:"transfer_code"`
	Status       string `json:"status"`
}

func (p *PaystackProvider) Transfer(ctx context.Context, req TransferRequest) (*TransferResponse, error) {
	var out paystackTransferData
	err := p.do(ctx, http.MethodPost, "/transfer", paystackTransferReq{
		Source:    "balance",
		Amount:    req.AmountKobo,
		Recipient: req.RecipientCode,
		Reason:    req.Reason,
		Reference: req.Reference,
	}, &out)
	if err != nil {
		return nil, err
	}
	zap.L().Info("[Paystack] transfer queued", zap.String("reference", req.Reference), zap.String("status", out.Status))
	return &TransferResponse{TransferCode: out.TransferCode, Status: out.Status}, nil
}
