package payment

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// StubProvider approves everything. Used in development when no Paystack key
// is configured.
type StubProvider struct{}

func (s *StubProvider) InitiatePayment(ctx context.Context, req PaymentRequest) (*PaymentResponse, error) {
	url := req.CallbackURL
	if url != "" {
		sep := "?"
		if strings.Contains(url, "?") {
			sep = "&"
		}
		url += sep + "reference=" + req.Reference
	}
	return &PaymentResponse{
		Reference:        req.Reference,
		AuthorizationURL: url,
		AccessCode:       fmt.Sprintf("stub_%d", time.Now().UnixNano()),
	}, nil
}

func (s *StubProvider) VerifyPayment(ctx context.Context, reference string) (*Verification, error) {
	return &Verification{Reference: reference, Status: "success", Paid: reference != ""}, nil
}

func (s *StubProvider) ListBanks(ctx context.Context, country string) ([]Bank, error) {
	return []Bank{
		{Name: "Access Bank", Code: "044", Slug: "access-bank"},
		{Name: "Guaranty Trust Bank", Code: "058", Slug: "guaranty-trust-bank"},
	}, nil
}

func (s *StubProvider) ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*BankAccount, error) {
	return &BankAccount{AccountNumber: accountNumber, AccountName: "STUB ACCOUNT", BankCode: bankCode}, nil
}

func (s *StubProvider) CreateRecipient(ctx context.Context, acct BankAccount) (string, error) {
	return "RCP_stub_" + acct.AccountNumber, nil
}

func (s *StubProvider) Transfer(ctx context.Context, req TransferRequest) (*TransferResponse, error) {
	return &TransferResponse{TransferCode: "TRF_stub_" + req.Reference, Status: "pending"}, nil
}
