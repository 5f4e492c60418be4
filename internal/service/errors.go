package service

import (
	"errors"
	"fmt"

	"carty/internal/repository"
	"carty/pkg/payment"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrGatewayUnavailable = errors.New("payment service unavailable")
	ErrInsufficientFunds  = errors.New("insufficient balance")
	ErrBelowMinimum       = errors.New("amount below minimum payout")
	ErrBankNotLinked      = errors.New("please setup your bank account first")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidAccount     = errors.New("could not verify account, check account number and bank")
	ErrPayoutRejected     = errors.New("payout rejected by payment provider")
	ErrConflict           = errors.New("conflict")
	ErrInvalidInput       = errors.New("invalid input")
)

// notFound maps gorm's missing-row error onto ErrNotFound, naming what was missing.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

// gatewayErr classifies a provider call failure. Explicit refusals pass
// through as rejections; anything else means the provider could not be reached.
func gatewayErr(op string, err error) error {
	if errors.Is(err, payment.ErrRejected) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrGatewayUnavailable, err)
}

func ledgerErr(err error) error {
	if errors.Is(err, repository.ErrInsufficientBalance) {
		return ErrInsufficientFunds
	}
	return notFound(err, "store")
}
