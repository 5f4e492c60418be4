package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"carty/internal/domain"
	"carty/internal/models"
	"carty/internal/repository"
	"carty/pkg/payment"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TransferInput struct {
	Amount        decimal.Decimal
	BankCode      string
	AccountNumber string
}

type PayoutResult struct {
	Outcome    Outcome
	Withdrawal *models.Withdrawal
}

type WalletView struct {
	Store       *models.Store
	Withdrawals []models.Withdrawal
}

// PayoutService moves money out of a store wallet. The wallet is debited
// before the provider is called and refunded if the transfer fails.
type PayoutService struct {
	db          *gorm.DB
	stores      *repository.StoreRepository
	withdrawals *repository.WithdrawalRepository
	ledger      *Ledger
	gateway     payment.Gateway
	notifier    Notifier
	now         func() time.Time
}

func NewPayoutService(db *gorm.DB, stores *repository.StoreRepository, withdrawals *repository.WithdrawalRepository, ledger *Ledger, gateway payment.Gateway, notifier Notifier) *PayoutService {
	return &PayoutService{
		db:          db,
		stores:      stores,
		withdrawals: withdrawals,
		ledger:      ledger,
		gateway:     gateway,
		notifier:    notifier,
		now:         time.Now,
	}
}

func (s *PayoutService) Wallet(userID uint) (*WalletView, error) {
	store, err := s.stores.GetByUserID(userID)
	if err != nil {
		return nil, notFound(err, "store")
	}
	list, err := s.withdrawals.ListByStore(store.ID, 10)
	if err != nil {
		return nil, err
	}
	return &WalletView{Store: store, Withdrawals: list}, nil
}

var bankCountries = map[string]string{
	"NG": "nigeria", "GH": "ghana", "KE": "kenya", "ZA": "south africa",
	"CI": "ivory coast", "EG": "egypt", "UG": "uganda", "TZ": "tanzania",
	"RW": "rwanda", "ZM": "zambia", "SN": "senegal", "ET": "ethiopia",
}

// Banks lists the provider's banks for an ISO country code. Lookup failures
// yield an empty list.
func (s *PayoutService) Banks(ctx context.Context, countryCode string) []payment.Bank {
	country, ok := bankCountries[strings.ToUpper(countryCode)]
	if !ok {
		country = strings.ToLower(countryCode)
	}
	banks, err := s.gateway.ListBanks(ctx, country)
	if err != nil {
		zap.L().Error("[Payout] bank list failed", zap.String("country", country), zap.Error(err))
		return []payment.Bank{}
	}
	return banks
}

func (s *PayoutService) ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*payment.BankAccount, error) {
	accountNumber, bankCode = strings.TrimSpace(accountNumber), strings.TrimSpace(bankCode)
	if accountNumber == "" || bankCode == "" {
		return nil, fmt.Errorf("bank_code and account_number are required: %w", ErrInvalidInput)
	}
	acct, err := s.gateway.ResolveAccount(ctx, accountNumber, bankCode)
	if err != nil {
		if errors.Is(err, payment.ErrRejected) {
			return nil, ErrInvalidAccount
		}
		return nil, gatewayErr("resolve account", err)
	}
	return acct, nil
}

// SetupBank verifies the account and stores a reusable transfer recipient.
func (s *PayoutService) SetupBank(ctx context.Context, userID uint, bankCode, accountNumber, bankName string) (*models.Store, error) {
	store, err := s.stores.GetByUserID(userID)
	if err != nil {
		return nil, notFound(err, "store")
	}
	acct, err := s.ResolveAccount(ctx, accountNumber, bankCode)
	if err != nil {
		return nil, err
	}
	code, err := s.createRecipient(ctx, *acct)
	if err != nil {
		return nil, err
	}
	link := repository.BankLink{
		BankName:      bankName,
		BankCode:      acct.BankCode,
		AccountNumber: acct.AccountNumber,
		AccountName:   acct.AccountName,
		RecipientCode: code,
	}
	if err := s.stores.LinkBank(store.ID, link); err != nil {
		return nil, err
	}
	store.BankName, store.BankCode, store.BankAccountNumber, store.BankAccountName, store.RecipientCode =
		link.BankName, link.BankCode, link.AccountNumber, link.AccountName, link.RecipientCode
	return store, nil
}

func (s *PayoutService) UnlinkBank(userID uint) error {
	store, err := s.stores.GetByUserID(userID)
	if err != nil {
		return notFound(err, "store")
	}
	return s.stores.UnlinkBank(store.ID)
}

// Withdraw pays the requested amount out to the store's linked bank account.
func (s *PayoutService) Withdraw(ctx context.Context, userID uint, amount decimal.Decimal) (*models.Withdrawal, error) {
	store, err := s.stores.GetByUserID(userID)
	if err != nil {
		return nil, notFound(err, "store")
	}
	if !store.HasBankLinked() {
		return nil, ErrBankNotLinked
	}
	if err := s.precheck(store, amount); err != nil {
		return nil, err
	}
	w := &models.Withdrawal{
		StoreID:     store.ID,
		Amount:      amount,
		Reference:   domain.NewReference(domain.WithdrawalRefPrefix),
		Status:      domain.WithdrawalPending,
		AccountName: store.BankAccountName,
	}
	return s.payout(ctx, store, w, store.RecipientCode, "CartY Withdrawal")
}

// Transfer pays out to an arbitrary account, creating a one-off recipient.
func (s *PayoutService) Transfer(ctx context.Context, userID uint, in TransferInput) (*models.Withdrawal, error) {
	store, err := s.stores.GetByUserID(userID)
	if err != nil {
		return nil, notFound(err, "store")
	}
	if err := s.precheck(store, in.Amount); err != nil {
		return nil, err
	}
	acct, err := s.ResolveAccount(ctx, in.AccountNumber, in.BankCode)
	if err != nil {
		return nil, err
	}
	code, err := s.createRecipient(ctx, *acct)
	if err != nil {
		return nil, err
	}
	w := &models.Withdrawal{
		StoreID:     store.ID,
		Amount:      in.Amount,
		Reference:   domain.NewReference(domain.TransferRefPrefix),
		Status:      domain.WithdrawalPending,
		AccountName: acct.AccountName,
	}
	return s.payout(ctx, store, w, code, "CartY Transfer to "+acct.AccountName)
}

func (s *PayoutService) createRecipient(ctx context.Context, acct payment.BankAccount) (string, error) {
	code, err := s.gateway.CreateRecipient(ctx, acct)
	if err != nil {
		if errors.Is(err, payment.ErrRejected) {
			return "", ErrInvalidAccount
		}
		return "", gatewayErr("create recipient", err)
	}
	return code, nil
}

// precheck rejects a payout before anything external happens.
func (s *PayoutService) precheck(store *models.Store, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if store.WalletBalance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	return ValidatePayoutAmount(amount)
}

func (s *PayoutService) payout(ctx context.Context, store *models.Store, w *models.Withdrawal, recipient, reason string) (*models.Withdrawal, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ledger.WithTx(tx).Debit(store.ID, w.Amount); err != nil {
			return err
		}
		return s.withdrawals.WithTx(tx).Create(w)
	})
	if err != nil {
		return nil, err
	}

	resp, err := s.gateway.Transfer(ctx, payment.TransferRequest{
		Reference:     w.Reference,
		RecipientCode: recipient,
		AmountKobo:    payment.ToKobo(w.Amount),
		Reason:        reason,
	})
	if err != nil {
		if errors.Is(err, payment.ErrRejected) {
			zap.L().Warn("[Payout] transfer rejected", zap.String("reference", w.Reference), zap.Error(err))
			if _, serr := s.SettleTransfer(ctx, w.Reference, false, err.Error()); serr != nil {
				zap.L().Error("[Payout] refund after rejection failed", zap.String("reference", w.Reference), zap.Error(serr))
			}
			return nil, fmt.Errorf("%w: %w", ErrPayoutRejected, err)
		}
		// Outcome unknown: keep it pending and let the webhook decide.
		zap.L().Error("[Payout] transfer call failed", zap.String("reference", w.Reference), zap.Error(err))
		return nil, gatewayErr("transfer", err)
	}
	if resp.TransferCode != "" {
		if err := s.withdrawals.SetTransferCode(w.Reference, resp.TransferCode); err != nil {
			zap.L().Warn("[Payout] could not store transfer code", zap.String("reference", w.Reference), zap.Error(err))
		}
		w.TransferCode = resp.TransferCode
	}
	zap.L().Info("[Payout] initiated",
		zap.String("reference", w.Reference),
		zap.Uint("store_id", store.ID),
		zap.String("amount", w.Amount.String()))
	return w, nil
}

// SettleTransfer resolves a pending withdrawal. A failure refunds the amount
// in the same transaction. Late or duplicate events change nothing.
func (s *PayoutService) SettleTransfer(ctx context.Context, reference string, succeeded bool, reason string) (*PayoutResult, error) {
	w, err := s.withdrawals.GetByReference(reference)
	if err != nil {
		return nil, notFound(err, "withdrawal")
	}
	next, err := w.Status.Resolve(succeeded)
	if err != nil {
		return &PayoutResult{Outcome: OutcomeAlreadySettled, Withdrawal: w}, nil
	}
	at := s.now().UTC()
	won := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.withdrawals.WithTx(tx).Resolve(reference, next, reason, at)
		if err != nil || !ok {
			return err
		}
		won = true
		if next == domain.WithdrawalFailed {
			return s.ledger.WithTx(tx).Refund(w.StoreID, w.Amount)
		}
		return nil
	})
	if err != nil {
		zap.L().Error("[Payout] settlement failed", zap.String("reference", reference), zap.Error(err))
		return nil, err
	}
	if !won {
		return &PayoutResult{Outcome: OutcomeAlreadySettled, Withdrawal: w}, nil
	}
	w.Status = next
	w.FailureReason = reason
	if next == domain.WithdrawalSuccess {
		w.CompletedAt = &at
	}
	zap.L().Info("[Payout] resolved", zap.String("reference", reference), zap.String("status", string(next)))
	if s.notifier != nil {
		if store, err := s.stores.GetByID(w.StoreID); err == nil {
			s.notifier.PayoutResolved(ctx, store, w)
		}
	}
	return &PayoutResult{Outcome: OutcomeSettled, Withdrawal: w}, nil
}
