package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"carty/internal/domain"
	"carty/internal/models"
	"carty/internal/repository"
	"carty/internal/testutil"
	"carty/pkg/payment"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var errTimeout = errors.New("dial tcp: i/o timeout")

// fakeGateway answers like the stub unless a hook overrides a call.
type fakeGateway struct {
	payment.StubProvider

	mu            sync.Mutex
	verify        func(ref string) (*payment.Verification, error)
	transfer      func(req payment.TransferRequest) (*payment.TransferResponse, error)
	initiated     []payment.PaymentRequest
	verifyCalls   int
	transferCalls int
}

func (g *fakeGateway) InitiatePayment(ctx context.Context, req payment.PaymentRequest) (*payment.PaymentResponse, error) {
	g.mu.Lock()
	g.initiated = append(g.initiated, req)
	g.mu.Unlock()
	return &payment.PaymentResponse{Reference: req.Reference, AuthorizationURL: "https://checkout.test/" + req.Reference}, nil
}

func (g *fakeGateway) VerifyPayment(ctx context.Context, ref string) (*payment.Verification, error) {
	g.mu.Lock()
	g.verifyCalls++
	g.mu.Unlock()
	if g.verify != nil {
		return g.verify(ref)
	}
	return &payment.Verification{Reference: ref, Status: "success", Paid: true}, nil
}

func (g *fakeGateway) ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*payment.BankAccount, error) {
	if accountNumber == "0000000000" {
		return nil, &payment.ProviderError{HTTPStatus: 422, Message: "Could not resolve account name"}
	}
	return &payment.BankAccount{AccountNumber: accountNumber, AccountName: "ADA OBI", BankCode: bankCode}, nil
}

func (g *fakeGateway) Transfer(ctx context.Context, req payment.TransferRequest) (*payment.TransferResponse, error) {
	g.mu.Lock()
	g.transferCalls++
	g.mu.Unlock()
	if g.transfer != nil {
		return g.transfer(req)
	}
	return &payment.TransferResponse{TransferCode: "TRF_" + req.Reference, Status: "pending"}, nil
}

func (g *fakeGateway) calls() (verify, transfer int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.verifyCalls, g.transferCalls
}

type fakeNotifier struct {
	mu      sync.Mutex
	orders  []string
	subs    []uint
	payouts []domain.WithdrawalStatus
}

func (n *fakeNotifier) OrderPaid(ctx context.Context, store *models.Store, order *models.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.orders = append(n.orders, order.PaymentReference)
}

func (n *fakeNotifier) SubscriptionActivated(ctx context.Context, store *models.Store, endDate time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subs = append(n.subs, store.ID)
}

func (n *fakeNotifier) PayoutResolved(ctx context.Context, store *models.Store, w *models.Withdrawal) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.payouts = append(n.payouts, w.Status)
}

func (n *fakeNotifier) counts() (orders, subs, payouts int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.orders), len(n.subs), len(n.payouts)
}

type harness struct {
	db       *gorm.DB
	gateway  *fakeGateway
	notifier *fakeNotifier

	stores   *repository.StoreRepository
	orders   *repository.OrderRepository
	products *repository.ProductRepository

	orderSvc   *OrderSettlementService
	subSvc     *SubscriptionService
	payoutSvc  *PayoutService
	webhookSvc *WebhookService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.NewDB(t)
	h := &harness{
		db:       db,
		gateway:  &fakeGateway{},
		notifier: &fakeNotifier{},
		stores:   repository.NewStoreRepository(db),
		orders:   repository.NewOrderRepository(db),
		products: repository.NewProductRepository(db),
	}
	ledger := NewLedger(h.stores)
	h.orderSvc = NewOrderSettlementService(db, h.orders, h.stores, ledger, h.gateway, h.notifier)
	h.subSvc = NewSubscriptionService(db, h.stores, repository.NewPendingSubscriptionRepository(db), h.gateway, h.notifier, testSubscriptionConfig)
	h.payoutSvc = NewPayoutService(db, h.stores, repository.NewWithdrawalRepository(db), ledger, h.gateway, h.notifier)
	h.webhookSvc = NewWebhookService(repository.NewWebhookEventRepository(db), h.orderSvc, h.subSvc, h.payoutSvc)
	return h
}

// pendingOrder inserts an unpaid order worth total naira.
func (h *harness) pendingOrder(t *testing.T, store *models.Store, total int64) *models.Order {
	t.Helper()
	o := &models.Order{
		StoreID:          store.ID,
		BuyerName:        "Chidi",
		BuyerPhone:       "08031234567",
		BuyerAddress:     "12 Allen Avenue, Ikeja",
		Items:            []models.OrderItem{{ProductID: 1, Name: "Ankara Dress", Quantity: 1, Price: decimal.NewFromInt(total)}},
		TotalAmount:      decimal.NewFromInt(total),
		PaymentReference: domain.NewReference(domain.OrderRefPrefix),
		Status:           domain.OrderPending,
	}
	require.NoError(t, h.orders.Create(o))
	return o
}

// linkBank gives the store a recipient so withdrawals are allowed.
func (h *harness) linkBank(t *testing.T, store *models.Store) {
	t.Helper()
	require.NoError(t, h.stores.LinkBank(store.ID, repository.BankLink{
		BankName:      "GTBank",
		BankCode:      "058",
		AccountNumber: "0123456789",
		AccountName:   "ADA OBI",
		RecipientCode: "RCP_test",
	}))
}

func requireBalance(t *testing.T, db *gorm.DB, storeID uint, wallet, earnings int64) {
	t.Helper()
	s := testutil.ReloadStore(t, db, storeID)
	require.True(t, s.WalletBalance.Equal(decimal.NewFromInt(wallet)), "wallet_balance = %s, want %d", s.WalletBalance, wallet)
	require.True(t, s.TotalEarnings.Equal(decimal.NewFromInt(earnings)), "total_earnings = %s, want %d", s.TotalEarnings, earnings)
}
