package service

import (
	"context"
	"time"

	"carty/internal/models"
	"carty/internal/notify"
	"carty/internal/repository"
	"carty/pkg/payment"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type OrderResult struct {
	Outcome      Outcome
	Order        *models.Order
	WhatsAppLink string
}

// OrderSettlementService moves an order from pending to completed exactly
// once, whichever of the poll and webhook paths gets there first.
type OrderSettlementService struct {
	db       *gorm.DB
	orders   *repository.OrderRepository
	stores   *repository.StoreRepository
	ledger   *Ledger
	gateway  payment.Provider
	notifier Notifier
	now      func() time.Time
}

func NewOrderSettlementService(db *gorm.DB, orders *repository.OrderRepository, stores *repository.StoreRepository, ledger *Ledger, gateway payment.Provider, notifier Notifier) *OrderSettlementService {
	return &OrderSettlementService{
		db:       db,
		orders:   orders,
		stores:   stores,
		ledger:   ledger,
		gateway:  gateway,
		notifier: notifier,
		now:      time.Now,
	}
}

// VerifyOrder is the buyer's poll after checkout. The provider is asked for
// the transaction state unless the order is already completed.
func (s *OrderSettlementService) VerifyOrder(ctx context.Context, slug, reference string) (*OrderResult, error) {
	store, err := s.stores.GetBySlug(slug)
	if err != nil {
		return nil, notFound(err, "store")
	}
	order, err := s.orders.GetByReference(reference)
	if err != nil {
		return nil, notFound(err, "order")
	}
	if order.StoreID != store.ID {
		return nil, ErrNotFound
	}
	if order.Status.IsTerminal() {
		return s.result(OutcomeAlreadySettled, store, order), nil
	}

	v, err := s.gateway.VerifyPayment(ctx, reference)
	if err != nil {
		zap.L().Error("[Settle] order verify failed", zap.String("reference", reference), zap.Error(err))
		return nil, gatewayErr("verify order", err)
	}
	if !v.Paid {
		zap.L().Info("[Settle] order not paid", zap.String("reference", reference), zap.String("status", v.Status))
		return &OrderResult{Outcome: OutcomeFailed, Order: order}, nil
	}
	return s.settle(ctx, store, order)
}

// SettleOrderFromWebhook trusts a verified charge.success delivery and skips
// the provider round trip.
func (s *OrderSettlementService) SettleOrderFromWebhook(ctx context.Context, reference string) (*OrderResult, error) {
	order, err := s.orders.GetByReference(reference)
	if err != nil {
		return nil, notFound(err, "order")
	}
	if order.Status.IsTerminal() {
		return &OrderResult{Outcome: OutcomeAlreadySettled, Order: order}, nil
	}
	store, err := s.stores.GetByID(order.StoreID)
	if err != nil {
		return nil, notFound(err, "store")
	}
	return s.settle(ctx, store, order)
}

// settle runs the conditional status transition and the ledger credit in one
// transaction. Losing the transition means another trigger already settled.
func (s *OrderSettlementService) settle(ctx context.Context, store *models.Store, order *models.Order) (*OrderResult, error) {
	next, err := order.Status.Complete()
	if err != nil {
		return s.result(OutcomeAlreadySettled, store, order), nil
	}
	paidAt := s.now().UTC()
	won := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.orders.WithTx(tx).MarkCompleted(order.PaymentReference, paidAt)
		if err != nil || !ok {
			return err
		}
		won = true
		return s.ledger.WithTx(tx).CreditSale(order.StoreID, order.TotalAmount)
	})
	if err != nil {
		zap.L().Error("[Settle] order settlement failed", zap.String("reference", order.PaymentReference), zap.Error(err))
		return nil, err
	}
	if !won {
		zap.L().Info("[Settle] order already settled", zap.String("reference", order.PaymentReference))
		return s.result(OutcomeAlreadySettled, store, order), nil
	}

	order.Status = next
	order.PaidAt = &paidAt
	zap.L().Info("[Settle] order settled",
		zap.String("reference", order.PaymentReference),
		zap.Uint("store_id", store.ID),
		zap.String("amount", order.TotalAmount.String()))
	if s.notifier != nil {
		s.notifier.OrderPaid(ctx, store, order)
	}
	return s.result(OutcomeSettled, store, order), nil
}

func (s *OrderSettlementService) result(outcome Outcome, store *models.Store, order *models.Order) *OrderResult {
	return &OrderResult{
		Outcome:      outcome,
		Order:        order,
		WhatsAppLink: notify.OrderLink(store.WhatsAppNumber, notify.NewOrderNotice(order)),
	}
}
