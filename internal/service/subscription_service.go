package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"carty/config"
	"carty/internal/domain"
	"carty/internal/models"
	"carty/internal/repository"
	"carty/pkg/payment"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SubscriptionResult struct {
	Outcome Outcome
	EndDate *time.Time
}

type SubscriptionCheckout struct {
	AuthorizationURL string
	Reference        string
}

// SubscriptionService stages subscription checkouts and activates the store
// once payment is confirmed. The pending row is claimed by deleting it, so a
// second trigger for the same reference finds nothing and does nothing.
type SubscriptionService struct {
	db       *gorm.DB
	stores   *repository.StoreRepository
	pending  *repository.PendingSubscriptionRepository
	gateway  payment.Provider
	notifier Notifier
	cfg      config.SubscriptionConfig
	now      func() time.Time
}

func NewSubscriptionService(db *gorm.DB, stores *repository.StoreRepository, pending *repository.PendingSubscriptionRepository, gateway payment.Provider, notifier Notifier, cfg config.SubscriptionConfig) *SubscriptionService {
	if cfg.PriceKobo <= 0 {
		cfg.PriceKobo = 750000
	}
	if cfg.Period <= 0 {
		cfg.Period = 30 * 24 * time.Hour
	}
	return &SubscriptionService{db: db, stores: stores, pending: pending, gateway: gateway, notifier: notifier, cfg: cfg, now: time.Now}
}

// Price is the monthly subscription price in naira.
func (s *SubscriptionService) Price() decimal.Decimal {
	return payment.FromKobo(s.cfg.PriceKobo)
}

func (s *SubscriptionService) InitializeSubscription(ctx context.Context, userID uint, email string) (*SubscriptionCheckout, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("email is required: %w", ErrInvalidInput)
	}
	store, err := s.stores.GetByUserID(userID)
	if err != nil {
		return nil, notFound(err, "store")
	}
	ref := domain.NewReference(domain.SubscriptionRefPrefix)
	resp, err := s.gateway.InitiatePayment(ctx, payment.PaymentRequest{
		Reference:  ref,
		Email:      email,
		AmountKobo: s.cfg.PriceKobo,
		Metadata:   map[string]interface{}{"store_id": store.ID, "kind": "subscription"},
	})
	if err != nil {
		return nil, gatewayErr("initialize subscription", err)
	}
	if err := s.pending.Create(&models.PendingSubscription{StoreID: store.ID, Reference: ref, Email: email}); err != nil {
		return nil, err
	}
	zap.L().Info("[Subscription] checkout initialized", zap.Uint("store_id", store.ID), zap.String("reference", ref))
	return &SubscriptionCheckout{AuthorizationURL: resp.AuthorizationURL, Reference: ref}, nil
}

// VerifySubscription is the seller's poll after paying.
func (s *SubscriptionService) VerifySubscription(ctx context.Context, userID uint, reference string) (*SubscriptionResult, error) {
	store, err := s.stores.GetByUserID(userID)
	if err != nil {
		return nil, notFound(err, "store")
	}
	p, err := s.pending.GetByReference(reference)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if store.IsSubscribed() {
			return &SubscriptionResult{Outcome: OutcomeAlreadySettled, EndDate: store.SubscriptionEndDate}, nil
		}
		return &SubscriptionResult{Outcome: OutcomeFailed}, nil
	}
	if err != nil {
		return nil, err
	}
	if p.StoreID != store.ID {
		return nil, ErrNotFound
	}

	v, err := s.gateway.VerifyPayment(ctx, reference)
	if err != nil {
		zap.L().Error("[Subscription] verify failed", zap.String("reference", reference), zap.Error(err))
		return nil, gatewayErr("verify subscription", err)
	}
	if !v.Paid {
		return &SubscriptionResult{Outcome: OutcomeFailed}, nil
	}
	return s.activate(ctx, store, reference)
}

// SettleSubscriptionFromWebhook activates on a verified charge.success. A
// missing pending row means it was already resolved.
func (s *SubscriptionService) SettleSubscriptionFromWebhook(ctx context.Context, reference string) (*SubscriptionResult, error) {
	p, err := s.pending.GetByReference(reference)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &SubscriptionResult{Outcome: OutcomeAlreadySettled}, nil
	}
	if err != nil {
		return nil, err
	}
	store, err := s.stores.GetByID(p.StoreID)
	if err != nil {
		return nil, notFound(err, "store")
	}
	return s.activate(ctx, store, reference)
}

func (s *SubscriptionService) activate(ctx context.Context, store *models.Store, reference string) (*SubscriptionResult, error) {
	end := s.now().UTC().Add(s.cfg.Period)
	won := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.pending.WithTx(tx).Claim(reference)
		if err != nil || !ok {
			return err
		}
		won = true
		return s.stores.WithTx(tx).ActivateSubscription(store.ID, end)
	})
	if err != nil {
		zap.L().Error("[Subscription] activation failed", zap.String("reference", reference), zap.Error(err))
		return nil, err
	}
	if !won {
		cur, err := s.stores.GetByID(store.ID)
		if err != nil {
			return nil, notFound(err, "store")
		}
		return &SubscriptionResult{Outcome: OutcomeAlreadySettled, EndDate: cur.SubscriptionEndDate}, nil
	}
	store.SubscriptionStatus = domain.SubscriptionActive
	store.SubscriptionEndDate = &end
	zap.L().Info("[Subscription] activated", zap.Uint("store_id", store.ID), zap.Time("end_date", end))
	if s.notifier != nil {
		s.notifier.SubscriptionActivated(ctx, store, end)
	}
	return &SubscriptionResult{Outcome: OutcomeSettled, EndDate: &end}, nil
}

// ExpireLapsed deactivates stores whose subscription period has ended.
func (s *SubscriptionService) ExpireLapsed() (int64, error) {
	return s.stores.ExpireSubscriptions(s.now().UTC())
}

// RunExpiry calls ExpireLapsed every interval until ctx is done.
func (s *SubscriptionService) RunExpiry(ctx context.Context, interval time.Duration) {
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			n, err := s.ExpireLapsed()
			if err != nil {
				zap.L().Error("[Subscription] expiry sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				zap.L().Info("[Subscription] expired lapsed stores", zap.Int64("count", n))
			}
		}
	}
}
