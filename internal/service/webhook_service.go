package service

import (
	"context"
	"errors"
	"fmt"

	"carty/internal/models"
	"carty/internal/repository"
	"carty/internal/webhook"

	"go.uber.org/zap"
)

// WebhookService records every verified delivery and routes it to the
// matching settlement path.
type WebhookService struct {
	events  *repository.WebhookEventRepository
	orders  *OrderSettlementService
	subs    *SubscriptionService
	payouts *PayoutService
}

func NewWebhookService(events *repository.WebhookEventRepository, orders *OrderSettlementService, subs *SubscriptionService, payouts *PayoutService) *WebhookService {
	return &WebhookService{events: events, orders: orders, subs: subs, payouts: payouts}
}

// Handle decodes a verified payload and settles it. A returned error means
// the provider should retry the delivery.
func (s *WebhookService) Handle(ctx context.Context, p *webhook.Payload) error {
	name, ev, err := p.Decode()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	rec := &models.WebhookEvent{Event: name, Reference: ev.Reference(), Payload: string(p.Raw())}
	if err := s.events.Create(rec); err != nil {
		zap.L().Warn("[Webhook] could not record event", zap.String("event", name), zap.Error(err))
		rec = nil
	}
	err = s.dispatch(ctx, ev)
	if rec != nil {
		if merr := s.events.MarkProcessed(rec.ID, err); merr != nil {
			zap.L().Warn("[Webhook] could not mark event processed", zap.Uint("id", rec.ID), zap.Error(merr))
		}
	}
	return err
}

func (s *WebhookService) dispatch(ctx context.Context, ev webhook.Event) error {
	log := zap.L().With(zap.String("reference", ev.Reference()))
	switch e := ev.(type) {
	case webhook.OrderSettlement:
		res, err := s.orders.SettleOrderFromWebhook(ctx, e.Ref)
		if errors.Is(err, ErrNotFound) {
			log.Warn("[Webhook] charge for unknown order")
			return nil
		}
		if err != nil {
			return err
		}
		log.Info("[Webhook] order charge", zap.Stringer("outcome", res.Outcome))
	case webhook.SubscriptionSettlement:
		res, err := s.subs.SettleSubscriptionFromWebhook(ctx, e.Ref)
		if errors.Is(err, ErrNotFound) {
			log.Warn("[Webhook] charge for unknown subscription")
			return nil
		}
		if err != nil {
			return err
		}
		log.Info("[Webhook] subscription charge", zap.Stringer("outcome", res.Outcome))
	case webhook.TransferOutcome:
		res, err := s.payouts.SettleTransfer(ctx, e.Ref, e.Succeeded, e.Reason)
		if errors.Is(err, ErrNotFound) {
			log.Warn("[Webhook] outcome for unknown transfer")
			return nil
		}
		if err != nil {
			return err
		}
		log.Info("[Webhook] transfer outcome", zap.Bool("succeeded", e.Succeeded), zap.Stringer("outcome", res.Outcome))
	case webhook.Unhandled:
		log.Info("[Webhook] ignored event", zap.String("event", e.Name))
	default:
		return fmt.Errorf("unknown webhook event %T", ev)
	}
	return nil
}
