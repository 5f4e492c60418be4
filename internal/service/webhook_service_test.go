package service

import (
	"context"
	"fmt"
	"testing"

	"carty/internal/domain"
	"carty/internal/repository"
	"carty/internal/testutil"
	"carty/internal/webhook"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const hookSecret = "sk_test_hook"

func deliver(t *testing.T, h *harness, body string) error {
	t.Helper()
	p := webhook.NewPayload([]byte(body))
	require.NoError(t, webhook.NewAuthenticator(hookSecret).Authenticate(p, webhook.Sign(hookSecret, []byte(body))))
	return h.webhookSvc.Handle(context.Background(), p)
}

func TestWebhook_ChargeSuccessSettlesOrder(t *testing.T) {
	h := newHarness(t)
	store := testutil.SeedStore(t, h.db, "ada-fashion", 0)
	order := h.pendingOrder(t, store, 5000)
	body := fmt.Sprintf(`{"event":"charge.success","data":{"reference":%q,"amount":500000,"status":"success"}}`, order.PaymentReference)

	require.NoError(t, deliver(t, h, body))
	require.NoError(t, deliver(t, h, body), "redelivery is acknowledged")
	requireBalance(t, h.db, store.ID, 5000, 5000)

	events, err := repository.NewWebhookEventRepository(h.db).ListByReference(order.PaymentReference)
	require.NoError(t, err)
	require.Len(t, events, 2)
	for _, e := range events {
		require.Equal(t, domain.EventChargeSuccess, e.Event)
		require.NotNil(t, e.ProcessedAt)
		require.Empty(t, e.ProcessingError)
	}
}

func TestWebhook_ChargeSuccessActivatesSubscription(t *testing.T) {
	h := newHarness(t)
	store := testutil.SeedStore(t, h.db, "ada-fashion", 0)
	co, err := h.subSvc.InitializeSubscription(context.Background(), store.UserID, "ada@example.com")
	require.NoError(t, err)

	require.NoError(t, deliver(t, h, fmt.Sprintf(`{"event":"charge.success","data":{"reference":%q}}`, co.Reference)))
	require.True(t, testutil.ReloadStore(t, h.db, store.ID).IsSubscribed())
}

func TestWebhook_TransferEvents(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	store := testutil.SeedStore(t, h.db, "ada-fashion", 1000)
	h.linkBank(t, store)

	failed, err := h.payoutSvc.Withdraw(ctx, store.UserID, decimal.NewFromInt(400))
	require.NoError(t, err)
	sent, err := h.payoutSvc.Withdraw(ctx, store.UserID, decimal.NewFromInt(300))
	require.NoError(t, err)
	requireBalance(t, h.db, store.ID, 300, 1000)

	require.NoError(t, deliver(t, h, fmt.Sprintf(`{"event":"transfer.reversed","data":{"reference":%q}}`, failed.Reference)))
	require.NoError(t, deliver(t, h, fmt.Sprintf(`{"event":"transfer.success","data":{"reference":%q}}`, sent.Reference)))
	require.NoError(t, deliver(t, h, fmt.Sprintf(`{"event":"transfer.failed","data":{"reference":%q}}`, sent.Reference)))
	requireBalance(t, h.db, store.ID, 700, 1000)

	got, err := repository.NewWithdrawalRepository(h.db).GetByReference(failed.Reference)
	require.NoError(t, err)
	require.Equal(t, domain.WithdrawalFailed, got.Status)
	require.Equal(t, "transfer.reversed", got.FailureReason)
}

func TestWebhook_UnknownAndIgnoredEventsAreAcked(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, deliver(t, h, `{"event":"charge.success","data":{"reference":"carty_000000000000"}}`))
	require.NoError(t, deliver(t, h, `{"event":"charge.success","data":{"reference":"sub_000000000000"}}`))
	require.NoError(t, deliver(t, h, `{"event":"transfer.success","data":{"reference":"wd_000000000000"}}`))
	require.NoError(t, deliver(t, h, `{"event":"subscription.create","data":{"reference":"carty_000000000000"}}`))
	require.NoError(t, deliver(t, h, `{"event":"charge.success","data":{"reference":"PSK_elsewhere"}}`))

	err := deliver(t, h, `not json`)
	require.ErrorIs(t, err, ErrInvalidInput)
}
