package repository

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"carty/internal/domain"
	"carty/internal/models"
	"carty/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestStoreRepository_Ledger(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewStoreRepository(db)
	s := testutil.SeedStore(t, db, "ada-fashion", 40)

	require.NoError(t, repo.CreditSale(s.ID, decimal.NewFromInt(5000)))
	got := testutil.ReloadStore(t, db, s.ID)
	require.True(t, got.WalletBalance.Equal(decimal.NewFromInt(5040)))
	require.True(t, got.TotalEarnings.Equal(decimal.NewFromInt(5040)))

	require.ErrorIs(t, repo.Debit(s.ID, decimal.NewFromInt(6000)), ErrInsufficientBalance)
	require.NoError(t, repo.Debit(s.ID, decimal.NewFromInt(5040)))
	require.ErrorIs(t, repo.Debit(s.ID, decimal.NewFromInt(1)), ErrInsufficientBalance)

	require.NoError(t, repo.Refund(s.ID, decimal.NewFromInt(500)))
	got = testutil.ReloadStore(t, db, s.ID)
	require.True(t, got.WalletBalance.Equal(decimal.NewFromInt(500)))
	require.True(t, got.TotalEarnings.Equal(decimal.NewFromInt(5040)), "refunds do not touch earnings")

	require.ErrorIs(t, repo.CreditSale(9999, decimal.NewFromInt(1)), gorm.ErrRecordNotFound)
	require.ErrorIs(t, repo.Refund(9999, decimal.NewFromInt(1)), gorm.ErrRecordNotFound)
}

func TestStoreRepository_Slugs(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewStoreRepository(db)
	testutil.SeedStore(t, db, "ada-fashion", 0)

	taken, err := repo.SlugExists("ada-fashion")
	require.NoError(t, err)
	require.True(t, taken)
	taken, err = repo.SlugExists("ada-fashion-1")
	require.NoError(t, err)
	require.False(t, taken)
}

func TestOrderRepository_MarkCompletedOnce(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewOrderRepository(db)
	s := testutil.SeedStore(t, db, "ada-fashion", 0)
	o := &models.Order{
		StoreID:          s.ID,
		BuyerName:        "Chidi",
		BuyerPhone:       "08031234567",
		Items:            []models.OrderItem{{ProductID: 1, Name: "Dress", Quantity: 2, Price: decimal.NewFromInt(5000)}},
		TotalAmount:      decimal.NewFromInt(5000),
		PaymentReference: "carty_0123456789ab",
		Status:           domain.OrderPending,
	}
	require.NoError(t, repo.Create(o))
	require.Len(t, o.ID, 36)

	paidAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ok, err := repo.MarkCompleted(o.PaymentReference, paidAt)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = repo.MarkCompleted(o.PaymentReference, paidAt.Add(time.Minute))
	require.NoError(t, err)
	require.False(t, ok)

	got, err := repo.GetByReference(o.PaymentReference)
	require.NoError(t, err)
	require.Equal(t, domain.OrderCompleted, got.Status)
	require.True(t, got.PaidAt.Equal(paidAt))
	require.Equal(t, "Dress", got.Items[0].Name)

	stats, err := repo.CompletedStats(s.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.Count)
	require.True(t, stats.Total.Equal(decimal.NewFromInt(5000)))

	empty, err := repo.CompletedStats(9999)
	require.NoError(t, err)
	require.Zero(t, empty.Count)
	require.True(t, empty.Total.IsZero())
}

func TestPendingSubscriptionRepository_ClaimOnce(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPendingSubscriptionRepository(db)
	s := testutil.SeedStore(t, db, "ada-fashion", 0)
	require.NoError(t, repo.Create(&models.PendingSubscription{StoreID: s.ID, Reference: "sub_0123456789ab", Email: "ada@example.com"}))

	ok, err := repo.Claim("sub_0123456789ab")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = repo.Claim("sub_0123456789ab")
	require.NoError(t, err)
	require.False(t, ok)
	_, err = repo.GetByReference("sub_0123456789ab")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestWithdrawalRepository_ResolveOnce(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewWithdrawalRepository(db)
	s := testutil.SeedStore(t, db, "ada-fashion", 0)
	w := &models.Withdrawal{StoreID: s.ID, Amount: decimal.NewFromInt(500), Reference: "wd_0123456789ab", Status: domain.WithdrawalPending}
	require.NoError(t, repo.Create(w))

	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	ok, err := repo.Resolve(w.Reference, domain.WithdrawalFailed, string(long), time.Now())
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = repo.Resolve(w.Reference, domain.WithdrawalSuccess, "", time.Now())
	require.NoError(t, err)
	require.False(t, ok)

	got, err := repo.GetByReference(w.Reference)
	require.NoError(t, err)
	require.Equal(t, domain.WithdrawalFailed, got.Status)
	require.Len(t, got.FailureReason, 255)
	require.Nil(t, got.CompletedAt)
}

func TestWithdrawalRepository_ReasonKeepsRunesWhole(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewWithdrawalRepository(db)
	s := testutil.SeedStore(t, db, "ada-fashion", 0)
	w := &models.Withdrawal{StoreID: s.ID, Amount: decimal.NewFromInt(500), Reference: "wd_ba9876543210", Status: domain.WithdrawalPending}
	require.NoError(t, repo.Create(w))

	reason := strings.Repeat("₦", 300)
	ok, err := repo.Resolve(w.Reference, domain.WithdrawalFailed, reason, time.Now())
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repo.GetByReference(w.Reference)
	require.NoError(t, err)
	require.True(t, utf8.ValidString(got.FailureReason))
	require.Equal(t, 255, utf8.RuneCountInString(got.FailureReason))
	require.Equal(t, strings.Repeat("₦", 255), got.FailureReason)
}

func TestNotificationRepository_SellerScoped(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewNotificationRepository(db)
	s := testutil.SeedStore(t, db, "ada-fashion", 0)
	n := &models.Notification{UserID: s.UserID, Type: domain.FeedOrderPaid, Title: "New order", Body: "Chidi paid"}
	require.NoError(t, repo.Create(n))

	ok, err := repo.MarkRead(n.ID, s.UserID+1, time.Now())
	require.NoError(t, err)
	require.False(t, ok, "other users cannot mark it read")

	list, err := repo.ListForSeller(s.UserID, InboxPage{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Nil(t, list[0].ReadAt)
	unread, err := repo.UnreadCount(s.UserID)
	require.NoError(t, err)
	require.Equal(t, int64(1), unread)

	ok, err = repo.MarkRead(n.ID, s.UserID, time.Now())
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = repo.MarkRead(n.ID, s.UserID, time.Now())
	require.NoError(t, err)
	require.False(t, ok)

	list, err = repo.ListForSeller(s.UserID, InboxPage{Limit: 10})
	require.NoError(t, err)
	require.NotNil(t, list[0].ReadAt)
}

func TestNotificationRepository_PagesAndMarkAll(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewNotificationRepository(db)
	s := testutil.SeedStore(t, db, "ada-fashion", 0)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(&models.Notification{UserID: s.UserID, Type: domain.FeedOrderPaid, Title: "New order"}))
	}
	require.NoError(t, repo.Create(&models.Notification{UserID: s.UserID + 1, Type: domain.FeedOrderPaid, Title: "Not mine"}))

	list, err := repo.ListForSeller(s.UserID, InboxPage{Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	list, err = repo.ListForSeller(s.UserID, InboxPage{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, list, 1)

	n, err := repo.MarkAllRead(s.UserID, time.Now())
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
	unread, err := repo.UnreadCount(s.UserID)
	require.NoError(t, err)
	require.Zero(t, unread)
	unread, err = repo.UnreadCount(s.UserID + 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), unread)
}

func TestInboxPage_Bounded(t *testing.T) {
	require.Equal(t, InboxPage{Limit: 20}, InboxPage{}.Bounded())
	require.Equal(t, InboxPage{Limit: 20, Offset: 0}, InboxPage{Limit: 500, Offset: -3}.Bounded())
	require.Equal(t, InboxPage{Limit: 50, Offset: 10}, InboxPage{Limit: 50, Offset: 10}.Bounded())
}
