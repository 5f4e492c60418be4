package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"carty/internal/domain"
	"carty/internal/models"
	"carty/internal/notify"
	"carty/internal/repository"

	"go.uber.org/zap"
)

// Notifier is told about every settlement transition this process wins.
type Notifier interface {
	OrderPaid(ctx context.Context, store *models.Store, order *models.Order)
	SubscriptionActivated(ctx context.Context, store *models.Store, endDate time.Time)
	PayoutResolved(ctx context.Context, store *models.Store, w *models.Withdrawal)
}

// Pusher delivers a device push to a seller. *FCMService is the production one.
type Pusher interface {
	SendToUser(ctx context.Context, fcmToken string, notifType, title, body string, data map[string]interface{}) error
}

// Publisher pushes a message onto a seller's live feed.
type Publisher interface {
	Publish(userID uint, msgType string, data interface{})
}

// NotificationService fans a settlement out to the seller inbox, FCM, the
// live feed and (for orders) email.
type NotificationService struct {
	repo     *repository.NotificationRepository
	userRepo *repository.UserRepository
	push     Pusher
	mailer   notify.Mailer
	feed     Publisher
	wg       sync.WaitGroup
}

func NewNotificationService(repo *repository.NotificationRepository, userRepo *repository.UserRepository, push Pusher, mailer notify.Mailer, feed Publisher) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo, push: push, mailer: mailer, feed: feed}
}

func (s *NotificationService) Notify(userID uint, notifType, title, body string, data map[string]interface{}) error {
	raw, _ := json.Marshal(data)
	err := s.repo.Create(&models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   raw,
	})
	if s.feed != nil {
		s.feed.Publish(userID, notifType, data)
	}
	s.sendPush(userID, notifType, title, body, data)
	return err
}

// sendPush runs off the request path; settlement responses never wait on FCM.
func (s *NotificationService) sendPush(userID uint, notifType, title, body string, data map[string]interface{}) {
	if s.push == nil || s.userRepo == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		u, err := s.userRepo.GetByID(userID)
		if err != nil || u.FCMToken == "" {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.push.SendToUser(ctx, u.FCMToken, notifType, title, body, data); err != nil {
			zap.L().Warn("[Notify] push failed", zap.Uint("user_id", userID), zap.Error(err))
		}
	}()
}

func (s *NotificationService) OrderPaid(ctx context.Context, store *models.Store, order *models.Order) {
	n := notify.NewOrderNotice(order)
	if err := s.Notify(store.UserID, domain.FeedOrderPaid, "New order #"+n.OrderID,
		n.BuyerName+" paid "+notify.FormatNaira(n.Total),
		map[string]interface{}{"order_id": order.ID, "short_id": n.OrderID, "reference": order.PaymentReference, "total": order.TotalAmount.StringFixed(2)},
	); err != nil {
		zap.L().Warn("[Notify] order inbox write failed", zap.String("order_id", order.ID), zap.Error(err))
	}
	if s.mailer == nil || store.Email == "" {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		mctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.mailer.SendOrderEmail(mctx, store.Email, n); err != nil {
			zap.L().Error("[Notify] order email failed", zap.String("order_id", order.ID), zap.Error(err))
		}
	}()
}

func (s *NotificationService) SubscriptionActivated(ctx context.Context, store *models.Store, endDate time.Time) {
	if err := s.Notify(store.UserID, domain.FeedSubscriptionActive, "Subscription active",
		"Your store can accept payments until "+endDate.Format("2 Jan 2006"),
		map[string]interface{}{"store_id": store.ID, "end_date": endDate.Format(time.RFC3339)},
	); err != nil {
		zap.L().Warn("[Notify] subscription inbox write failed", zap.Uint("store_id", store.ID), zap.Error(err))
	}
}

func (s *NotificationService) PayoutResolved(ctx context.Context, store *models.Store, w *models.Withdrawal) {
	typ, title, body := domain.FeedWithdrawalSuccess, "Payout sent", notify.FormatNaira(w.Amount)+" is on its way to your bank"
	if w.Status == domain.WithdrawalFailed {
		typ, title, body = domain.FeedWithdrawalFailed, "Payout failed", notify.FormatNaira(w.Amount)+" was returned to your wallet"
	}
	if err := s.Notify(store.UserID, typ, title, body,
		map[string]interface{}{"reference": w.Reference, "amount": w.Amount.StringFixed(2), "status": string(w.Status)},
	); err != nil {
		zap.L().Warn("[Notify] payout inbox write failed", zap.String("reference", w.Reference), zap.Error(err))
	}
}

// Wait blocks until queued pushes and emails finish. Called on shutdown.
func (s *NotificationService) Wait() {
	s.wg.Wait()
}
