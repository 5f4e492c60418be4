package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"carty/internal/domain"
	"carty/internal/models"
	"carty/internal/repository"
	"carty/internal/testutil"

	"github.com/stretchr/testify/require"
)

// slowPusher holds every push until release is closed.
type slowPusher struct {
	release chan struct{}
	mu      sync.Mutex
	tokens  []string
}

func (p *slowPusher) SendToUser(ctx context.Context, fcmToken string, notifType, title, body string, data map[string]interface{}) error {
	<-p.release
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tokens = append(p.tokens, fcmToken)
	return nil
}

func (p *slowPusher) sent() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.tokens...)
}

func TestNotify_PushDoesNotBlockCaller(t *testing.T) {
	db := testutil.NewDB(t)
	users := repository.NewUserRepository(db)
	u := &models.User{Phone: "08011112222", PasswordHash: "x", FCMToken: "device-1"}
	require.NoError(t, users.Create(u))

	pusher := &slowPusher{release: make(chan struct{})}
	svc := NewNotificationService(repository.NewNotificationRepository(db), users, pusher, nil, nil)

	done := make(chan error, 1)
	go func() {
		done <- svc.Notify(u.ID, domain.FeedOrderPaid, "New order", "paid", map[string]interface{}{"order_id": "abc"})
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Notify waited on the push")
	}
	require.Empty(t, pusher.sent())

	close(pusher.release)
	svc.Wait()
	require.Equal(t, []string{"device-1"}, pusher.sent())

	inbox, err := repository.NewNotificationRepository(db).ListForSeller(u.ID, repository.InboxPage{})
	require.NoError(t, err)
	require.Len(t, inbox, 1)
}

func TestNotify_NoTokenSkipsPush(t *testing.T) {
	db := testutil.NewDB(t)
	users := repository.NewUserRepository(db)
	u := &models.User{Phone: "08033334444", PasswordHash: "x"}
	require.NoError(t, users.Create(u))

	pusher := &slowPusher{release: make(chan struct{})}
	close(pusher.release)
	svc := NewNotificationService(repository.NewNotificationRepository(db), users, pusher, nil, nil)
	require.NoError(t, svc.Notify(u.ID, domain.FeedSubscriptionActive, "Subscription active", "ok", nil))
	svc.Wait()
	require.Empty(t, pusher.sent())
}
