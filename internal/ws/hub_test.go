package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"carty/config"
	"carty/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestHubPublishToUser(t *testing.T) {
	h := NewHub()
	a, b := NewClient(1), NewClient(2)
	h.Register(a)
	h.Register(b)
	require.Equal(t, 2, h.ClientCount())

	h.Publish(1, "order_paid", map[string]string{"order_id": "ABC123"})
	select {
	case raw := <-a.Send:
		var m Message
		require.NoError(t, json.Unmarshal(raw, &m))
		require.Equal(t, "order_paid", m.Type)
	default:
		t.Fatal("expected message for user 1")
	}
	require.Len(t, b.Send, 0)

	a.Close()
	a.Close()
	require.Equal(t, 1, h.ClientCount())
	h.Publish(1, "order_paid", nil)
}

func TestServeOrderFeed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.JWTConfig{AccessSecret: "s", AccessExpiry: time.Hour}
	hub := NewHub()
	r := gin.New()
	r.GET("/ws/orders", ServeOrderFeed(cfg, hub))
	srv := httptest.NewServer(r)
	defer srv.Close()
	base := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/orders"

	_, resp, err := websocket.DefaultDialer.Dial(base+"?token=bad", nil)
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	tok, err := auth.GenerateAccessToken(cfg, 7, "0801")
	require.NoError(t, err)
	conn, _, err := websocket.DefaultDialer.Dial(base+"?token="+tok, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	hub.Publish(7, "order_paid", map[string]string{"order_id": "ABC123"})
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var m Message
	require.NoError(t, conn.ReadJSON(&m))
	require.Equal(t, "order_paid", m.Type)
}
