package handler

import (
	"io"
	"net/http"

	"carty/internal/service"
	"carty/internal/webhook"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	auth *webhook.Authenticator
	svc  *service.WebhookService
}

func NewWebhookHandler(auth *webhook.Authenticator, svc *service.WebhookService) *WebhookHandler {
	return &WebhookHandler{auth: auth, svc: svc}
}

// Paystack authenticates the raw body before anything is parsed. A non-2xx
// answer makes the provider redeliver.
func (h *WebhookHandler) Paystack(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	p := webhook.NewPayload(body)
	if err := h.auth.Authenticate(p, c.GetHeader(webhook.SignatureHeader)); err != nil {
		zap.L().Warn("[Webhook] signature rejected", zap.String("ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
		return
	}
	if err := h.svc.Handle(c.Request.Context(), p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
