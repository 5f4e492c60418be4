package handler

import (
	"net/http"

	"carty/internal/middleware"
	"carty/internal/service"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	svc *service.SubscriptionService
}

func NewSubscriptionHandler(svc *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc}
}

// Price reports the subscription price in naira.
func (h *SubscriptionHandler) Price(c *gin.Context) {
	price := h.svc.Price()
	c.JSON(http.StatusOK, gin.H{"ngn_price": price, "local_price": price, "currency": "NGN", "symbol": "₦"})
}

func (h *SubscriptionHandler) Initialize(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	co, err := h.svc.InitializeSubscription(c.Request.Context(), middleware.GetUserID(c), req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"authorization_url": co.AuthorizationURL, "reference": co.Reference})
}

func (h *SubscriptionHandler) Verify(c *gin.Context) {
	res, err := h.svc.VerifySubscription(c.Request.Context(), middleware.GetUserID(c), c.Param("reference"))
	if err != nil {
		respondError(c, err)
		return
	}
	switch res.Outcome {
	case service.OutcomeSettled:
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Subscription activated!", "end_date": res.EndDate})
	case service.OutcomeAlreadySettled:
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Subscription already active", "end_date": res.EndDate})
	default:
		c.JSON(http.StatusOK, gin.H{"status": "failed", "message": "Subscription verification failed"})
	}
}
