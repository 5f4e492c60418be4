package handler

import (
	"net/http"

	"carty/internal/service"

	"github.com/gin-gonic/gin"
)

// StorefrontHandler serves the public buyer-facing routes. None of them
// require a token.
type StorefrontHandler struct {
	stores   *service.StoreService
	checkout *service.CheckoutService
	orders   *service.OrderSettlementService
}

func NewStorefrontHandler(stores *service.StoreService, checkout *service.CheckoutService, orders *service.OrderSettlementService) *StorefrontHandler {
	return &StorefrontHandler{stores: stores, checkout: checkout, orders: orders}
}

type CartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type CheckoutRequest struct {
	BuyerName    string            `json:"buyer_name" binding:"required,max=255"`
	BuyerPhone   string            `json:"buyer_phone" binding:"required,max=32"`
	BuyerAddress string            `json:"buyer_address"`
	BuyerNote    string            `json:"buyer_note"`
	CartItems    []CartItemRequest `json:"cart_items" binding:"required,min=1,dive"`
}

func (h *StorefrontHandler) Get(c *gin.Context) {
	sf, err := h.stores.Storefront(c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"store": gin.H{
			"name":                sf.Store.Name,
			"slug":                sf.Store.Slug,
			"logo":                sf.Store.Logo,
			"whatsapp_number":     sf.Store.WhatsAppNumber,
			"subscription_status": sf.Store.SubscriptionStatus,
		},
		"products": sf.Products,
	})
}

func (h *StorefrontHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	items := make([]service.CartItem, len(req.CartItems))
	for i, it := range req.CartItems {
		items[i] = service.CartItem{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	res, err := h.checkout.Checkout(c.Request.Context(), c.Param("slug"), service.CheckoutInput{
		BuyerName:    req.BuyerName,
		BuyerPhone:   req.BuyerPhone,
		BuyerAddress: req.BuyerAddress,
		BuyerNote:    req.BuyerNote,
		Items:        items,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if res.SubscriptionRequired {
		c.JSON(http.StatusOK, gin.H{
			"status":        "subscription_required",
			"message":       "This store is not accepting payments.",
			"whatsapp_link": res.WhatsAppLink,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":            "success",
		"authorization_url": res.AuthorizationURL,
		"reference":         res.Reference,
		"order_id":          res.Order.ID,
		"total":             res.Order.TotalAmount,
	})
}

// Verify is polled by the buyer's browser after the provider redirect.
func (h *StorefrontHandler) Verify(c *gin.Context) {
	res, err := h.orders.VerifyOrder(c.Request.Context(), c.Param("slug"), c.Param("reference"))
	if err != nil {
		respondError(c, err)
		return
	}
	switch res.Outcome {
	case service.OutcomeFailed:
		c.JSON(http.StatusOK, gin.H{"status": "failed", "message": "Payment verification failed"})
		return
	case service.OutcomeAlreadySettled:
		c.JSON(http.StatusOK, gin.H{
			"status":        "success",
			"message":       "Payment already verified",
			"order_id":      res.Order.ID,
			"whatsapp_link": res.WhatsAppLink,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":        "success",
		"message":       "Payment verified",
		"order_id":      res.Order.ID,
		"whatsapp_link": res.WhatsAppLink,
	})
}
