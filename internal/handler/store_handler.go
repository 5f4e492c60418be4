package handler

import (
	"net/http"
	"strconv"

	"carty/internal/middleware"
	"carty/internal/service"

	"github.com/gin-gonic/gin"
)

type StoreHandler struct {
	svc *service.StoreService
}

func NewStoreHandler(svc *service.StoreService) *StoreHandler {
	return &StoreHandler{svc: svc}
}

type StoreRequest struct {
	Name           string `json:"name" binding:"max=128"`
	Logo           string `json:"logo" binding:"max=512"`
	WhatsAppNumber string `json:"whatsapp_number" binding:"max=32"`
	Email          string `json:"email" binding:"omitempty,email"`
}

func (r StoreRequest) input() service.StoreInput {
	return service.StoreInput{Name: r.Name, Logo: r.Logo, WhatsAppNumber: r.WhatsAppNumber, Email: r.Email}
}

func (h *StoreHandler) Create(c *gin.Context) {
	var req StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	st, err := h.svc.Create(middleware.GetUserID(c), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"store": st, "slug": st.Slug})
}

func (h *StoreHandler) MyStore(c *gin.Context) {
	st, err := h.svc.MyStore(middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *StoreHandler) Update(c *gin.Context) {
	var req StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	st, err := h.svc.Update(middleware.GetUserID(c), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *StoreHandler) Dashboard(c *gin.Context) {
	d, err := h.svc.Dashboard(middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_orders":          d.TotalOrders,
		"total_sales":           d.TotalSales,
		"wallet_balance":        d.Store.WalletBalance,
		"pending_balance":       d.Store.PendingBalance,
		"total_earnings":        d.Store.TotalEarnings,
		"products_count":        d.ProductsCount,
		"subscription_status":   d.Store.SubscriptionStatus,
		"subscription_end_date": d.Store.SubscriptionEndDate,
		"recent_orders":         d.RecentOrders,
		"store_slug":            d.Store.Slug,
	})
}

func (h *StoreHandler) Orders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.svc.Orders(middleware.GetUserID(c), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
