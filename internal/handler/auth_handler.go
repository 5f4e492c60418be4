package handler

import (
	"net/http"

	"carty/internal/middleware"
	"carty/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type RegisterRequest struct {
	Phone    string `json:"phone" binding:"required,min=7,max=20"`
	Password string `json:"password" binding:"required,min=6"`
	Country  string `json:"country" binding:"omitempty,len=2"`
	State    string `json:"state"`
}

type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, token, err := h.svc.Register(req.Phone, req.Password, req.Country, req.State)
	if err != nil {
		respondError(c, err)
		return
	}
	zap.L().Info("[Auth] registered", zap.Uint("user_id", u.ID))
	c.JSON(http.StatusCreated, gin.H{"token": token, "user_id": u.ID, "phone": u.Phone})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, token, err := h.svc.Login(req.Phone, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user_id": u.ID, "phone": u.Phone})
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, store, err := h.svc.Me(middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	resp := gin.H{
		"user_id":    u.ID,
		"phone":      u.Phone,
		"country":    u.Country,
		"state":      u.State,
		"has_store":  store != nil,
		"store_id":   nil,
		"store_slug": nil,
	}
	if store != nil {
		resp["store_id"] = store.ID
		resp["store_slug"] = store.Slug
	}
	c.JSON(http.StatusOK, resp)
}

// RegisterFCMToken saves the device token used for order push notifications.
func (h *AuthHandler) RegisterFCMToken(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.svc.RegisterFCMToken(middleware.GetUserID(c), req.Token); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
