package handler

import (
	"net/http"

	"carty/internal/middleware"
	"carty/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type WalletHandler struct {
	svc *service.PayoutService
}

func NewWalletHandler(svc *service.PayoutService) *WalletHandler {
	return &WalletHandler{svc: svc}
}

// Get returns the store ledger and the ten most recent payouts.
func (h *WalletHandler) Get(c *gin.Context) {
	v, err := h.svc.Wallet(middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"wallet_balance":      v.Store.WalletBalance,
		"pending_balance":     v.Store.PendingBalance,
		"total_earnings":      v.Store.TotalEarnings,
		"bank_name":           v.Store.BankName,
		"bank_account_number": v.Store.BankAccountNumber,
		"withdrawals":         v.Withdrawals,
	})
}

func (h *WalletHandler) Banks(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Banks(c.Request.Context(), c.DefaultQuery("country", "NG")))
}

func (h *WalletHandler) VerifyAccount(c *gin.Context) {
	acct, err := h.svc.ResolveAccount(c.Request.Context(), c.Query("account_number"), c.Query("bank_code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account_name": acct.AccountName, "account_number": acct.AccountNumber})
}

type SetupBankRequest struct {
	BankCode      string `json:"bank_code" binding:"required"`
	AccountNumber string `json:"account_number" binding:"required"`
	BankName      string `json:"bank_name"`
}

func (h *WalletHandler) SetupBank(c *gin.Context) {
	var req SetupBankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	st, err := h.svc.SetupBank(c.Request.Context(), middleware.GetUserID(c), req.BankCode, req.AccountNumber, req.BankName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":         "success",
		"account_name":   st.BankAccountName,
		"bank_name":      st.BankName,
		"account_number": st.BankAccountNumber,
	})
}

func (h *WalletHandler) UnlinkBank(c *gin.Context) {
	if err := h.svc.UnlinkBank(middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

type WithdrawRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *WalletHandler) Withdraw(c *gin.Context) {
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	w, err := h.svc.Withdraw(c.Request.Context(), middleware.GetUserID(c), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Withdrawal initiated", "reference": w.Reference})
}

type TransferRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	BankCode      string          `json:"bank_code" binding:"required"`
	AccountNumber string          `json:"account_number" binding:"required"`
}

func (h *WalletHandler) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	w, err := h.svc.Transfer(c.Request.Context(), middleware.GetUserID(c), service.TransferInput{
		Amount:        req.Amount,
		BankCode:      req.BankCode,
		AccountNumber: req.AccountNumber,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "account_name": w.AccountName, "reference": w.Reference})
}
