package handler

import (
	"errors"
	"net/http"
	"strconv"

	"carty/internal/service"
	"carty/pkg/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps service errors onto HTTP statuses. Anything unknown is a
// 500 with a generic message; the cause is only logged.
func respondError(c *gin.Context, err error) {
	status, msg := http.StatusInternalServerError, "internal error"
	switch {
	case errors.Is(err, service.ErrNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrInvalidCreds):
		status, msg = http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, service.ErrGatewayUnavailable):
		status, msg = http.StatusServiceUnavailable, service.ErrGatewayUnavailable.Error()
	case errors.Is(err, service.ErrPayoutRejected), errors.Is(err, payment.ErrRejected):
		status, msg = http.StatusBadGateway, err.Error()
	case errors.Is(err, service.ErrInsufficientFunds),
		errors.Is(err, service.ErrBelowMinimum),
		errors.Is(err, service.ErrBankNotLinked),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidAccount),
		errors.Is(err, service.ErrPhoneExists):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrInvalidInput):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrConflict):
		status, msg = http.StatusConflict, err.Error()
	}
	if status >= http.StatusInternalServerError {
		zap.L().Error("[HTTP] request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err))
	}
	c.JSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
