package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"carty/internal/service"
	"carty/pkg/payment"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("store: %w", service.ErrNotFound), http.StatusNotFound},
		{service.ErrInvalidCreds, http.StatusUnauthorized},
		{fmt.Errorf("verify order: %w: %w", service.ErrGatewayUnavailable, errors.New("timeout")), http.StatusServiceUnavailable},
		{fmt.Errorf("%w: %w", service.ErrPayoutRejected, &payment.ProviderError{HTTPStatus: 400, Message: "no"}), http.StatusBadGateway},
		{service.ErrInsufficientFunds, http.StatusBadRequest},
		{service.ErrBelowMinimum, http.StatusBadRequest},
		{service.ErrBankNotLinked, http.StatusBadRequest},
		{service.ErrInvalidAmount, http.StatusBadRequest},
		{service.ErrInvalidAccount, http.StatusBadRequest},
		{fmt.Errorf("cart is empty: %w", service.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("you already have a store: %w", service.ErrConflict), http.StatusConflict},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		respondError(c, tc.err)
		require.Equal(t, tc.code, w.Code, tc.err.Error())

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.NotEmpty(t, body["error"])
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	respondError(c, fmt.Errorf("verify: %w: %w", service.ErrGatewayUnavailable, errors.New("dial tcp 10.0.0.1:443")))
	require.NotContains(t, w.Body.String(), "10.0.0.1", "transport details stay in the logs")
}
