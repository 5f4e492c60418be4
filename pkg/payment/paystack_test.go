package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, h http.HandlerFunc) *PaystackProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewPaystackProvider(srv.URL, "sk_test_123", "NGN", 2*time.Second)
}

func TestPaystack_VerifySuccess(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transaction/verify/carty_abc", r.URL.Path)
		require.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"status":true,"message":"ok","data":{"status":"success","reference":"carty_abc","amount":500000}}`))
	})
	v, err := p.VerifyPayment(context.Background(), "carty_abc")
	require.NoError(t, err)
	require.True(t, v.Paid)
	require.Equal(t, int64(500000), v.AmountKobo)
}

func TestPaystack_VerifyAbandoned(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":true,"message":"ok","data":{"status":"abandoned"}}`))
	})
	v, err := p.VerifyPayment(context.Background(), "carty_abc")
	require.NoError(t, err)
	require.False(t, v.Paid)
	require.Equal(t, "abandoned", v.Status)
}

func TestPaystack_VerifyUnknownReferenceIsUnpaid(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":false,"message":"Transaction reference not found"}`))
	})
	v, err := p.VerifyPayment(context.Background(), "carty_missing")
	require.NoError(t, err)
	require.False(t, v.Paid)
	require.Equal(t, "Transaction reference not found", v.Message)
}

func TestPaystack_VerifyAuthAndRateLimitAreUnavailable(t *testing.T) {
	for _, code := range []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests, http.StatusOK} {
		code := code
		p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
			_, _ = w.Write([]byte(`{"status":false,"message":"Invalid key"}`))
		})
		v, err := p.VerifyPayment(context.Background(), "carty_abc")
		require.Error(t, err, "http %d", code)
		require.Nil(t, v)
		require.False(t, errors.Is(err, ErrRejected), "http %d", code)
	}
}

func TestPaystack_VerifyNotFoundIsUnpaid(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":false,"message":"Transaction not found"}`))
	})
	v, err := p.VerifyPayment(context.Background(), "carty_missing")
	require.NoError(t, err)
	require.False(t, v.Paid)
}

func TestPaystack_VerifyServerErrorIsError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := p.VerifyPayment(context.Background(), "carty_abc")
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrRejected))
}

func TestPaystack_VerifyTimeout(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	})
	p.client.Timeout = 50 * time.Millisecond
	_, err := p.VerifyPayment(context.Background(), "carty_abc")
	require.Error(t, err)
}

func TestPaystack_Initialize(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/transaction/initialize", r.URL.Path)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "08011112222@carty.store", body["email"])
		require.EqualValues(t, 525000, body["amount"])
		require.Equal(t, "carty_0123456789ab", body["reference"])
		_, _ = w.Write([]byte(`{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.paystack.com/x","access_code":"x","reference":"carty_0123456789ab"}}`))
	})
	resp, err := p.InitiatePayment(context.Background(), PaymentRequest{
		Reference:  "carty_0123456789ab",
		Email:      "08011112222@carty.store",
		AmountKobo: ToKobo(decimal.RequireFromString("5250")),
	})
	require.NoError(t, err)
	require.Equal(t, "https://checkout.paystack.com/x", resp.AuthorizationURL)
}

func TestPaystack_TransferRejected(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "balance", body["source"])
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":false,"message":"Your balance is not enough to fulfil this request"}`))
	})
	_, err := p.Transfer(context.Background(), TransferRequest{Reference: "wd_x", RecipientCode: "RCP_1", AmountKobo: 10000})
	require.ErrorIs(t, err, ErrRejected)
	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, http.StatusBadRequest, perr.HTTPStatus)
}

func TestPaystack_ResolveAndRecipient(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bank/resolve":
			require.Equal(t, "0123456789", r.URL.Query().Get("account_number"))
			require.Equal(t, "058", r.URL.Query().Get("bank_code"))
			_, _ = w.Write([]byte(`{"status":true,"data":{"account_number":"0123456789","account_name":"ADA OBI"}}`))
		case "/transferrecipient":
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "nuban", body["type"])
			require.Equal(t, "NGN", body["currency"])
			_, _ = w.Write([]byte(`{"status":true,"data":{"recipient_code":"RCP_abc"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	acct, err := p.ResolveAccount(context.Background(), "0123456789", "058")
	require.NoError(t, err)
	require.Equal(t, "ADA OBI", acct.AccountName)
	code, err := p.CreateRecipient(context.Background(), *acct)
	require.NoError(t, err)
	require.Equal(t, "RCP_abc", code)
}

func TestPaystack_ListBanks(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bank", r.URL.Path)
		require.Equal(t, "ghana", r.URL.Query().Get("country"))
		require.Equal(t, "100", r.URL.Query().Get("perPage"))
		_, _ = w.Write([]byte(`{"status":true,"message":"Banks retrieved","data":[{"name":"Absa Bank Ghana","code":"030100","slug":"absa-bank-ghana","id":1}]}`))
	})
	banks, err := p.ListBanks(context.Background(), "ghana")
	require.NoError(t, err)
	require.Equal(t, []Bank{{Name: "Absa Bank Ghana", Code: "030100", Slug: "absa-bank-ghana"}}, banks)
}

func TestKoboConversion(t *testing.T) {
	require.Equal(t, int64(500000), ToKobo(decimal.NewFromInt(5000)))
	require.Equal(t, int64(1050), ToKobo(decimal.RequireFromString("10.5")))
	require.True(t, FromKobo(750000).Equal(decimal.NewFromInt(7500)))
}
