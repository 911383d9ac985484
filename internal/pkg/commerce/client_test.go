package commerce

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestVerifySuccess(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{
		"productOrder": {
			"productOrderId": "2024010112345",
			"productOrderStatus": "PAYED",
			"productName": "CardMoa Premium",
			"sellerCustomCode": "premium",
			"totalPaymentAmount": 29000
		}
	}`)
	defer srv.Close()

	order, err := NewClient(srv.URL, "test-token").Verify(context.Background(), "2024010112345")
	require.NoError(t, err)
	assert.Equal(t, "2024010112345", order.OrderID)
	assert.Equal(t, "premium", order.PaymentType)
	assert.Equal(t, 29000, order.Amount)
	assert.Equal(t, "CardMoa Premium", order.ProductName)
}

func TestVerifyNotFound(t *testing.T) {
	srv := newTestServer(t, http.StatusNotFound, `{}`)
	defer srv.Close()

	_, err := NewClient(srv.URL, "test-token").Verify(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.True(t, IsVerificationError(err))
}

func TestVerifyCanceledOrder(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{
		"productOrder": {
			"productOrderId": "x",
			"productOrderStatus": "CANCELED",
			"productName": "CardMoa Premium",
			"sellerCustomCode": "premium",
			"totalPaymentAmount": 29000
		}
	}`)
	defer srv.Close()

	_, err := NewClient(srv.URL, "test-token").Verify(context.Background(), "x")
	assert.ErrorIs(t, err, ErrOrderCanceled)
}

func TestVerifyMalformedResponse(t *testing.T) {
	cases := map[string]string{
		"not json":       `<!doctype html>`,
		"missing order":  `{}`,
		"missing amount": `{"productOrder":{"productOrderId":"x","productOrderStatus":"PAYED","sellerCustomCode":"premium"}}`,
		"missing code":   `{"productOrder":{"productOrderId":"x","productOrderStatus":"PAYED","totalPaymentAmount":29000}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			srv := newTestServer(t, http.StatusOK, body)
			defer srv.Close()

			_, err := NewClient(srv.URL, "test-token").Verify(context.Background(), "x")
			assert.ErrorIs(t, err, ErrMalformedReply)
		})
	}
}

func TestVerifyProviderErrorIsNotVerificationError(t *testing.T) {
	srv := newTestServer(t, http.StatusInternalServerError, `{}`)
	defer srv.Close()

	_, err := NewClient(srv.URL, "test-token").Verify(context.Background(), "x")
	require.Error(t, err)
	assert.False(t, IsVerificationError(err))
}

func TestVerifyEmptyOrderID(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:0", "test-token").Verify(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
