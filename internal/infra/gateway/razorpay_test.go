package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key_id", user)
		assert.Equal(t, "key_secret", pass)

		var body CreateOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(25000), body.Amount)
		assert.Equal(t, "INR", body.Currency)
		assert.Equal(t, "ORDER1", body.Receipt)
		assert.Equal(t, 1, body.PaymentCapture)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_abc","entity":"order","amount":25000,"currency":"INR","receipt":"ORDER1","status":"created"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "key_id", "key_secret", time.Second)
	o, err := c.CreateOrder(context.Background(), 25000, "INR", "ORDER1")
	require.NoError(t, err)
	assert.Equal(t, "order_abc", o.ID)
	assert.Equal(t, int64(25000), o.Amount)
	assert.Equal(t, "created", o.Status)
	assert.Equal(t, "key_id", c.KeyID())
}

func TestCreateOrder_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", "s", time.Second)
	_, err := c.CreateOrder(context.Background(), 100, "INR", "R")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "BAD_REQUEST_ERROR")
}

func TestVerifyPaymentSignature(t *testing.T) {
	c := NewClient("http://unused", "k", "secret", time.Second)
	sig := Sign("secret", "order_1", "pay_1")

	assert.NoError(t, c.VerifyPaymentSignature("order_1", "pay_1", sig))
	assert.ErrorIs(t, c.VerifyPaymentSignature("order_1", "pay_2", sig), ErrSignatureMismatch)
	assert.ErrorIs(t, c.VerifyPaymentSignature("order_1", "pay_1", "deadbeef"), ErrSignatureMismatch)
	assert.ErrorIs(t, c.VerifyPaymentSignature("order_1", "pay_1", ""), ErrSignatureMismatch)
}
