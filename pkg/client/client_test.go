package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erniranjank15/Bank/pkg/bank"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/"}, opts...)
}

func TestNew_Defaults(t *testing.T) {
	c := New(Config{BaseURL: "http://localhost:8000/"})

	assert.Equal(t, "http://localhost:8000", c.BaseURL())
	assert.Equal(t, defaultTimeout, c.httpClient.Timeout)
	assert.Nil(t, c.limiter)
	assert.Equal(t, defaultUserAgent, c.userAgent)
}

func TestNew_RateLimit(t *testing.T) {
	c := New(Config{BaseURL: "http://x", RateLimit: 5})
	require.NotNil(t, c.limiter)
	assert.Equal(t, 1, c.limiter.Burst())
}

func TestClient_HeadersAndAuth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/accounts/", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, err := uuid.Parse(r.Header.Get(RequestIDHeader))
		assert.NoError(t, err)
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{"acc_no": 1, "balance": 500.0, "acc_type": "Savings"},
		})
	}, WithToken(func() string { return "tok-1" }))

	accounts, err := c.ListAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, int64(1), accounts[0].AccNo)
	assert.True(t, accounts[0].Balance.Equal(decimal.NewFromInt(500)))
}

func TestClient_NoTokenNoAuthorizationHeader(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	}, WithToken(func() string { return "" }))

	users, err := c.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestClient_DepositQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/accounts/1/deposit", r.URL.Path)
		assert.Equal(t, "200.5", r.URL.Query().Get("amount"))
		body, _ := io.ReadAll(r.Body)
		assert.Empty(t, body)
		_, _ = w.Write([]byte(`{"acc_no":1,"balance":700.5}`))
	})

	acc, err := c.Deposit(context.Background(), 1, decimal.RequireFromString("200.5"))
	require.NoError(t, err)
	assert.True(t, acc.Balance.Equal(decimal.RequireFromString("700.5")))
}

func TestClient_WithdrawPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/3/withdraw", r.URL.Path)
		assert.Equal(t, "50", r.URL.Query().Get("amount"))
		_, _ = w.Write([]byte(`{"acc_no":3,"balance":50}`))
	})

	acc, err := c.Withdraw(context.Background(), 3, decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.Equal(t, int64(3), acc.AccNo)
}

func TestClient_UpdateSendsOnlySetFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"acc_holder_address":"New Street 1"}`, string(body))
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"acc_no":4,"acc_holder_address":"New Street 1"}`))
	})

	addr := "New Street 1"
	acc, err := c.UpdateAccount(context.Background(), 4, bank.AccountUpdate{AccHolderAddress: &addr})
	require.NoError(t, err)
	assert.Equal(t, addr, acc.AccHolderAddress)
}

func TestClient_Delete(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/accounts/9", r.URL.Path)
		_, _ = w.Write([]byte(`{"message":"Account deleted successfully"}`))
	})

	assert.NoError(t, c.DeleteAccount(context.Background(), 9))
}

func TestClient_LoginForm(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/login", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "asha", r.PostForm.Get("username"))
		assert.Equal(t, "s3cret!", r.PostForm.Get("password"))
		_, _ = w.Write([]byte(`{"access_token":"abc","token_type":"bearer"}`))
	})

	tok, err := c.Login(context.Background(), "asha", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok.AccessToken)
	assert.Equal(t, "bearer", tok.TokenType)
}

func TestClient_APIErrorDetail(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		detail string
	}{
		{"string detail", http.StatusBadRequest, `{"detail":"Insufficient balance"}`, "Insufficient balance"},
		{"validation list", http.StatusUnprocessableEntity, `{"detail":[{"loc":["query","amount"],"msg":"field required"}]}`, "field required"},
		{"no detail", http.StatusInternalServerError, `{"error":"x"}`, ""},
		{"not json", http.StatusBadGateway, `<html>bad gateway</html>`, ""},
		{"empty", http.StatusNotFound, ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.GetAccount(context.Background(), 1)
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.detail, apiErr.Message())
			assert.True(t, IsStatus(err, tt.status))
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(Config{BaseURL: srv.URL, Timeout: time.Second})
	_, err := c.ListAccounts(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestClient_ContextCanceled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ListAccounts(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_NotFoundHelpers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"User not found"}`))
	})

	_, err := c.GetUser(context.Background(), 77)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsUnauthorized(err))
	assert.Contains(t, err.Error(), "User not found")
}
