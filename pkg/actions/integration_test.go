package actions

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/erniranjank15/Bank/pkg/bank"
	"github.com/erniranjank15/Bank/pkg/banktest"
	"github.com/erniranjank15/Bank/pkg/client"
	"github.com/erniranjank15/Bank/pkg/store"
)

func TestBank_AgainstBackend(t *testing.T) {
	backend, srv := banktest.NewServer(banktest.WithPasswordCost(bcrypt.MinCost))
	defer srv.Close()

	_, err := backend.AddUser(bank.NewUser{Username: "asha", Email: "asha@bank.test", Password: "ashapass"})
	require.NoError(t, err)

	ctx := context.Background()
	tok, err := client.New(client.Config{BaseURL: srv.URL}).Login(ctx, "asha", "ashapass")
	require.NoError(t, err)
	api := client.New(client.Config{BaseURL: srv.URL}, client.WithToken(func() string { return tok.AccessToken }))

	h := newHarness(api, store.Snapshot{})
	b := h.bank

	balance := decimal.NewFromInt(500)
	created := b.CreateAccount(ctx, bank.NewAccount{AccHolderName: "Asha", AccType: bank.AccountSavings, Balance: &balance})
	require.True(t, created.Success)
	accNo := created.Data.AccNo

	require.True(t, b.FetchAccount(ctx, accNo).Success)
	require.True(t, b.Deposit(ctx, accNo, decimal.NewFromInt(200)).Success)

	snap := h.store.Snapshot()
	acc, ok := snap.Account(accNo)
	require.True(t, ok)
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(700)))
	assert.True(t, snap.CurrentAccount.Balance.Equal(decimal.NewFromInt(700)))

	res := b.Withdraw(ctx, accNo, decimal.NewFromInt(5000))
	assert.False(t, res.Success)
	snap = h.store.Snapshot()
	assert.Equal(t, "Insufficient funds for withdrawal", snap.Error)
	acc, _ = snap.Account(accNo)
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(700)))

	// Listing every account needs an admin.
	assert.False(t, b.FetchAccounts(ctx).Success)
	assert.Equal(t, "Admin access required", h.store.Snapshot().Error)
	assert.Len(t, h.store.Snapshot().Accounts, 1)

	profile := b.FetchUserProfile(ctx, 1)
	require.True(t, profile.Success)
	assert.Len(t, profile.Data.Accounts, 1)
}
