package actions

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/erniranjank15/Bank/pkg/bank"
	"github.com/erniranjank15/Bank/pkg/store"
)

func (b *Bank) CreateUser(ctx context.Context, u bank.NewUser) Result[bank.User] {
	return run(ctx, b, operation{
		name:     "create_user",
		failure:  "Failed to create user",
		success:  "User created successfully!",
		logField: logrus.Fields{"username": u.Username},
	}, func(ctx context.Context) (bank.User, error) {
		return b.api.CreateUser(ctx, u)
	}, func(created bank.User) store.Transition {
		return store.AddUser{User: created}
	})
}

func (b *Bank) FetchUsers(ctx context.Context) Result[[]bank.User] {
	return run(ctx, b, operation{
		name:    "fetch_users",
		failure: "Failed to fetch users",
	}, b.api.ListUsers, func(users []bank.User) store.Transition {
		return store.SetUsers{Users: users}
	})
}

// FetchUserProfile returns the user with nested accounts without storing it.
// No success transition runs, so Loading stays set until the next
// transition clears it.
func (b *Bank) FetchUserProfile(ctx context.Context, userID int64) Result[bank.User] {
	return run(ctx, b, operation{
		name:     "fetch_user_profile",
		failure:  "Failed to fetch user profile",
		logField: logrus.Fields{"user_id": userID},
	}, func(ctx context.Context) (bank.User, error) {
		return b.api.GetUser(ctx, userID)
	}, nil)
}

func (b *Bank) CreateAccount(ctx context.Context, a bank.NewAccount) Result[bank.Account] {
	return run(ctx, b, operation{
		name:    "create_account",
		failure: "Failed to create account",
		success: "Account created successfully!",
	}, func(ctx context.Context) (bank.Account, error) {
		return b.api.CreateAccount(ctx, a)
	}, func(acc bank.Account) store.Transition {
		return store.AddAccount{Account: acc}
	})
}

func (b *Bank) FetchAccounts(ctx context.Context) Result[[]bank.Account] {
	return run(ctx, b, operation{
		name:    "fetch_accounts",
		failure: "Failed to fetch accounts",
	}, b.api.ListAccounts, func(accounts []bank.Account) store.Transition {
		return store.SetAccounts{Accounts: accounts}
	})
}

func (b *Bank) FetchAccount(ctx context.Context, accNo int64) Result[bank.Account] {
	return run(ctx, b, operation{
		name:     "fetch_account",
		failure:  "Failed to fetch account",
		logField: logrus.Fields{"acc_no": accNo},
	}, func(ctx context.Context) (bank.Account, error) {
		return b.api.GetAccount(ctx, accNo)
	}, func(acc bank.Account) store.Transition {
		return store.SetCurrentAccount{Account: &acc}
	})
}

func (b *Bank) UpdateAccount(ctx context.Context, accNo int64, u bank.AccountUpdate) Result[bank.Account] {
	return run(ctx, b, operation{
		name:     "update_account",
		failure:  "Failed to update account",
		success:  "Account updated successfully!",
		logField: logrus.Fields{"acc_no": accNo},
	}, func(ctx context.Context) (bank.Account, error) {
		return b.api.UpdateAccount(ctx, accNo, u)
	}, func(acc bank.Account) store.Transition {
		return store.UpdateAccount{Account: acc}
	})
}

// DeleteAccount removes the account by the acc_no that was asked for, not by
// anything in the response.
func (b *Bank) DeleteAccount(ctx context.Context, accNo int64) Result[Empty] {
	return run(ctx, b, operation{
		name:     "delete_account",
		failure:  "Failed to delete account",
		success:  "Account deleted successfully!",
		logField: logrus.Fields{"acc_no": accNo},
	}, func(ctx context.Context) (Empty, error) {
		return Empty{}, b.api.DeleteAccount(ctx, accNo)
	}, func(Empty) store.Transition {
		return store.DeleteAccount{AccNo: accNo}
	})
}

// Deposit does not check the amount; the server rejects non-positive values.
func (b *Bank) Deposit(ctx context.Context, accNo int64, amount decimal.Decimal) Result[bank.Account] {
	return run(ctx, b, operation{
		name:     "deposit",
		failure:  "Failed to deposit",
		success:  fmt.Sprintf("Successfully deposited $%s", amount),
		logField: logrus.Fields{"acc_no": accNo, "amount": amount.String()},
	}, func(ctx context.Context) (bank.Account, error) {
		return b.api.Deposit(ctx, accNo, amount)
	}, func(acc bank.Account) store.Transition {
		return store.UpdateAccount{Account: acc}
	})
}

// Withdraw does not check the amount against the balance; the server is
// authoritative.
func (b *Bank) Withdraw(ctx context.Context, accNo int64, amount decimal.Decimal) Result[bank.Account] {
	return run(ctx, b, operation{
		name:     "withdraw",
		failure:  "Failed to withdraw",
		success:  fmt.Sprintf("Successfully withdrew $%s", amount),
		logField: logrus.Fields{"acc_no": accNo, "amount": amount.String()},
	}, func(ctx context.Context) (bank.Account, error) {
		return b.api.Withdraw(ctx, accNo, amount)
	}, func(acc bank.Account) store.Transition {
		return store.UpdateAccount{Account: acc}
	})
}
