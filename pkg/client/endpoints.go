package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/erniranjank15/Bank/pkg/bank"
)

func accountPath(accNo int64) string {
	return "/accounts/" + strconv.FormatInt(accNo, 10)
}

// Login exchanges credentials for an access token. The API expects an OAuth2
// password form.
func (c *Client) Login(ctx context.Context, username, password string) (bank.Token, error) {
	var tok bank.Token
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/login",
		form:   url.Values{"username": {username}, "password": {password}},
	}, &tok)
	return tok, err
}

func (c *Client) CreateUser(ctx context.Context, u bank.NewUser) (bank.User, error) {
	var out bank.User
	err := c.do(ctx, request{method: http.MethodPost, path: "/users/", body: u}, &out)
	return out, err
}

func (c *Client) ListUsers(ctx context.Context) ([]bank.User, error) {
	var out []bank.User
	err := c.do(ctx, request{method: http.MethodGet, path: "/users/"}, &out)
	return out, err
}

// GetUser returns the user with their accounts nested.
func (c *Client) GetUser(ctx context.Context, userID int64) (bank.User, error) {
	var out bank.User
	err := c.do(ctx, request{method: http.MethodGet, path: "/users/" + strconv.FormatInt(userID, 10)}, &out)
	return out, err
}

func (c *Client) CreateAccount(ctx context.Context, a bank.NewAccount) (bank.Account, error) {
	var out bank.Account
	err := c.do(ctx, request{method: http.MethodPost, path: "/accounts/", body: a}, &out)
	return out, err
}

func (c *Client) ListAccounts(ctx context.Context) ([]bank.Account, error) {
	var out []bank.Account
	err := c.do(ctx, request{method: http.MethodGet, path: "/accounts/"}, &out)
	return out, err
}

func (c *Client) GetAccount(ctx context.Context, accNo int64) (bank.Account, error) {
	var out bank.Account
	err := c.do(ctx, request{method: http.MethodGet, path: accountPath(accNo)}, &out)
	return out, err
}

func (c *Client) UpdateAccount(ctx context.Context, accNo int64, u bank.AccountUpdate) (bank.Account, error) {
	var out bank.Account
	err := c.do(ctx, request{method: http.MethodPatch, path: accountPath(accNo), body: u}, &out)
	return out, err
}

func (c *Client) DeleteAccount(ctx context.Context, accNo int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: accountPath(accNo)}, nil)
}

func (c *Client) Deposit(ctx context.Context, accNo int64, amount decimal.Decimal) (bank.Account, error) {
	return c.move(ctx, accNo, "deposit", amount)
}

func (c *Client) Withdraw(ctx context.Context, accNo int64, amount decimal.Decimal) (bank.Account, error) {
	return c.move(ctx, accNo, "withdraw", amount)
}

// move posts a balance change. The amount travels in the query string and the
// request has no body.
func (c *Client) move(ctx context.Context, accNo int64, kind string, amount decimal.Decimal) (bank.Account, error) {
	var out bank.Account
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   accountPath(accNo) + "/" + kind,
		query:  url.Values{"amount": {amount.String()}},
	}, &out)
	return out, err
}
