// Package banktest is an in-memory stand-in for the bank REST API. It speaks
// the same routes, auth scheme and {"detail": ...} error bodies, and is meant
// for tests and local development.
package banktest

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/erniranjank15/Bank/pkg/bank"
)

const (
	tokenTTL       = 30 * time.Minute
	defaultIFSC    = 123456
	defaultBranch  = "Main Branch"
	defaultSecret  = "BANK_SECRET_KEY_123"
	minimumBalance = 100
)

type storedUser struct {
	bank.User
	passwordHash []byte
}

// Backend holds users and accounts in memory.
type Backend struct {
	mu         sync.Mutex
	users      []storedUser
	accounts   []bank.Account
	nextUserID int64
	nextAccNo  int64

	secret       []byte
	passwordCost int
	now          func() time.Time
	log          *logrus.Entry
}

type Option func(*Backend)

// WithSecret sets the HMAC key for access tokens.
func WithSecret(secret string) Option {
	return func(b *Backend) { b.secret = []byte(secret) }
}

// WithPasswordCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithPasswordCost(cost int) Option {
	return func(b *Backend) { b.passwordCost = cost }
}

func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.now = now }
}

func WithLogger(log *logrus.Entry) Option {
	return func(b *Backend) { b.log = log }
}

func New(opts ...Option) *Backend {
	b := &Backend{
		nextUserID:   1,
		nextAccNo:    1,
		secret:       []byte(defaultSecret),
		passwordCost: bcrypt.DefaultCost,
		now:          time.Now,
		log:          logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// httpError is a failure with the status and detail the API would send.
type httpError struct {
	status int
	detail string
	err    error
}

func (e *httpError) Error() string { return e.detail }
func (e *httpError) Unwrap() error { return e.err }

func fail(status int, format string, args ...interface{}) *httpError {
	return &httpError{status: status, detail: fmt.Sprintf(format, args...)}
}

func failWith(err error, status int, format string, args ...interface{}) *httpError {
	e := fail(status, format, args...)
	e.err = err
	return e
}

// AddUser registers a user. It is what POST /users/ does and is exported so
// tests can seed admins.
func (b *Backend) AddUser(u bank.NewUser) (bank.User, error) {
	// Added validation on empty fields
	if u.Username == "" || u.Password == "" || u.Email == "" {
		return bank.User{}, fail(http.StatusUnprocessableEntity, "username, email and password are required")
	}
	if u.Role == "" {
		u.Role = bank.RoleUser
	}
	if u.Role != bank.RoleUser && u.Role != bank.RoleAdmin {
		return bank.User{}, fail(http.StatusBadRequest, "Role must be either 'user' or 'admin'")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), b.passwordCost)
	if err != nil {
		return bank.User{}, fmt.Errorf("hash password: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// Added a check to make usernames, emails and mobile numbers unique
	for _, existing := range b.users {
		switch {
		case existing.Username == u.Username:
			return bank.User{}, fail(http.StatusBadRequest, "User with this username already exists")
		case strings.EqualFold(existing.Email, u.Email):
			return bank.User{}, fail(http.StatusBadRequest, "User with this email already exists")
		case u.MobNo != 0 && existing.MobNo == u.MobNo:
			return bank.User{}, fail(http.StatusBadRequest, "User with this mobile number already exists")
		}
	}

	user := bank.User{
		UserID:    b.nextUserID,
		Username:  u.Username,
		Email:     u.Email,
		MobNo:     u.MobNo,
		Role:      u.Role,
		CreatedAt: bank.NewTimestamp(b.now()),
	}
	b.nextUserID++
	b.users = append(b.users, storedUser{User: user, passwordHash: hash})
	return user, nil
}

// AddAccount opens an account owned by userID.
func (b *Backend) AddAccount(userID int64, req bank.NewAccount) (bank.Account, error) {
	balance := decimal.NewFromInt(minimumBalance)
	if req.Balance != nil {
		balance = *req.Balance
	}
	if balance.LessThan(decimal.NewFromInt(minimumBalance)) {
		return bank.Account{}, fail(http.StatusBadRequest, "Initial balance must be at least 100")
	}
	ifsc := req.IFSCCode
	if ifsc == 0 {
		ifsc = defaultIFSC
	}
	branch := req.Branch
	if branch == "" {
		branch = defaultBranch
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.userLocked(userID); !ok {
		return bank.Account{}, failWith(bank.ErrUserNotFound, http.StatusNotFound, "User not found")
	}

	acc := bank.Account{
		AccNo:            b.nextAccNo,
		AccHolderName:    req.AccHolderName,
		AccHolderAddress: req.AccHolderAddress,
		DOB:              req.DOB,
		Gender:           req.Gender,
		AccType:          req.AccType,
		Balance:          balance,
		IFSCCode:         ifsc,
		Branch:           branch,
		CreatedAt:        bank.NewTimestamp(b.now()),
		UserID:           userID,
	}
	b.nextAccNo++
	b.accounts = append(b.accounts, acc)
	return acc, nil
}

// Accounts returns a copy of every account.
func (b *Backend) Accounts() []bank.Account {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]bank.Account{}, b.accounts...)
}

func (b *Backend) userLocked(userID int64) (storedUser, bool) {
	for _, u := range b.users {
		if u.UserID == userID {
			return u, true
		}
	}
	return storedUser{}, false
}

// withAccountsLocked nests the user's accounts the way the profile route does.
func (b *Backend) withAccountsLocked(u bank.User) bank.User {
	u.Accounts = []bank.Account{}
	for _, acc := range b.accounts {
		if acc.UserID == u.UserID {
			u.Accounts = append(u.Accounts, acc)
		}
	}
	return u
}

func (b *Backend) accountIndexLocked(accNo int64) (int, error) {
	for i, acc := range b.accounts {
		if acc.AccNo == accNo {
			return i, nil
		}
	}
	return -1, failWith(bank.ErrAccountNotFound, http.StatusNotFound, "Account with id %d not found", accNo)
}

func (b *Backend) authenticate(username, password string) (bank.User, error) {
	b.mu.Lock()
	var found *storedUser
	for i := range b.users {
		if b.users[i].Username == username {
			u := b.users[i]
			found = &u
			break
		}
	}
	b.mu.Unlock()

	if found == nil || bcrypt.CompareHashAndPassword(found.passwordHash, []byte(password)) != nil {
		return bank.User{}, fail(http.StatusUnauthorized, "Invalid credentials")
	}
	return found.User, nil
}

func (b *Backend) applyUpdate(accNo int64, u bank.AccountUpdate) (bank.Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i, err := b.accountIndexLocked(accNo)
	if err != nil {
		return bank.Account{}, err
	}
	acc := &b.accounts[i]
	if u.AccHolderName != nil {
		acc.AccHolderName = *u.AccHolderName
	}
	if u.AccHolderAddress != nil {
		acc.AccHolderAddress = *u.AccHolderAddress
	}
	if u.DOB != nil {
		acc.DOB = *u.DOB
	}
	if u.Gender != nil {
		acc.Gender = *u.Gender
	}
	if u.Balance != nil {
		acc.Balance = *u.Balance
	}
	return *acc, nil
}

func (b *Backend) remove(accNo int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	i, err := b.accountIndexLocked(accNo)
	if err != nil {
		return err
	}
	b.accounts = append(b.accounts[:i], b.accounts[i+1:]...)
	return nil
}

// move changes a balance. Withdrawals may not overdraw.
func (b *Backend) move(accNo int64, amount decimal.Decimal, withdraw bool) (bank.Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i, err := b.accountIndexLocked(accNo)
	if err != nil {
		return bank.Account{}, err
	}
	if withdraw {
		if amount.GreaterThan(b.accounts[i].Balance) {
			return bank.Account{}, failWith(bank.ErrInsufficientFunds, http.StatusBadRequest, "Insufficient funds for withdrawal")
		}
		b.accounts[i].Balance = b.accounts[i].Balance.Sub(amount)
	} else {
		b.accounts[i].Balance = b.accounts[i].Balance.Add(amount)
	}
	return b.accounts[i], nil
}
