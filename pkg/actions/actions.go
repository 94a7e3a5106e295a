// Package actions runs the bank's business operations. Each operation makes
// one API round trip, records the outcome in the shared store and reports a
// uniform Result. Failures never escape as errors: the message lands in the
// store's Error field and goes to the notifier.
package actions

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/erniranjank15/Bank/pkg/bank"
	"github.com/erniranjank15/Bank/pkg/metrics"
	"github.com/erniranjank15/Bank/pkg/notify"
	"github.com/erniranjank15/Bank/pkg/store"
)

// API is the remote bank. *client.Client satisfies it.
type API interface {
	CreateUser(ctx context.Context, u bank.NewUser) (bank.User, error)
	ListUsers(ctx context.Context) ([]bank.User, error)
	GetUser(ctx context.Context, userID int64) (bank.User, error)
	CreateAccount(ctx context.Context, a bank.NewAccount) (bank.Account, error)
	ListAccounts(ctx context.Context) ([]bank.Account, error)
	GetAccount(ctx context.Context, accNo int64) (bank.Account, error)
	UpdateAccount(ctx context.Context, accNo int64, u bank.AccountUpdate) (bank.Account, error)
	DeleteAccount(ctx context.Context, accNo int64) error
	Deposit(ctx context.Context, accNo int64, amount decimal.Decimal) (bank.Account, error)
	Withdraw(ctx context.Context, accNo int64, amount decimal.Decimal) (bank.Account, error)
}

// Result is what every operation returns. Data is the zero value on failure.
type Result[T any] struct {
	Success bool
	Data    T
}

// Empty is the payload of operations that return no data.
type Empty struct{}

// Bank binds the operations to one API and one store.
type Bank struct {
	api      API
	store    *store.Store
	notifier notify.Notifier
	metrics  *metrics.Metrics
	log      *logrus.Entry
}

type Option func(*Bank)

func WithNotifier(n notify.Notifier) Option {
	return func(b *Bank) { b.notifier = n }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Bank) { b.metrics = m }
}

func WithLogger(log *logrus.Entry) Option {
	return func(b *Bank) { b.log = log }
}

func New(api API, st *store.Store, opts ...Option) *Bank {
	b := &Bank{
		api:      api,
		store:    st,
		notifier: notify.Nop{},
		log:      logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bank) Store() *store.Store { return b.store }

// ClearError drops the pending error message.
func (b *Bank) ClearError() {
	b.store.Dispatch(store.ClearError{})
}

// messenger is implemented by errors that carry a server supplied message,
// such as *client.APIError.
type messenger interface {
	Message() string
}

// ErrorMessage returns the server's message carried by err, or fallback when
// there is none (transport failures, bodies without a detail).
func ErrorMessage(err error, fallback string) string {
	var m messenger
	if errors.As(err, &m) {
		if msg := m.Message(); msg != "" {
			return msg
		}
	}
	return fallback
}

// operation describes how one business action reports itself.
type operation struct {
	name     string
	failure  string
	success  string // empty: no success notice
	logField logrus.Fields
}

// run performs the shared lifecycle: loading on, one call, then either the
// success transition or the error transition. A nil transition leaves the
// store untouched on success.
func run[T any](ctx context.Context, b *Bank, op operation, call func(context.Context) (T, error), transition func(T) store.Transition) Result[T] {
	done := b.metrics.Start(op.name)
	log := b.log.WithField("operation", op.name).WithFields(op.logField)

	b.store.Dispatch(store.SetLoading{Loading: true})

	data, err := call(ctx)
	if err != nil {
		msg := ErrorMessage(err, op.failure)
		b.store.Dispatch(store.SetError{Message: msg})
		b.notifier.Error(msg)
		log.WithError(err).Warn(msg)
		done(false)
		return Result[T]{}
	}

	if transition != nil {
		b.store.Dispatch(transition(data))
	}
	if op.success != "" {
		b.notifier.Success(op.success)
	}
	log.Debug("operation completed")
	done(true)
	return Result[T]{Success: true, Data: data}
}
