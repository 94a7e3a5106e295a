// Package store holds the client-side view of the bank: users, accounts, the
// account being looked at, and the shared request status. The state changes
// only through Transitions.
package store

import (
	"sync"

	"github.com/erniranjank15/Bank/pkg/bank"
)

// Snapshot is the state consumed by views. An empty Error means no error is
// pending. Loading is a single shared flag, not a counter: when operations
// overlap, the first one to finish clears it.
type Snapshot struct {
	Users          []bank.User
	Accounts       []bank.Account
	CurrentAccount *bank.Account
	Loading        bool
	Error          string
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.Users != nil {
		out.Users = make([]bank.User, len(s.Users))
		for i, u := range s.Users {
			out.Users[i] = cloneUser(u)
		}
	}
	if s.Accounts != nil {
		out.Accounts = append([]bank.Account(nil), s.Accounts...)
	}
	out.CurrentAccount = cloneAccountPtr(s.CurrentAccount)
	return out
}

// Account returns the listed account with the given acc_no.
func (s Snapshot) Account(accNo int64) (bank.Account, bool) {
	for _, acc := range s.Accounts {
		if acc.AccNo == accNo {
			return acc, true
		}
	}
	return bank.Account{}, false
}

func cloneUser(u bank.User) bank.User {
	if u.Accounts != nil {
		u.Accounts = append([]bank.Account(nil), u.Accounts...)
	}
	return u
}

func cloneAccountPtr(acc *bank.Account) *bank.Account {
	if acc == nil {
		return nil
	}
	c := *acc
	return &c
}

// Listener is called after every dispatched transition with the resulting
// snapshot. Listeners run on the dispatching goroutine, outside the store lock.
type Listener func(Snapshot, Transition)

// Store is the shared state container handed to every consumer.
type Store struct {
	mu        sync.RWMutex
	state     Snapshot
	listeners map[int]Listener
	nextID    int
}

// New returns a store with an empty snapshot.
func New() *Store {
	return NewWithSnapshot(Snapshot{
		Users:    []bank.User{},
		Accounts: []bank.Account{},
	})
}

func NewWithSnapshot(s Snapshot) *Store {
	return &Store{
		state:     s.Clone(),
		listeners: make(map[int]Listener),
	}
}

// Dispatch applies t atomically and returns the new snapshot.
func (st *Store) Dispatch(t Transition) Snapshot {
	st.mu.Lock()
	st.state = Reduce(st.state, t)
	next := st.state.Clone()
	listeners := make([]Listener, 0, len(st.listeners))
	for _, l := range st.listeners {
		listeners = append(listeners, l)
	}
	st.mu.Unlock()

	for _, l := range listeners {
		l(next.Clone(), t)
	}
	return next
}

func (st *Store) Snapshot() Snapshot {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.state.Clone()
}

// Subscribe registers l and returns a function that removes it.
func (st *Store) Subscribe(l Listener) func() {
	st.mu.Lock()
	id := st.nextID
	st.nextID++
	st.listeners[id] = l
	st.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			st.mu.Lock()
			delete(st.listeners, id)
			st.mu.Unlock()
		})
	}
}
