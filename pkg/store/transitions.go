package store

import (
	"github.com/erniranjank15/Bank/pkg/bank"
)

// Kind names a transition.
type Kind string

const (
	KindSetLoading        Kind = "SET_LOADING"
	KindSetError          Kind = "SET_ERROR"
	KindClearError        Kind = "CLEAR_ERROR"
	KindSetUsers          Kind = "SET_USERS"
	KindSetAccounts       Kind = "SET_ACCOUNTS"
	KindSetCurrentAccount Kind = "SET_CURRENT_ACCOUNT"
	KindAddUser           Kind = "ADD_USER"
	KindAddAccount        Kind = "ADD_ACCOUNT"
	KindUpdateAccount     Kind = "UPDATE_ACCOUNT"
	KindDeleteAccount     Kind = "DELETE_ACCOUNT"
)

// Transition is a pure update rule. Apply must not mutate the snapshot it is
// given and must accept any state.
type Transition interface {
	Kind() Kind
	Apply(Snapshot) Snapshot
}

// Reduce applies t to s and returns the new snapshot.
func Reduce(s Snapshot, t Transition) Snapshot {
	if t == nil {
		return s
	}
	return t.Apply(s)
}

type SetLoading struct{ Loading bool }

func (SetLoading) Kind() Kind { return KindSetLoading }

func (t SetLoading) Apply(s Snapshot) Snapshot {
	s.Loading = t.Loading
	return s
}

type SetError struct{ Message string }

func (SetError) Kind() Kind { return KindSetError }

func (t SetError) Apply(s Snapshot) Snapshot {
	s.Error = t.Message
	s.Loading = false
	return s
}

type ClearError struct{}

func (ClearError) Kind() Kind { return KindClearError }

func (ClearError) Apply(s Snapshot) Snapshot {
	s.Error = ""
	return s
}

type SetUsers struct{ Users []bank.User }

func (SetUsers) Kind() Kind { return KindSetUsers }

func (t SetUsers) Apply(s Snapshot) Snapshot {
	s.Users = uniqueUsers(t.Users)
	s.Loading = false
	return s
}

type SetAccounts struct{ Accounts []bank.Account }

func (SetAccounts) Kind() Kind { return KindSetAccounts }

func (t SetAccounts) Apply(s Snapshot) Snapshot {
	s.Accounts = uniqueAccounts(t.Accounts)
	s.Loading = false
	return s
}

// SetCurrentAccount with a nil Account clears the current account.
type SetCurrentAccount struct{ Account *bank.Account }

func (SetCurrentAccount) Kind() Kind { return KindSetCurrentAccount }

func (t SetCurrentAccount) Apply(s Snapshot) Snapshot {
	s.CurrentAccount = cloneAccountPtr(t.Account)
	s.Loading = false
	return s
}

type AddUser struct{ User bank.User }

func (AddUser) Kind() Kind { return KindAddUser }

func (t AddUser) Apply(s Snapshot) Snapshot {
	s.Users = upsertUser(s.Users, t.User)
	s.Loading = false
	return s
}

type AddAccount struct{ Account bank.Account }

func (AddAccount) Kind() Kind { return KindAddAccount }

func (t AddAccount) Apply(s Snapshot) Snapshot {
	s.Accounts = upsertAccount(s.Accounts, t.Account)
	s.Loading = false
	return s
}

// UpdateAccount replaces the account with the same acc_no, in the list and as
// the current account. An unknown acc_no leaves the list as it is.
type UpdateAccount struct{ Account bank.Account }

func (UpdateAccount) Kind() Kind { return KindUpdateAccount }

func (t UpdateAccount) Apply(s Snapshot) Snapshot {
	accounts := make([]bank.Account, len(s.Accounts))
	for i, acc := range s.Accounts {
		if acc.AccNo == t.Account.AccNo {
			accounts[i] = t.Account
			continue
		}
		accounts[i] = acc
	}
	s.Accounts = accounts
	if s.CurrentAccount != nil && s.CurrentAccount.AccNo == t.Account.AccNo {
		s.CurrentAccount = cloneAccountPtr(&t.Account)
	}
	s.Loading = false
	return s
}

type DeleteAccount struct{ AccNo int64 }

func (DeleteAccount) Kind() Kind { return KindDeleteAccount }

func (t DeleteAccount) Apply(s Snapshot) Snapshot {
	accounts := make([]bank.Account, 0, len(s.Accounts))
	for _, acc := range s.Accounts {
		if acc.AccNo != t.AccNo {
			accounts = append(accounts, acc)
		}
	}
	s.Accounts = accounts
	if s.CurrentAccount != nil && s.CurrentAccount.AccNo == t.AccNo {
		s.CurrentAccount = nil
	}
	s.Loading = false
	return s
}

// upsertAccount appends acc, or replaces the element holding its acc_no so
// that keys stay unique.
func upsertAccount(list []bank.Account, acc bank.Account) []bank.Account {
	out := make([]bank.Account, 0, len(list)+1)
	replaced := false
	for _, existing := range list {
		if existing.AccNo == acc.AccNo {
			out = append(out, acc)
			replaced = true
			continue
		}
		out = append(out, existing)
	}
	if !replaced {
		out = append(out, acc)
	}
	return out
}

func upsertUser(list []bank.User, u bank.User) []bank.User {
	out := make([]bank.User, 0, len(list)+1)
	replaced := false
	for _, existing := range list {
		if existing.UserID == u.UserID {
			out = append(out, u)
			replaced = true
			continue
		}
		out = append(out, existing)
	}
	if !replaced {
		out = append(out, u)
	}
	return out
}

// uniqueAccounts keeps the first position of each acc_no and the last value
// seen for it.
func uniqueAccounts(list []bank.Account) []bank.Account {
	out := make([]bank.Account, 0, len(list))
	index := make(map[int64]int, len(list))
	for _, acc := range list {
		if i, ok := index[acc.AccNo]; ok {
			out[i] = acc
			continue
		}
		index[acc.AccNo] = len(out)
		out = append(out, acc)
	}
	return out
}

func uniqueUsers(list []bank.User) []bank.User {
	out := make([]bank.User, 0, len(list))
	index := make(map[int64]int, len(list))
	for _, u := range list {
		if i, ok := index[u.UserID]; ok {
			out[i] = u
			continue
		}
		index[u.UserID] = len(out)
		out = append(out, u)
	}
	return out
}
