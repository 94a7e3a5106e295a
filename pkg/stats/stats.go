// Package stats aggregates and filters the accounts and users held by the
// store for the dashboard and list views.
package stats

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/erniranjank15/Bank/pkg/bank"
)

// All disables the type or role filter.
const All = "all"

type Summary struct {
	TotalAccounts  int             `json:"total_accounts" yaml:"total_accounts"`
	TotalBalance   decimal.Decimal `json:"total_balance" yaml:"total_balance"`
	AverageBalance decimal.Decimal `json:"average_balance" yaml:"average_balance"`
	TotalUsers     int             `json:"total_users" yaml:"total_users"`
}

// Summarize totals the balances. The average is rounded to cents and is zero
// when there are no accounts.
func Summarize(accounts []bank.Account, users []bank.User) Summary {
	s := Summary{
		TotalAccounts: len(accounts),
		TotalBalance:  totalBalance(accounts),
		TotalUsers:    len(users),
	}
	if s.TotalAccounts > 0 {
		s.AverageBalance = s.TotalBalance.Div(decimal.NewFromInt(int64(s.TotalAccounts))).Round(2)
	}
	return s
}

// UserBalance is the sum over the user's nested accounts.
func UserBalance(u bank.User) decimal.Decimal {
	return totalBalance(u.Accounts)
}

func totalBalance(accounts []bank.Account) decimal.Decimal {
	total := decimal.Zero
	for _, acc := range accounts {
		total = total.Add(acc.Balance)
	}
	return total
}

// FilterAccounts keeps accounts whose holder name, number or type contains
// search and whose type equals accType. Matching ignores case.
func FilterAccounts(accounts []bank.Account, search, accType string) []bank.Account {
	search = strings.ToLower(search)
	out := make([]bank.Account, 0, len(accounts))
	for _, acc := range accounts {
		matchesSearch := strings.Contains(strings.ToLower(acc.AccHolderName), search) ||
			strings.Contains(strconv.FormatInt(acc.AccNo, 10), search) ||
			strings.Contains(strings.ToLower(acc.AccType), search)
		matchesType := accType == "" || strings.EqualFold(accType, All) || strings.EqualFold(acc.AccType, accType)
		if matchesSearch && matchesType {
			out = append(out, acc)
		}
	}
	return out
}

// FilterUsers keeps users whose username, email or id contains search and
// whose role equals role.
func FilterUsers(users []bank.User, search, role string) []bank.User {
	search = strings.ToLower(search)
	out := make([]bank.User, 0, len(users))
	for _, u := range users {
		matchesSearch := strings.Contains(strings.ToLower(u.Username), search) ||
			strings.Contains(strings.ToLower(u.Email), search) ||
			strings.Contains(strconv.FormatInt(u.UserID, 10), search)
		matchesRole := role == "" || role == All || string(u.Role) == role
		if matchesSearch && matchesRole {
			out = append(out, u)
		}
	}
	return out
}
