package bank

import (
	"errors"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Account types offered by the front desk. The server accepts any string.
const (
	AccountSavings = "Savings"
	AccountCurrent = "Current"
	AccountFixed   = "Fixed"
)

type User struct {
	UserID    int64     `json:"user_id" yaml:"user_id"`
	Username  string    `json:"username" yaml:"username"`
	Email     string    `json:"email" yaml:"email"`
	MobNo     int64     `json:"mob_no" yaml:"mob_no"`
	Role      Role      `json:"role" yaml:"role"`
	CreatedAt Timestamp `json:"created_at" yaml:"created_at"`
	Accounts  []Account `json:"accounts,omitempty" yaml:"accounts,omitempty"`
}

type Account struct {
	AccNo            int64           `json:"acc_no" yaml:"acc_no"`
	AccHolderName    string          `json:"acc_holder_name" yaml:"acc_holder_name"`
	AccHolderAddress string          `json:"acc_holder_address" yaml:"acc_holder_address"`
	DOB              string          `json:"dob" yaml:"dob"`
	Gender           string          `json:"gender" yaml:"gender"`
	AccType          string          `json:"acc_type" yaml:"acc_type"`
	Balance          decimal.Decimal `json:"balance" yaml:"balance"`
	IFSCCode         int64           `json:"ifsc_code" yaml:"ifsc_code"`
	Branch           string          `json:"branch" yaml:"branch"`
	CreatedAt        Timestamp       `json:"created_at" yaml:"created_at"`
	UserID           int64           `json:"user_id" yaml:"user_id"`
}

// NewAccount is the create payload. Zero optional fields are left to the
// server defaults.
type NewAccount struct {
	AccHolderName    string           `json:"acc_holder_name"`
	AccHolderAddress string           `json:"acc_holder_address"`
	DOB              string           `json:"dob"`
	Gender           string           `json:"gender"`
	AccType          string           `json:"acc_type"`
	Balance          *decimal.Decimal `json:"balance,omitempty"`
	IFSCCode         int64            `json:"ifsc_code,omitempty"`
	Branch           string           `json:"branch,omitempty"`
}

// AccountUpdate carries only the fields being changed.
type AccountUpdate struct {
	AccHolderName    *string          `json:"acc_holder_name,omitempty"`
	AccHolderAddress *string          `json:"acc_holder_address,omitempty"`
	DOB              *string          `json:"dob,omitempty"`
	Gender           *string          `json:"gender,omitempty"`
	Balance          *decimal.Decimal `json:"balance,omitempty"`
}

// Empty reports whether the update would change nothing.
func (u AccountUpdate) Empty() bool {
	return u.AccHolderName == nil && u.AccHolderAddress == nil && u.DOB == nil &&
		u.Gender == nil && u.Balance == nil
}

type NewUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	MobNo    int64  `json:"mob_no"`
	Password string `json:"hashed_password"` // the server hashes it; the wire name is historical
	Role     Role   `json:"role,omitempty"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds for withdrawal")
)
