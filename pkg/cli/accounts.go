package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/erniranjank15/Bank/pkg/bank"
	"github.com/erniranjank15/Bank/pkg/stats"
)

func newAccountsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "accounts", Short: "Manage accounts"}
	cmd.AddCommand(
		newAccountsListCmd(a),
		newAccountsShowCmd(a),
		newAccountsCreateCmd(a),
		newAccountsUpdateCmd(a),
		newAccountsDeleteCmd(a),
	)
	return cmd
}

func parseAccNo(s string) (int64, error) {
	accNo, err := strconv.ParseInt(s, 10, 64)
	if err != nil || accNo <= 0 {
		return 0, fmt.Errorf("invalid account number %q", s)
	}
	return accNo, nil
}

func newAccountsListCmd(a *app) *cobra.Command {
	var search, accType string
	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List all accounts (admin)",
		PreRunE: a.loggedIn,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.bank.FetchAccounts(cmd.Context())
			if !res.Success {
				return a.failure()
			}
			accounts := stats.FilterAccounts(a.bank.Store().Snapshot().Accounts, search, accType)
			return render(cmd.OutOrStdout(), a.output, accounts, accountsTable(accounts))
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Match holder name, account number or type")
	cmd.Flags().StringVar(&accType, "type", stats.All, "Filter by account type")
	return cmd
}

func newAccountsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "show <acc-no>",
		Short:   "Show one account",
		Args:    cobra.ExactArgs(1),
		PreRunE: a.loggedIn,
		RunE: func(cmd *cobra.Command, args []string) error {
			accNo, err := parseAccNo(args[0])
			if err != nil {
				return err
			}
			res := a.bank.FetchAccount(cmd.Context(), accNo)
			if !res.Success {
				return a.failure()
			}
			current := a.bank.Store().Snapshot().CurrentAccount
			return render(cmd.OutOrStdout(), a.output, current, accountDetail(*current))
		},
	}
}

func newAccountsCreateCmd(a *app) *cobra.Command {
	var (
		na      bank.NewAccount
		balance string
	)
	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Open an account for the signed-in user",
		PreRunE: a.loggedIn,
		RunE: func(cmd *cobra.Command, args []string) error {
			if balance != "" {
				d, err := decimal.NewFromString(balance)
				if err != nil {
					return fmt.Errorf("invalid balance %q", balance)
				}
				na.Balance = &d
			}
			res := a.bank.CreateAccount(cmd.Context(), na)
			if !res.Success {
				return a.failure()
			}
			return render(cmd.OutOrStdout(), a.output, res.Data, accountDetail(res.Data))
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&na.AccHolderName, "name", "", "Account holder name")
	flags.StringVar(&na.AccHolderAddress, "address", "", "Account holder address")
	flags.StringVar(&na.DOB, "dob", "", "Date of birth, YYYY-MM-DD")
	flags.StringVar(&na.Gender, "gender", "", "Gender")
	flags.StringVar(&na.AccType, "type", bank.AccountSavings, "Account type: Savings, Current or Fixed")
	flags.StringVar(&balance, "balance", "", "Initial balance (server default when empty)")
	flags.Int64Var(&na.IFSCCode, "ifsc", 0, "IFSC code (server default when zero)")
	flags.StringVar(&na.Branch, "branch", "", "Branch (server default when empty)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newAccountsUpdateCmd(a *app) *cobra.Command {
	var name, address, dob, gender, balance string
	cmd := &cobra.Command{
		Use:     "update <acc-no>",
		Short:   "Change account details",
		Args:    cobra.ExactArgs(1),
		PreRunE: a.loggedIn,
		RunE: func(cmd *cobra.Command, args []string) error {
			accNo, err := parseAccNo(args[0])
			if err != nil {
				return err
			}
			var u bank.AccountUpdate
			flags := cmd.Flags()
			if flags.Changed("name") {
				u.AccHolderName = &name
			}
			if flags.Changed("address") {
				u.AccHolderAddress = &address
			}
			if flags.Changed("dob") {
				u.DOB = &dob
			}
			if flags.Changed("gender") {
				u.Gender = &gender
			}
			if flags.Changed("balance") {
				d, err := decimal.NewFromString(balance)
				if err != nil {
					return fmt.Errorf("invalid balance %q", balance)
				}
				u.Balance = &d
			}
			if u.Empty() {
				return errors.New("nothing to update, pass at least one field flag")
			}

			res := a.bank.UpdateAccount(cmd.Context(), accNo, u)
			if !res.Success {
				return a.failure()
			}
			return render(cmd.OutOrStdout(), a.output, res.Data, accountDetail(res.Data))
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&name, "name", "", "Account holder name")
	flags.StringVar(&address, "address", "", "Account holder address")
	flags.StringVar(&dob, "dob", "", "Date of birth, YYYY-MM-DD")
	flags.StringVar(&gender, "gender", "", "Gender")
	flags.StringVar(&balance, "balance", "", "Balance")
	return cmd
}

func newAccountsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <acc-no>",
		Short:   "Close an account (admin)",
		Args:    cobra.ExactArgs(1),
		PreRunE: a.loggedIn,
		RunE: func(cmd *cobra.Command, args []string) error {
			accNo, err := parseAccNo(args[0])
			if err != nil {
				return err
			}
			if res := a.bank.DeleteAccount(cmd.Context(), accNo); !res.Success {
				return a.failure()
			}
			return nil
		},
	}
}

// newMoveCmd builds deposit or withdraw.
func newMoveCmd(a *app, kind string) *cobra.Command {
	short := "Deposit money into an account"
	if kind == "withdraw" {
		short = "Withdraw money from an account"
	}
	return &cobra.Command{
		Use:     kind + " <acc-no> <amount>",
		Short:   short,
		Args:    cobra.ExactArgs(2),
		PreRunE: a.loggedIn,
		RunE: func(cmd *cobra.Command, args []string) error {
			accNo, err := parseAccNo(args[0])
			if err != nil {
				return err
			}
			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[1])
			}

			move := a.bank.Deposit
			if kind == "withdraw" {
				move = a.bank.Withdraw
			}
			res := move(cmd.Context(), accNo, amount)
			if !res.Success {
				return a.failure()
			}
			return render(cmd.OutOrStdout(), a.output, res.Data, func(w io.Writer) {
				fmt.Fprintf(w, "New balance:\t%s\n", res.Data.Balance.StringFixed(2))
			})
		},
	}
}
