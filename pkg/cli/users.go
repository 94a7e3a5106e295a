package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/erniranjank15/Bank/pkg/bank"
	"github.com/erniranjank15/Bank/pkg/stats"
)

func newUsersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Manage users"}
	cmd.AddCommand(newUsersListCmd(a), newUsersShowCmd(a), newUsersCreateCmd(a))
	return cmd
}

func newUsersListCmd(a *app) *cobra.Command {
	var search, role string
	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List users (admin)",
		PreRunE: a.loggedIn,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.bank.FetchUsers(cmd.Context())
			if !res.Success {
				return a.failure()
			}
			users := stats.FilterUsers(a.bank.Store().Snapshot().Users, search, role)
			return render(cmd.OutOrStdout(), a.output, users, usersTable(users))
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Match username, email or id")
	cmd.Flags().StringVar(&role, "role", stats.All, "Filter by role: all, user or admin")
	return cmd
}

// profile is a user with the total of their balances.
type profile struct {
	bank.User    `yaml:",inline"`
	TotalBalance string `json:"total_balance" yaml:"total_balance"`
}

func newUsersShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "show <user-id>",
		Short:   "Show a user and their accounts",
		Args:    cobra.ExactArgs(1),
		PreRunE: a.loggedIn,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			res := a.bank.FetchUserProfile(cmd.Context(), userID)
			if !res.Success {
				return a.failure()
			}
			p := profile{User: res.Data, TotalBalance: stats.UserBalance(res.Data).StringFixed(2)}
			return render(cmd.OutOrStdout(), a.output, p, func(w io.Writer) {
				fmt.Fprintf(w, "User:\t%s (id %d)\n", p.Username, p.UserID)
				fmt.Fprintf(w, "Email:\t%s\n", p.Email)
				fmt.Fprintf(w, "Mobile:\t%d\n", p.MobNo)
				fmt.Fprintf(w, "Role:\t%s\n", p.Role)
				fmt.Fprintf(w, "Accounts:\t%d\n", len(p.Accounts))
				fmt.Fprintf(w, "Total balance:\t%s\n", p.TotalBalance)
				if len(p.Accounts) > 0 {
					fmt.Fprintln(w)
					accountsTable(p.Accounts)(w)
				}
			})
		},
	}
}

func newUsersCreateCmd(a *app) *cobra.Command {
	var (
		nu   bank.NewUser
		role string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new user",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptPassword(cmd, bufio.NewReader(cmd.InOrStdin()), "Password: ")
			if err != nil {
				return err
			}
			nu.Password = password
			nu.Role = bank.Role(role)

			res := a.bank.CreateUser(cmd.Context(), nu)
			if !res.Success {
				return a.failure()
			}
			return render(cmd.OutOrStdout(), a.output, res.Data, usersTable([]bank.User{res.Data}))
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&nu.Username, "username", "", "Username")
	flags.StringVar(&nu.Email, "email", "", "Email address")
	flags.Int64Var(&nu.MobNo, "mobile", 0, "Mobile number")
	flags.StringVar(&role, "role", string(bank.RoleUser), "Role: user or admin")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
