package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/erniranjank15/Bank/pkg/actions"
	"github.com/erniranjank15/Bank/pkg/stats"
)

func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "summary",
		Short:   "Show bank-wide totals (admin)",
		PreRunE: a.loggedIn,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			accounts := actions.Go(ctx, a.bank.FetchAccounts)
			users := actions.Go(ctx, a.bank.FetchUsers)

			accRes, err := accounts.Wait(ctx)
			if err != nil {
				return err
			}
			userRes, err := users.Wait(ctx)
			if err != nil {
				return err
			}
			if !accRes.Success || !userRes.Success {
				return a.failure()
			}

			snap := a.bank.Store().Snapshot()
			s := stats.Summarize(snap.Accounts, snap.Users)
			return render(cmd.OutOrStdout(), a.output, s, func(w io.Writer) {
				fmt.Fprintf(w, "Total accounts:\t%d\n", s.TotalAccounts)
				fmt.Fprintf(w, "Total users:\t%d\n", s.TotalUsers)
				fmt.Fprintf(w, "Total balance:\t%s\n", s.TotalBalance.StringFixed(2))
				fmt.Fprintf(w, "Average balance:\t%s\n", s.AverageBalance.StringFixed(2))
			})
		},
	}
}
