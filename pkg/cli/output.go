package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/erniranjank15/Bank/pkg/bank"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func checkFormat(f string) error {
	switch f {
	case formatTable, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want table, json or yaml)", f)
}

// render writes v as JSON or YAML, or calls table with a tab-aligned writer.
func render(w io.Writer, format string, v interface{}, table func(tw io.Writer)) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	table(tw)
	return tw.Flush()
}

func accountsTable(accounts []bank.Account) func(io.Writer) {
	return func(w io.Writer) {
		fmt.Fprintln(w, "ACC NO\tHOLDER\tTYPE\tBALANCE\tBRANCH\tUSER")
		for _, acc := range accounts {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\n",
				acc.AccNo, acc.AccHolderName, acc.AccType, acc.Balance.StringFixed(2), acc.Branch, acc.UserID)
		}
	}
}

func accountDetail(acc bank.Account) func(io.Writer) {
	return func(w io.Writer) {
		fmt.Fprintf(w, "Account:\t%d\n", acc.AccNo)
		fmt.Fprintf(w, "Holder:\t%s\n", acc.AccHolderName)
		fmt.Fprintf(w, "Address:\t%s\n", acc.AccHolderAddress)
		fmt.Fprintf(w, "Date of birth:\t%s\n", acc.DOB)
		fmt.Fprintf(w, "Gender:\t%s\n", acc.Gender)
		fmt.Fprintf(w, "Type:\t%s\n", acc.AccType)
		fmt.Fprintf(w, "Balance:\t%s\n", acc.Balance.StringFixed(2))
		fmt.Fprintf(w, "IFSC:\t%d\n", acc.IFSCCode)
		fmt.Fprintf(w, "Branch:\t%s\n", acc.Branch)
		fmt.Fprintf(w, "Owner:\t%d\n", acc.UserID)
		if !acc.CreatedAt.IsZero() {
			fmt.Fprintf(w, "Opened:\t%s\n", acc.CreatedAt.Format("2006-01-02 15:04"))
		}
	}
}

func usersTable(users []bank.User) func(io.Writer) {
	return func(w io.Writer) {
		fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tMOBILE\tROLE\tACCOUNTS")
		for _, u := range users {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%d\n", u.UserID, u.Username, u.Email, u.MobNo, u.Role, len(u.Accounts))
		}
	}
}
