// Package cli is the bank command line client.
package cli

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/erniranjank15/Bank/pkg/actions"
	"github.com/erniranjank15/Bank/pkg/client"
	"github.com/erniranjank15/Bank/pkg/config"
	"github.com/erniranjank15/Bank/pkg/metrics"
	"github.com/erniranjank15/Bank/pkg/notify"
	"github.com/erniranjank15/Bank/pkg/session"
	"github.com/erniranjank15/Bank/pkg/store"
)

// app is built once per invocation by the root command's pre-run hook.
type app struct {
	envFile     string
	apiURL      string
	output      string
	showMetrics bool

	cfg     config.Config
	log     *logrus.Logger
	session *session.Session
	client  *client.Client
	metrics *metrics.Metrics
	bank    *actions.Bank
}

func NewRootCmd(version, buildDate string) *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:               "bank",
		Short:             "Bank management CLI",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if !a.showMetrics {
			return nil
		}
		return a.metrics.WriteText(cmd.ErrOrStderr())
	}
	flags := root.PersistentFlags()
	flags.StringVar(&a.envFile, "env-file", "", "Load settings from this file instead of ./.env")
	flags.StringVar(&a.apiURL, "api-url", "", "Bank API base URL (overrides BANK_API_URL)")
	flags.StringVarP(&a.output, "output", "o", formatTable, "Output format: table, json or yaml")
	flags.BoolVar(&a.showMetrics, "metrics", false, "Print operation metrics to stderr on exit")

	root.AddCommand(newVersionCmd(version, buildDate))
	root.AddCommand(newLoginCmd(a), newLogoutCmd(a), newWhoamiCmd(a))
	root.AddCommand(newUsersCmd(a))
	root.AddCommand(newAccountsCmd(a))
	root.AddCommand(newMoveCmd(a, "deposit"), newMoveCmd(a, "withdraw"))
	root.AddCommand(newSummaryCmd(a))
	root.AddCommand(newDevServerCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	if err := checkFormat(a.output); err != nil {
		return err
	}
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.APIURL = a.apiURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	logger, err := cfg.Logger()
	if err != nil {
		return err
	}
	logger.SetOutput(cmd.ErrOrStderr())

	a.cfg = cfg
	a.log = logger
	a.session = session.New(cfg.TokenFile)
	if err := a.session.Load(); err != nil {
		return err
	}
	a.client = client.New(cfg.Client(),
		client.WithToken(a.session.Token),
		client.WithLogger(logger.WithField("component", "client")),
	)
	a.metrics = metrics.New()
	a.bank = actions.New(a.client, store.New(),
		actions.WithNotifier(printer{w: cmd.OutOrStdout()}),
		actions.WithMetrics(a.metrics),
		actions.WithLogger(logger.WithField("component", "actions")),
	)
	return nil
}

// failure turns the store's last error into the command's error.
func (a *app) failure() error {
	return fmt.Errorf("%s", a.bank.Store().Snapshot().Error)
}

// printer shows success notices on the command's output. Errors are
// returned from the command instead.
type printer struct {
	w io.Writer
}

func (p printer) Success(msg string) { fmt.Fprintln(p.w, msg) }
func (p printer) Error(string)       {}

var _ notify.Notifier = printer{}
