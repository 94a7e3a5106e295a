package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/erniranjank15/Bank/pkg/bank"
	"github.com/erniranjank15/Bank/pkg/banktest"
)

func newDevServerCmd(a *app) *cobra.Command {
	var (
		addr          string
		secret        string
		adminUser     string
		adminPassword string
	)
	cmd := &cobra.Command{
		Use:   "dev-server",
		Short: "Run an in-memory bank API for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := a.log.WithField("component", "dev-server")
			backend := banktest.New(banktest.WithSecret(secret), banktest.WithLogger(log))
			if adminUser != "" {
				_, err := backend.AddUser(bank.NewUser{
					Username: adminUser,
					Email:    adminUser + "@bank.local",
					Password: adminPassword,
					Role:     bank.RoleAdmin,
				})
				if err != nil {
					return fmt.Errorf("seed admin: %w", err)
				}
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           backend.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.WithField("addr", addr).Info("Starting server")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return fmt.Errorf("failed to start server: %w", err)
			case <-ctx.Done():
			}

			log.Info("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&addr, "addr", ":8000", "Listen address")
	flags.StringVar(&secret, "secret", "BANK_SECRET_KEY_123", "HMAC key for access tokens")
	flags.StringVar(&adminUser, "admin-user", "admin", "Seed an admin with this username (empty to skip)")
	flags.StringVar(&adminPassword, "admin-password", "admin123", "Password of the seeded admin")
	return cmd
}
