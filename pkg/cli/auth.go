package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/erniranjank15/Bank/pkg/actions"
	"github.com/erniranjank15/Bank/pkg/session"
)

func newLoginCmd(a *app) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login and store the access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			if username == "" {
				var err error
				if username, err = promptLine(cmd, in, "Username: "); err != nil {
					return err
				}
			}
			password, err := promptPassword(cmd, in, "Password: ")
			if err != nil {
				return err
			}

			tok, err := a.client.Login(cmd.Context(), username, password)
			if err != nil {
				return errors.New(actions.ErrorMessage(err, "Login failed"))
			}
			if err := a.session.Save(tok.AccessToken); err != nil {
				return err
			}
			claims, err := a.session.Claims()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", claims.Username(), claims.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (prompted when empty)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.session.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

type identity struct {
	UserID    int64  `json:"user_id" yaml:"user_id"`
	Username  string `json:"username" yaml:"username"`
	Role      string `json:"role" yaml:"role"`
	ExpiresAt string `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	Expired   bool   `json:"expired" yaml:"expired"`
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			claims, err := a.session.Claims()
			if errors.Is(err, session.ErrNoToken) {
				return errors.New("not logged in")
			}
			if err != nil {
				return err
			}
			id := identity{
				UserID:   claims.UserID,
				Username: claims.Username(),
				Role:     string(claims.Role),
				Expired:  claims.Expired(time.Now()),
			}
			if claims.ExpiresAt != 0 {
				id.ExpiresAt = time.Unix(claims.ExpiresAt, 0).Format(time.RFC3339)
			}
			return render(cmd.OutOrStdout(), a.output, id, func(w io.Writer) {
				fmt.Fprintf(w, "User:\t%s (id %d)\n", id.Username, id.UserID)
				fmt.Fprintf(w, "Role:\t%s\n", id.Role)
				if id.ExpiresAt != "" {
					fmt.Fprintf(w, "Expires:\t%s\n", id.ExpiresAt)
				}
				if id.Expired {
					fmt.Fprintln(w, "Status:\texpired, run bank login")
				}
			})
		},
	}
}

// loggedIn fails early with a hint when there is no usable token.
func (a *app) loggedIn(cmd *cobra.Command, args []string) error {
	if !a.session.Authenticated(time.Now()) {
		return errors.New("not logged in or session expired, run bank login")
	}
	return nil
}

func promptLine(cmd *cobra.Command, in *bufio.Reader, prompt string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads without echo from a terminal and falls back to a
// plain line for pipes.
func promptPassword(cmd *cobra.Command, in *bufio.Reader, prompt string) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.OutOrStdout(), prompt)
		pass, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		return string(pass), err
	}
	return promptLine(cmd, in, prompt)
}
