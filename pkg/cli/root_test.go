package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/erniranjank15/Bank/pkg/bank"
	"github.com/erniranjank15/Bank/pkg/banktest"
)

type cliEnv struct {
	t       *testing.T
	baseURL string
}

// newCLIEnv starts a backend with one admin and one user and points the CLI
// at it with a private token file.
func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("BANK_TOKEN_FILE", filepath.Join(dir, "token"))
	t.Setenv("BANK_LOG_LEVEL", "error")

	backend, srv := banktest.NewServer(banktest.WithPasswordCost(bcrypt.MinCost))
	t.Cleanup(srv.Close)
	_, err = backend.AddUser(bank.NewUser{Username: "admin", Email: "admin@bank.test", MobNo: 1, Password: "adminpass", Role: bank.RoleAdmin})
	require.NoError(t, err)
	_, err = backend.AddUser(bank.NewUser{Username: "asha", Email: "asha@bank.test", MobNo: 2, Password: "ashapass"})
	require.NoError(t, err)

	return &cliEnv{t: t, baseURL: srv.URL}
}

func (e *cliEnv) run(stdin string, args ...string) (string, error) {
	root := NewRootCmd("test", "today")
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--api-url", e.baseURL}, args...))
	err := root.Execute()
	return out.String(), err
}

func (e *cliEnv) login(username, password string) {
	out, err := e.run(password+"\n", "login", "--username", username)
	require.NoError(e.t, err)
	require.Contains(e.t, out, "Logged in as "+username)
}

func TestVersion(t *testing.T) {
	root := NewRootCmd("1.2.3", "2026-10-19")
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "bank 1.2.3 (built 2026-10-19)\n", out.String())
}

func TestUserFlow(t *testing.T) {
	e := newCLIEnv(t)

	_, err := e.run("", "accounts", "show", "1")
	assert.ErrorContains(t, err, "not logged in")

	_, err = e.run("wrong\n", "login", "--username", "asha")
	assert.EqualError(t, err, "Invalid credentials")

	out, err := e.run("asha\nashapass\n", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as asha (user)")

	out, err = e.run("", "whoami", "-o", "json")
	require.NoError(t, err)
	var id identity
	require.NoError(t, json.Unmarshal([]byte(out), &id))
	assert.Equal(t, "asha", id.Username)
	assert.Equal(t, "user", id.Role)
	assert.False(t, id.Expired)

	out, err = e.run("", "accounts", "create", "--name", "Asha Rao", "--balance", "500")
	require.NoError(t, err)
	assert.Contains(t, out, "Account created successfully!")
	assert.Contains(t, out, "500.00")

	out, err = e.run("", "deposit", "1", "200")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully deposited $200")
	assert.Contains(t, out, "700.00")

	_, err = e.run("", "withdraw", "1", "5000")
	assert.EqualError(t, err, "Insufficient funds for withdrawal")

	out, err = e.run("", "accounts", "update", "1", "--address", "7 Park Street", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "acc_holder_address: 7 Park Street")

	_, err = e.run("", "accounts", "update", "1")
	assert.ErrorContains(t, err, "nothing to update")

	out, err = e.run("", "users", "show", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Total balance:")
	assert.Contains(t, out, "700.00")

	_, err = e.run("", "accounts", "list")
	assert.EqualError(t, err, "Admin access required")

	out, err = e.run("", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")
	_, err = e.run("", "whoami")
	assert.EqualError(t, err, "not logged in")
}

func TestAdminFlow(t *testing.T) {
	e := newCLIEnv(t)

	e.login("asha", "ashapass")
	_, err := e.run("", "accounts", "create", "--name", "Asha", "--balance", "100", "--type", bank.AccountCurrent)
	require.NoError(t, err)
	_, err = e.run("", "accounts", "create", "--name", "Asha", "--balance", "300")
	require.NoError(t, err)

	e.login("admin", "adminpass")

	out, err := e.run("", "summary", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "total_accounts: 2")
	assert.Contains(t, out, "total_users: 2")

	out, err = e.run("", "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "400.00")
	assert.Contains(t, out, "200.00")

	out, err = e.run("", "accounts", "list", "--type", "current", "-o", "json")
	require.NoError(t, err)
	var accounts []bank.Account
	require.NoError(t, json.Unmarshal([]byte(out), &accounts))
	require.Len(t, accounts, 1)
	assert.Equal(t, bank.AccountCurrent, accounts[0].AccType)

	out, err = e.run("", "users", "list", "--role", "admin")
	require.NoError(t, err)
	assert.Contains(t, out, "admin@bank.test")
	assert.NotContains(t, out, "asha@bank.test")

	out, err = e.run("", "accounts", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Account deleted successfully!")

	_, err = e.run("", "accounts", "show", "1")
	assert.EqualError(t, err, "Account with id 1 not found")
}

func TestUsersCreate(t *testing.T) {
	e := newCLIEnv(t)

	out, err := e.run("ravipass\n", "users", "create", "--username", "ravi", "--email", "ravi@bank.test", "--mobile", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "User created successfully!")
	assert.Contains(t, out, "ravi@bank.test")

	_, err = e.run("x\n", "users", "create", "--username", "ravi", "--email", "other@bank.test")
	assert.EqualError(t, err, "User with this username already exists")

	e.login("ravi", "ravipass")
}

func TestMetricsFlag(t *testing.T) {
	e := newCLIEnv(t)
	e.login("asha", "ashapass")

	root := NewRootCmd("test", "today")
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetArgs([]string{"--api-url", e.baseURL, "--metrics", "accounts", "create", "--name", "A"})
	require.NoError(t, root.Execute())
	assert.Contains(t, errOut.String(), `bank_client_operations_total{operation="create_account",outcome="success"} 1`)
}

func TestUnknownOutputFormat(t *testing.T) {
	e := newCLIEnv(t)
	_, err := e.run("", "whoami", "-o", "xml")
	assert.ErrorContains(t, err, "unknown output format")
}
