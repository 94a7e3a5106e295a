package banktest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/erniranjank15/Bank/pkg/bank"
)

// Handler returns the API routes.
func (b *Backend) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/login", b.login).Methods(http.MethodPost)
	r.HandleFunc("/health", b.health).Methods(http.MethodGet)

	r.HandleFunc("/users/", b.createUser).Methods(http.MethodPost)
	r.HandleFunc("/users/", b.auth(adminOnly, b.listUsers)).Methods(http.MethodGet)
	r.HandleFunc("/users/{id:[0-9]+}", b.auth(userOrAdmin, b.getUser)).Methods(http.MethodGet)

	r.HandleFunc("/accounts/", b.auth(userOrAdmin, b.createAccount)).Methods(http.MethodPost)
	r.HandleFunc("/accounts/", b.auth(adminOnly, b.listAccounts)).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{id:[0-9]+}", b.auth(userOrAdmin, b.getAccount)).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{id:[0-9]+}", b.auth(userOnly, b.updateAccount)).Methods(http.MethodPatch)
	r.HandleFunc("/accounts/{id:[0-9]+}", b.auth(adminOnly, b.deleteAccount)).Methods(http.MethodDelete)
	r.HandleFunc("/accounts/{id:[0-9]+}/deposit", b.auth(userOrAdmin, b.deposit)).Methods(http.MethodPost)
	r.HandleFunc("/accounts/{id:[0-9]+}/withdraw", b.auth(userOrAdmin, b.withdraw)).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	return b.logRequests(r)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeError maps a backend failure to its response. Unknown errors are 500s.
func writeError(w http.ResponseWriter, err error) {
	var he *httpError
	if errors.As(err, &he) {
		writeDetail(w, he.status, he.detail)
		return
	}
	writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
}

// writeMissingQuery mirrors the validation error shape for a missing or
// malformed query parameter.
func writeMissingQuery(w http.ResponseWriter, name, msg string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
		"detail": []map[string]interface{}{
			{"loc": []string{"query", name}, "msg": msg, "type": "value_error"},
		},
	})
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func (b *Backend) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	username, password := r.PostForm.Get("username"), r.PostForm.Get("password")
	// Added validation on empty fields
	if username == "" || password == "" {
		writeMissingQuery(w, "username", "field required")
		return
	}

	user, err := b.authenticate(username, password)
	if err != nil {
		writeError(w, err)
		return
	}
	tokenString, err := b.issueToken(user)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, bank.Token{AccessToken: tokenString, TokenType: "bearer"})
}

func (b *Backend) createUser(w http.ResponseWriter, r *http.Request) {
	var req bank.NewUser
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := b.AddUser(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (b *Backend) listUsers(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	users := make([]bank.User, 0, len(b.users))
	for _, u := range b.users {
		users = append(users, b.withAccountsLocked(u.User))
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, users)
}

func (b *Backend) getUser(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	u, ok := b.userLocked(pathID(r))
	var user bank.User
	if ok {
		user = b.withAccountsLocked(u.User)
	}
	b.mu.Unlock()

	if !ok {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (b *Backend) createAccount(w http.ResponseWriter, r *http.Request) {
	var req bank.NewAccount
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	// The owner is whoever holds the token
	acc, err := b.AddAccount(claimsFrom(r.Context()).UserID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, acc)
}

func (b *Backend) listAccounts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, b.Accounts())
}

func (b *Backend) getAccount(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	i, err := b.accountIndexLocked(pathID(r))
	var acc bank.Account
	if err == nil {
		acc = b.accounts[i]
	}
	b.mu.Unlock()

	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acc)
}

func (b *Backend) updateAccount(w http.ResponseWriter, r *http.Request) {
	var req bank.AccountUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	acc, err := b.applyUpdate(pathID(r), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, acc)
}

func (b *Backend) deleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := b.remove(pathID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Account deleted successfully"})
}

func (b *Backend) deposit(w http.ResponseWriter, r *http.Request) {
	b.moveHandler(w, r, false, "Deposit amount must be greater than zero.")
}

func (b *Backend) withdraw(w http.ResponseWriter, r *http.Request) {
	b.moveHandler(w, r, true, "Withdrawal amount must be greater than zero.")
}

func (b *Backend) moveHandler(w http.ResponseWriter, r *http.Request, withdraw bool, notPositive string) {
	raw := r.URL.Query().Get("amount")
	if raw == "" {
		writeMissingQuery(w, "amount", "field required")
		return
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		writeMissingQuery(w, "amount", "value is not a valid float")
		return
	}
	// Added a validation of positive amounts
	if !amount.IsPositive() {
		writeDetail(w, http.StatusBadRequest, notPositive)
		return
	}

	acc, err := b.move(pathID(r), amount, withdraw)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acc)
}
