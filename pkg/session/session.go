// Package session keeps the signed-in user's access token and reads the
// identity the token was issued for.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/erniranjank15/Bank/pkg/bank"
)

// Claims are the fields the API signs into an access token. Subject holds the
// username.
type Claims struct {
	UserID int64     `json:"user_id"`
	Role   bank.Role `json:"role"`
	jwt.StandardClaims
}

func (c Claims) Username() string { return c.Subject }
func (c Claims) IsAdmin() bool    { return c.Role == bank.RoleAdmin }

// ErrNoToken is returned when nobody is signed in.
var ErrNoToken = errors.New("no access token, please login")

// Decode reads the claims without verifying the signature. Only the server
// holds the key; the client uses the claims to decide what to show.
func Decode(token string) (Claims, error) {
	var claims Claims
	if _, _, err := new(jwt.Parser).ParseUnverified(token, &claims); err != nil {
		return Claims{}, fmt.Errorf("parse token: %w", err)
	}
	return claims, nil
}

// Expired reports whether the claims carry an expiry that has passed.
func (c Claims) Expired(now time.Time) bool {
	return c.ExpiresAt != 0 && now.Unix() > c.ExpiresAt
}

// Session is the current token, optionally persisted to a file.
type Session struct {
	mu    sync.RWMutex
	token string
	path  string
}

// New returns a session persisted at path. An empty path keeps the token in
// memory only.
func New(path string) *Session {
	return &Session{path: path}
}

// DefaultPath is ~/.bank_token.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".bank_token")
}

// Load reads the persisted token, if any.
func (s *Session) Load() error {
	if s.path == "" {
		return nil
	}
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	s.mu.Lock()
	s.token = strings.TrimSpace(string(b))
	s.mu.Unlock()
	return nil
}

// Save stores token and writes it with 0600 permissions.
func (s *Session) Save(token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	if s.path == "" {
		return nil
	}
	if err := os.WriteFile(s.path, []byte(token), 0600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// Clear forgets the token and removes the file.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// Token returns the current token or "". It fits client.WithToken.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Claims decodes the current token.
func (s *Session) Claims() (Claims, error) {
	tok := s.Token()
	if tok == "" {
		return Claims{}, ErrNoToken
	}
	return Decode(tok)
}

// Authenticated reports whether a token is held and has not expired.
func (s *Session) Authenticated(now time.Time) bool {
	c, err := s.Claims()
	return err == nil && !c.Expired(now)
}
