package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erniranjank15/Bank/pkg/bank"
)

func signed(t *testing.T, c Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("server-only-key"))
	require.NoError(t, err)
	return tok
}

func TestDecode(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Unix()
	tok := signed(t, Claims{
		UserID:         7,
		Role:           bank.RoleAdmin,
		StandardClaims: jwt.StandardClaims{Subject: "asha", ExpiresAt: exp},
	})

	c, err := Decode(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(7), c.UserID)
	assert.Equal(t, "asha", c.Username())
	assert.True(t, c.IsAdmin())
	assert.False(t, c.Expired(time.Now()))
	assert.True(t, c.Expired(time.Unix(exp+1, 0)))
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode("not-a-token")
	assert.Error(t, err)
}

func TestSession_PersistRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	tok := signed(t, Claims{UserID: 3, Role: bank.RoleUser, StandardClaims: jwt.StandardClaims{Subject: "ravi"}})

	s := New(path)
	require.NoError(t, s.Save(tok))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded := New(path)
	require.NoError(t, loaded.Load())
	assert.Equal(t, tok, loaded.Token())
	assert.True(t, loaded.Authenticated(time.Now()))

	c, err := loaded.Claims()
	require.NoError(t, err)
	assert.Equal(t, "ravi", c.Username())
	assert.False(t, c.IsAdmin())

	require.NoError(t, loaded.Clear())
	assert.Empty(t, loaded.Token())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, loaded.Clear())
}

func TestSession_NoToken(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, s.Load())

	_, err := s.Claims()
	assert.ErrorIs(t, err, ErrNoToken)
	assert.False(t, s.Authenticated(time.Now()))
}

func TestSession_ExpiredToken(t *testing.T) {
	s := New("")
	tok := signed(t, Claims{UserID: 1, StandardClaims: jwt.StandardClaims{
		Subject:   "old",
		ExpiresAt: time.Now().Add(-time.Minute).Unix(),
	}})
	require.NoError(t, s.Save(tok))
	assert.False(t, s.Authenticated(time.Now()))
}
