package banktest

import (
	"net/http/httptest"
)

// NewServer starts a Backend behind an httptest.Server. Callers must Close it.
func NewServer(opts ...Option) (*Backend, *httptest.Server) {
	b := New(opts...)
	return b, httptest.NewServer(b.Handler())
}
