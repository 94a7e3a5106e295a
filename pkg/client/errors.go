package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// APIError is a non-2xx response from the bank API.
type APIError struct {
	StatusCode int
	Status     string
	// Detail is the human readable message from the body's "detail" field,
	// empty when the server did not send one.
	Detail string
	Body   []byte
}

func newAPIError(resp *http.Response, body []byte) *APIError {
	return &APIError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Detail:     detailFromBody(body),
		Body:       body,
	}
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("bank api: %s: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("bank api: %s", e.Status)
}

// Message returns the server supplied message. It satisfies the interface the
// operation layer uses to format failures.
func (e *APIError) Message() string { return e.Detail }

// detailFromBody reads {"detail": "..."}. Validation failures carry a list of
// {"msg": "..."} objects instead; the first message is used.
func detailFromBody(body []byte) string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return ""
	}
	detail := gjson.GetBytes(body, "detail")
	switch {
	case detail.Type == gjson.String:
		return strings.TrimSpace(detail.String())
	case detail.IsArray():
		return strings.TrimSpace(detail.Get("0.msg").String())
	}
	return ""
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

func IsNotFound(err error) bool     { return IsStatus(err, http.StatusNotFound) }
func IsUnauthorized(err error) bool { return IsStatus(err, http.StatusUnauthorized) }
