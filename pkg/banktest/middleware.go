package banktest

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/sirupsen/logrus"

	"github.com/erniranjank15/Bank/pkg/bank"
	"github.com/erniranjank15/Bank/pkg/session"
)

type claimsKey struct{}

func claimsFrom(ctx context.Context) session.Claims {
	c, _ := ctx.Value(claimsKey{}).(session.Claims)
	return c
}

// access lists the roles allowed on a route, with the detail sent to others.
type access struct {
	roles  []bank.Role
	denied string
}

var (
	adminOnly   = access{roles: []bank.Role{bank.RoleAdmin}, denied: "Admin access required"}
	userOnly    = access{roles: []bank.Role{bank.RoleUser}, denied: "User access required"}
	userOrAdmin = access{roles: []bank.Role{bank.RoleUser, bank.RoleAdmin}, denied: "Access denied"}
)

func (a access) allows(r bank.Role) bool {
	for _, role := range a.roles {
		if role == r {
			return true
		}
	}
	return false
}

func (b *Backend) issueToken(u bank.User) (string, error) {
	claims := session.Claims{
		UserID: u.UserID,
		Role:   u.Role,
		StandardClaims: jwt.StandardClaims{
			Subject:   u.Username,
			ExpiresAt: b.now().Add(tokenTTL).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(b.secret)
}

// auth checks the bearer token and the caller's role before next runs.
func (b *Backend) auth(a access, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenStr := r.Header.Get("Authorization")
		if !strings.HasPrefix(tokenStr, "Bearer ") {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		tokenStr = strings.TrimPrefix(tokenStr, "Bearer ")

		claims := session.Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return b.secret, nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			writeDetail(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		if !a.allows(claims.Role) {
			writeDetail(w, http.StatusForbidden, a.denied)
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
	}
}

// logRequests logs the request and response details of every call.
func (b *Backend) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Capture the response details by wrapping the ResponseWriter
		lrw := &loggedResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(lrw, r)

		b.log.WithFields(logrus.Fields{
			"method":       r.Method,
			"url":          r.URL.Path,
			"qs_params":    r.URL.RawQuery,
			"request_id":   r.Header.Get("X-Request-ID"),
			"req_body_len": r.ContentLength,
			"status":       lrw.statusCode,
			"status_class": getStatusClass(lrw.statusCode),
			"rsp_body_len": lrw.responseLength,
		}).Info("request")
	})
}

// loggedResponseWriter captures the status code and body length.
type loggedResponseWriter struct {
	http.ResponseWriter
	statusCode     int
	responseLength int64
}

func (lrw *loggedResponseWriter) WriteHeader(statusCode int) {
	lrw.statusCode = statusCode
	lrw.ResponseWriter.WriteHeader(statusCode)
}

func (lrw *loggedResponseWriter) Write(b []byte) (int, error) {
	size, err := lrw.ResponseWriter.Write(b)
	lrw.responseLength += int64(size)
	return size, err
}

// getStatusClass categorizes the status code
func getStatusClass(statusCode int) string {
	return fmt.Sprintf("%dxx", statusCode/100)
}
