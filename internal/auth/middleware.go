package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

type contextKey string

const adminContextKey contextKey = "admin"

// Outcome tags the result of checking a request's bearer token.
type Outcome int

const (
	Authorized Outcome = iota
	MissingToken
	InvalidToken
	ExpiredToken
)

func (o Outcome) String() string {
	switch o {
	case Authorized:
		return "authorized"
	case MissingToken:
		return "missing"
	case ExpiredToken:
		return "expired"
	default:
		return "invalid"
	}
}

// Result is the verdict for one request. Claims is set only when
// Outcome is Authorized.
type Result struct {
	Outcome Outcome
	Claims  *Claims
}

// Verify checks the Authorization header of r.
func (m *JWTManager) Verify(r *http.Request) Result {
	tokenStr, err := TokenFromHeader(r.Header.Get("Authorization"))
	if err != nil {
		return Result{Outcome: MissingToken}
	}
	claims, err := m.Validate(tokenStr)
	switch {
	case err == nil:
		return Result{Outcome: Authorized, Claims: claims}
	case errors.Is(err, ErrExpiredToken):
		return Result{Outcome: ExpiredToken}
	case errors.Is(err, ErrMissingToken):
		return Result{Outcome: MissingToken}
	default:
		return Result{Outcome: InvalidToken}
	}
}

// Middleware admits requests carrying a valid token and stores the
// claims in the request context. A missing token is answered with 401, a
// forged or expired one with 403. onReject, when non-nil, observes every
// rejection.
func Middleware(m *JWTManager, onReject func(r *http.Request, o Outcome)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := m.Verify(r)
			if res.Outcome != Authorized {
				if onReject != nil {
					onReject(r, res.Outcome)
				}
				status, msg := http.StatusForbidden, "Invalid token"
				if res.Outcome == MissingToken {
					status, msg = http.StatusUnauthorized, "No token provided"
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
				return
			}
			ctx := context.WithValue(r.Context(), adminContextKey, res.Claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAdmin returns the claims stored by Middleware, or nil.
func GetAdmin(ctx context.Context) *Claims {
	claims, _ := ctx.Value(adminContextKey).(*Claims)
	return claims
}
