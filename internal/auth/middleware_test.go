package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protected(t *testing.T, m *JWTManager, rejected *[]Outcome) http.Handler {
	t.Helper()
	return Middleware(m, func(_ *http.Request, o Outcome) {
		*rejected = append(*rejected, o)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetAdmin(r.Context())
		require.NotNil(t, claims)
		w.Write([]byte(claims.Username))
	}))
}

func TestMiddlewareMissingToken(t *testing.T) {
	var rejected []Outcome
	h := protected(t, NewJWTManager("secret", time.Hour), &rejected)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/submissions", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"No token provided"}`, rec.Body.String())
	assert.Equal(t, []Outcome{MissingToken}, rejected)
}

func TestMiddlewareInvalidToken(t *testing.T) {
	var rejected []Outcome
	h := protected(t, NewJWTManager("secret", time.Hour), &rejected)

	req := httptest.NewRequest(http.MethodGet, "/api/submissions", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid token"}`, rec.Body.String())
	assert.Equal(t, []Outcome{InvalidToken}, rejected)
}

func TestMiddlewareExpiredToken(t *testing.T) {
	m := NewJWTManager("secret", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err := m.Generate("admin")
	require.NoError(t, err)
	m.now = time.Now

	var rejected []Outcome
	h := protected(t, m, &rejected)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, []Outcome{ExpiredToken}, rejected)
	assert.Equal(t, "expired", ExpiredToken.String())
}

func TestMiddlewareValidToken(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	token, err := m.Generate("admin")
	require.NoError(t, err)

	var rejected []Outcome
	h := protected(t, m, &rejected)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", rec.Body.String())
	assert.Empty(t, rejected)
}
