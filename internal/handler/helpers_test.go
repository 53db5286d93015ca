package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSON(t *testing.T) {
	var v struct {
		Status string `json:"status"`
	}

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"status":"approved"}`))
	require.NoError(t, readJSON(httptest.NewRecorder(), req, &v))
	assert.Equal(t, "approved", v.Status)

	req = httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"status":"a"} {"status":"b"}`))
	assert.Error(t, readJSON(httptest.NewRecorder(), req, &v))

	req = httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"status":"`+strings.Repeat("x", maxBodyBytes)+`"}`))
	assert.Error(t, readJSON(httptest.NewRecorder(), req, &v))
}

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(pingFunc(func(context.Context) error { return nil })).
		Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	NewHealthHandler(pingFunc(func(context.Context) error { return errors.New("no route to host") })).
		Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable","error":"no route to host"}`, rec.Body.String())
}
