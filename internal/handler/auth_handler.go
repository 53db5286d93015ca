package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/sahil-chaple/happy-street-godhani/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login answers bad credentials with 200 and success:false; the admin
// page branches on the flag rather than the status code.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	token, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		zerolog.Ctx(r.Context()).Warn().Str("username", req.Username).Msg("admin login rejected")
		writeFailure(w, http.StatusOK, "Invalid credentials")
		return
	}
	if err != nil {
		writeInternal(w, r, err, "Login failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "token": token})
}
