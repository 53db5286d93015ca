package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sahil-chaple/happy-street-godhani/internal/auth"
	"github.com/sahil-chaple/happy-street-godhani/internal/metrics"
	"github.com/sahil-chaple/happy-street-godhani/internal/models"
	"github.com/sahil-chaple/happy-street-godhani/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoSeedPassword     = errors.New("no initial admin password configured")
)

type AuthService struct {
	admins repository.AdminRepository
	tokens *auth.JWTManager
}

func NewAuthService(admins repository.AdminRepository, tokens *auth.JWTManager) *AuthService {
	return &AuthService{admins: admins, tokens: tokens}
}

// Login checks the credentials and returns a signed token embedding the
// username.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	admin, err := s.admins.FindByUsername(ctx, username)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return "", fmt.Errorf("find admin: %w", err)
	}
	if admin == nil || !auth.CheckPassword(password, admin.PasswordHash) {
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		return "", ErrInvalidCredentials
	}
	token, err := s.tokens.Generate(admin.Username)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return "", fmt.Errorf("sign token: %w", err)
	}
	metrics.LoginAttempts.WithLabelValues("success").Inc()
	return token, nil
}

// SeedAdmin creates the administrator if no record with username exists.
// It reports whether a record was created.
func (s *AuthService) SeedAdmin(ctx context.Context, username, password string) (bool, error) {
	existing, err := s.admins.FindByUsername(ctx, username)
	if err != nil {
		return false, fmt.Errorf("find admin: %w", err)
	}
	if existing != nil {
		return false, nil
	}
	if password == "" {
		return false, ErrNoSeedPassword
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	_, err = s.admins.Create(ctx, &models.Admin{Username: username, PasswordHash: hash})
	if errors.Is(err, repository.ErrDuplicate) {
		// Another instance seeded it first.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	return true, nil
}
