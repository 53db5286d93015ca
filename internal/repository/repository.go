// Package repository persists submissions and administrators in a
// document store. Two backends implement the same interfaces: MongoDB and
// OxiDB.
package repository

import (
	"context"
	"errors"

	"github.com/sahil-chaple/happy-street-godhani/internal/models"
)

// Collection names shared by both backends.
const (
	SubmissionsCollection = "submissions"
	AdminsCollection      = "admins"
)

// ErrDuplicate is returned when a unique index rejects a write.
var ErrDuplicate = errors.New("duplicate key")

// SubmissionRepository stores registration form entries.
type SubmissionRepository interface {
	Create(ctx context.Context, sub *models.Submission) (string, error)
	// List returns every submission, newest submittedAt first.
	List(ctx context.Context) ([]models.Submission, error)
	// All returns every submission in store order.
	All(ctx context.Context) ([]models.Submission, error)
	// UpdateStatus and Delete succeed when id matches nothing.
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

// AdminRepository stores administrator credentials.
type AdminRepository interface {
	// FindByUsername returns nil, nil when no administrator matches.
	FindByUsername(ctx context.Context, username string) (*models.Admin, error)
	Create(ctx context.Context, admin *models.Admin) (string, error)
	EnsureIndexes(ctx context.Context) error
}

// Store bundles the repositories of one backend with its lifecycle.
type Store interface {
	Submissions() SubmissionRepository
	Admins() AdminRepository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
