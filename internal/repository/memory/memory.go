// Package memory is a process-local Store for development and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/sahil-chaple/happy-street-godhani/internal/models"
	"github.com/sahil-chaple/happy-street-godhani/internal/repository"
)

type Store struct {
	mu     sync.Mutex
	seq    int
	subs   []models.Submission
	admins []models.Admin
	err    error
}

func New() *Store {
	return &Store{}
}

// FailWith makes every following operation return err; nil clears it.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *Store) Submissions() repository.SubmissionRepository { return (*submissions)(s) }
func (s *Store) Admins() repository.AdminRepository           { return (*admins)(s) }

func (s *Store) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Store) Close(context.Context) error { return nil }

func (s *Store) nextID() string {
	s.seq++
	return strconv.Itoa(s.seq)
}

type submissions Store

func (r *submissions) EnsureIndexes(context.Context) error { return nil }

func (r *submissions) Create(_ context.Context, sub *models.Submission) (string, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	stored := *sub
	stored.ID = s.nextID()
	s.subs = append(s.subs, stored)
	return stored.ID, nil
}

func (r *submissions) List(ctx context.Context) ([]models.Submission, error) {
	out, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out, nil
}

func (r *submissions) All(context.Context) ([]models.Submission, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]models.Submission{}, s.subs...), nil
}

func (r *submissions) UpdateStatus(_ context.Context, id, status string) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for i := range s.subs {
		if s.subs[i].ID == id {
			s.subs[i].Status = status
			return nil
		}
	}
	return nil
}

func (r *submissions) Delete(_ context.Context, id string) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for i := range s.subs {
		if s.subs[i].ID == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return nil
		}
	}
	return nil
}

type admins Store

func (r *admins) EnsureIndexes(context.Context) error { return nil }

func (r *admins) FindByUsername(_ context.Context, username string) (*models.Admin, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, a := range s.admins {
		if a.Username == username {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (r *admins) Create(_ context.Context, admin *models.Admin) (string, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	for _, a := range s.admins {
		if a.Username == admin.Username {
			return "", fmt.Errorf("admin %q: %w", admin.Username, repository.ErrDuplicate)
		}
	}
	stored := *admin
	stored.ID = s.nextID()
	s.admins = append(s.admins, stored)
	return stored.ID, nil
}
