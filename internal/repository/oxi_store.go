package repository

import (
	"context"

	"github.com/sahil-chaple/happy-street-godhani/internal/db"
)

// OxiStore serves both repositories from one OxiDB connection pool.
type OxiStore struct {
	pool        *db.Pool
	submissions *SubmissionRepo
	admins      *AdminRepo
}

func NewOxiStore(pool *db.Pool) *OxiStore {
	return &OxiStore{
		pool:        pool,
		submissions: NewSubmissionRepo(pool),
		admins:      NewAdminRepo(pool),
	}
}

func (s *OxiStore) Submissions() SubmissionRepository { return s.submissions }
func (s *OxiStore) Admins() AdminRepository           { return s.admins }

func (s *OxiStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *OxiStore) Close(context.Context) error {
	s.pool.Close()
	return nil
}
