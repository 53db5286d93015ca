package repository

import (
	"context"
	"fmt"

	"github.com/sahil-chaple/happy-street-godhani/internal/db"
	"github.com/sahil-chaple/happy-street-godhani/internal/models"
	"github.com/sahil-chaple/happy-street-godhani/internal/oxidb"
)

// AdminRepo is the OxiDB-backed AdminRepository.
type AdminRepo struct {
	pool *db.Pool
}

func NewAdminRepo(pool *db.Pool) *AdminRepo {
	return &AdminRepo{pool: pool}
}

func (r *AdminRepo) EnsureIndexes(ctx context.Context) error {
	return r.pool.Do(func(c *oxidb.Client) error {
		return c.CreateUniqueIndex(ctx, AdminsCollection, "username")
	})
}

func (r *AdminRepo) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var doc map[string]any
	err := r.pool.Do(func(c *oxidb.Client) error {
		var err error
		doc, err = c.FindOne(ctx, AdminsCollection, map[string]any{"username": username})
		return err
	})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	return docToAdmin(doc)
}

func (r *AdminRepo) Create(ctx context.Context, admin *models.Admin) (string, error) {
	doc := map[string]any{
		"username": admin.Username,
		"password": admin.PasswordHash,
	}
	var id string
	err := r.pool.Do(func(c *oxidb.Client) error {
		result, err := c.Insert(ctx, AdminsCollection, doc)
		if err != nil {
			return err
		}
		id = extractID(result)
		return nil
	})
	if oxidb.IsDuplicateKey(err) {
		return "", fmt.Errorf("admin %q: %w", admin.Username, ErrDuplicate)
	}
	return id, err
}

func docToAdmin(doc map[string]any) (*models.Admin, error) {
	normalizeID(doc)
	id, _ := doc["_id"].(string)
	username, _ := doc["username"].(string)
	hash, _ := doc["password"].(string)
	if username == "" || hash == "" {
		return nil, fmt.Errorf("admin doc %q: missing username or password", id)
	}
	return &models.Admin{ID: id, Username: username, PasswordHash: hash}, nil
}
