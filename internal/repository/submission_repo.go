package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sahil-chaple/happy-street-godhani/internal/db"
	"github.com/sahil-chaple/happy-street-godhani/internal/models"
	"github.com/sahil-chaple/happy-street-godhani/internal/oxidb"
)

// SubmissionRepo is the OxiDB-backed SubmissionRepository.
type SubmissionRepo struct {
	pool *db.Pool
}

func NewSubmissionRepo(pool *db.Pool) *SubmissionRepo {
	return &SubmissionRepo{pool: pool}
}

func (r *SubmissionRepo) EnsureIndexes(ctx context.Context) error {
	return r.pool.Do(func(c *oxidb.Client) error {
		return c.CreateIndex(ctx, SubmissionsCollection, "submittedAt")
	})
}

func (r *SubmissionRepo) Create(ctx context.Context, sub *models.Submission) (string, error) {
	doc, err := submissionToDoc(sub)
	if err != nil {
		return "", err
	}
	var id string
	err = r.pool.Do(func(c *oxidb.Client) error {
		result, err := c.Insert(ctx, SubmissionsCollection, doc)
		if err != nil {
			return err
		}
		id = extractID(result)
		return nil
	})
	return id, err
}

func (r *SubmissionRepo) List(ctx context.Context) ([]models.Submission, error) {
	return r.find(ctx, &oxidb.FindOptions{Sort: map[string]any{"submittedAt": -1}})
}

func (r *SubmissionRepo) All(ctx context.Context) ([]models.Submission, error) {
	return r.find(ctx, nil)
}

func (r *SubmissionRepo) find(ctx context.Context, opts *oxidb.FindOptions) ([]models.Submission, error) {
	var docs []map[string]any
	err := r.pool.Do(func(c *oxidb.Client) error {
		var err error
		docs, err = c.Find(ctx, SubmissionsCollection, map[string]any{}, opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	subs := make([]models.Submission, 0, len(docs))
	for _, d := range docs {
		s, err := docToSubmission(d)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *s)
	}
	return subs, nil
}

func (r *SubmissionRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.pool.Do(func(c *oxidb.Client) error {
		_, err := c.UpdateOne(ctx, SubmissionsCollection,
			map[string]any{"_id": toNumericID(id)},
			map[string]any{"$set": map[string]any{"status": status}})
		return err
	})
}

func (r *SubmissionRepo) Delete(ctx context.Context, id string) error {
	return r.pool.Do(func(c *oxidb.Client) error {
		_, err := c.DeleteOne(ctx, SubmissionsCollection, map[string]any{"_id": toNumericID(id)})
		return err
	})
}

func submissionToDoc(s *models.Submission) (map[string]any, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal submission: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal submission doc: %w", err)
	}
	delete(doc, "_id")
	doc["submittedAt"] = formatOxiTime(s.SubmittedAt)
	return doc, nil
}

func docToSubmission(doc map[string]any) (*models.Submission, error) {
	normalizeID(doc)
	submittedAt, err := parseOxiTime(doc["submittedAt"])
	if err != nil {
		return nil, fmt.Errorf("submission %v: %w", doc["_id"], err)
	}
	delete(doc, "submittedAt")
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal submission doc: %w", err)
	}
	var s models.Submission
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal submission: %w", err)
	}
	s.SubmittedAt = submittedAt
	if s.Status == "" {
		s.Status = models.DefaultStatus
	}
	return &s, nil
}
