package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahil-chaple/happy-street-godhani/internal/models"
	"github.com/sahil-chaple/happy-street-godhani/internal/repository/memory"
)

func newSubmissionService(t *testing.T) (*SubmissionService, *memory.Store) {
	t.Helper()
	store := memory.New()
	svc := NewSubmissionService(store.Submissions(), time.UTC)
	return svc, store
}

func TestCreateAppliesDefaults(t *testing.T) {
	svc, _ := newSubmissionService(t)
	now := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	sub, err := svc.Create(context.Background(), models.SubmissionInput{FormType: "vendor", Name: "A", Phone: "123"})
	require.NoError(t, err)

	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, "pending", sub.Status)
	assert.Equal(t, now, sub.SubmittedAt)
	for _, v := range []string{sub.Email, sub.Category, sub.Details, sub.BrandName, sub.StallType,
		sub.CompanyName, sub.SponsorshipLevel, sub.PerformanceCategory, sub.HelpType, sub.CustomIdea} {
		assert.Empty(t, v)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, store := newSubmissionService(t)

	tests := []struct {
		name string
		in   models.SubmissionInput
		want string
	}{
		{"missing name", models.SubmissionInput{FormType: "vendor", Phone: "1"}, "name is required"},
		{"blank phone", models.SubmissionInput{FormType: "vendor", Name: "A", Phone: "   "}, "phone is required"},
		{"missing form type", models.SubmissionInput{Name: "A", Phone: "1"}, "formType is required"},
		{"unknown form type", models.SubmissionInput{FormType: "juggler", Name: "A", Phone: "1"}, "formType must be one of vendor, sponsor, performer, volunteer"},
		{"bad email", models.SubmissionInput{FormType: "sponsor", Name: "A", Phone: "1", Email: "nope"}, "email must be a valid email address"},
		{"long details", models.SubmissionInput{FormType: "volunteer", Name: "A", Phone: "1", Details: strings.Repeat("x", 5001)}, "details must be at most 5000 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.in)
			require.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	all, err := store.Submissions().All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateTrimsInput(t *testing.T) {
	svc, _ := newSubmissionService(t)

	sub, err := svc.Create(context.Background(), models.SubmissionInput{FormType: " performer ", Name: " Band ", Phone: "99 "})
	require.NoError(t, err)
	assert.Equal(t, "performer", sub.FormType)
	assert.Equal(t, "Band", sub.Name)
	assert.Equal(t, "99", sub.Phone)
}

func TestCreateStoreFailure(t *testing.T) {
	svc, store := newSubmissionService(t)
	boom := errors.New("boom")
	store.FailWith(boom)

	_, err := svc.Create(context.Background(), models.SubmissionInput{FormType: "vendor", Name: "A", Phone: "1"})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrValidation)
}

func TestListNewestFirst(t *testing.T) {
	svc, _ := newSubmissionService(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, name := range []string{"first", "second", "third"} {
		at := base.Add(time.Duration(i) * time.Hour)
		svc.now = func() time.Time { return at }
		_, err := svc.Create(ctx, models.SubmissionInput{FormType: "vendor", Name: name, Phone: "1"})
		require.NoError(t, err)
	}

	subs, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 3)
	assert.Equal(t, "third", subs[0].Name)
	assert.Equal(t, "first", subs[2].Name)
}

func TestUpdateStatusAndDelete(t *testing.T) {
	svc, store := newSubmissionService(t)
	ctx := context.Background()

	sub, err := svc.Create(ctx, models.SubmissionInput{FormType: "vendor", Name: "A", Phone: "1"})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(ctx, sub.ID, "approved-ish"))
	subs, _ := svc.List(ctx)
	assert.Equal(t, "approved-ish", subs[0].Status)

	assert.NoError(t, svc.UpdateStatus(ctx, "does-not-exist", "approved"))
	assert.NoError(t, svc.Delete(ctx, "does-not-exist"))

	require.NoError(t, svc.Delete(ctx, sub.ID))
	all, _ := store.Submissions().All(ctx)
	assert.Empty(t, all)
}

func TestExportCSV(t *testing.T) {
	svc, _ := newSubmissionService(t)
	ctx := context.Background()
	svc.now = func() time.Time { return time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC) }

	_, err := svc.Create(ctx, models.SubmissionInput{FormType: "performer", Name: "DJ", Phone: "42", Details: `He said "hi"`})
	require.NoError(t, err)

	out, err := svc.ExportCSV(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ID,Name,Phone,Type,Details,Status,Date\n"+
		`1,"DJ",42,performer,"He said ""hi""",pending,3/9/2024`, string(out))
}

func TestStats(t *testing.T) {
	svc, store := newSubmissionService(t)
	ctx := context.Background()

	for _, ft := range []string{"vendor", "vendor", "sponsor"} {
		_, err := svc.Create(ctx, models.SubmissionInput{FormType: ft, Name: "n", Phone: "1"})
		require.NoError(t, err)
	}
	subs, _ := svc.List(ctx)
	require.NoError(t, svc.UpdateStatus(ctx, subs[0].ID, "contacted"))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, map[string]int{"vendor": 2, "sponsor": 1, "performer": 0, "volunteer": 0}, stats.ByFormType)
	assert.Equal(t, map[string]int{"pending": 2, "contacted": 1}, stats.ByStatus)

	store.FailWith(errors.New("down"))
	_, err = svc.Stats(ctx)
	assert.Error(t, err)
}
