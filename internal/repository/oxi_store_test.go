package repository

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahil-chaple/happy-street-godhani/internal/db"
	"github.com/sahil-chaple/happy-street-godhani/internal/models"
	"github.com/sahil-chaple/happy-street-godhani/internal/oxidb/oxidbtest"
)

func newOxiStore(t *testing.T) (*OxiStore, *oxidbtest.Server) {
	t.Helper()
	srv := oxidbtest.NewServer(t)
	pool, err := db.NewPool(srv.Host(), srv.Port(), db.Options{Size: 2, Logger: zerolog.Nop()})
	require.NoError(t, err)
	store := NewOxiStore(pool)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store, srv
}

func TestOxiSubmissionsRoundTrip(t *testing.T) {
	store, srv := newOxiStore(t)
	ctx := context.Background()
	subs := store.Submissions()

	require.NoError(t, subs.EnsureIndexes(ctx))
	assert.Contains(t, srv.Indexes(SubmissionsCollection), "submittedAt")

	at := time.Date(2024, 2, 3, 4, 5, 6, 7_000_000, time.UTC)
	in := &models.Submission{
		FormType: "sponsor", Name: "Acme", Phone: "555", CompanyName: "Acme Ltd",
		SponsorshipLevel: "gold", Status: models.DefaultStatus, SubmittedAt: at,
	}
	id, err := subs.Create(ctx, in)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	docs := srv.Docs(SubmissionsCollection)
	require.Len(t, docs, 1)
	assert.Equal(t, "2024-02-03T04:05:06.007Z", docs[0]["submittedAt"])
	assert.Equal(t, id, oxidbtest.ID(docs[0]))

	all, err := subs.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	got := all[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Acme Ltd", got.CompanyName)
	assert.Equal(t, "gold", got.SponsorshipLevel)
	assert.True(t, at.Equal(got.SubmittedAt))
}

func TestOxiSubmissionsListNewestFirst(t *testing.T) {
	store, _ := newOxiStore(t)
	ctx := context.Background()
	subs := store.Submissions()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, h := range []int{2, 0, 1} {
		_, err := subs.Create(ctx, &models.Submission{
			FormType: "vendor", Name: "n", Phone: "1", Status: "pending",
			SubmittedAt: base.Add(time.Duration(h) * time.Hour),
		})
		require.NoError(t, err)
	}

	list, err := subs.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i := 1; i < len(list); i++ {
		assert.True(t, list[i-1].SubmittedAt.After(list[i].SubmittedAt))
	}
}

func TestOxiSubmissionsUpdateAndDelete(t *testing.T) {
	store, srv := newOxiStore(t)
	ctx := context.Background()
	subs := store.Submissions()

	id, err := subs.Create(ctx, &models.Submission{FormType: "volunteer", Name: "V", Phone: "1", Status: "pending"})
	require.NoError(t, err)

	require.NoError(t, subs.UpdateStatus(ctx, id, "contacted"))
	assert.Equal(t, "contacted", srv.Docs(SubmissionsCollection)[0]["status"])

	assert.NoError(t, subs.UpdateStatus(ctx, "999", "approved"))
	assert.NoError(t, subs.UpdateStatus(ctx, "not-an-id", "approved"))
	assert.NoError(t, subs.Delete(ctx, "not-an-id"))
	assert.Len(t, srv.Docs(SubmissionsCollection), 1)

	require.NoError(t, subs.Delete(ctx, id))
	assert.Empty(t, srv.Docs(SubmissionsCollection))
}

func TestOxiAdmins(t *testing.T) {
	store, srv := newOxiStore(t)
	ctx := context.Background()
	admins := store.Admins()

	require.NoError(t, admins.EnsureIndexes(ctx))
	assert.Contains(t, srv.Indexes(AdminsCollection), "username")

	missing, err := admins.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Nil(t, missing)

	id, err := admins.Create(ctx, &models.Admin{Username: "admin", PasswordHash: "hash"})
	require.NoError(t, err)

	found, err := admins.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, id, found.ID)
	assert.Equal(t, "hash", found.PasswordHash)

	_, err = admins.Create(ctx, &models.Admin{Username: "admin", PasswordHash: "other"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestOxiStoreSurfacesServerErrors(t *testing.T) {
	store, srv := newOxiStore(t)
	ctx := context.Background()

	srv.FailWith("disk full")
	_, err := store.Submissions().List(ctx)
	assert.ErrorContains(t, err, "disk full")
	assert.Error(t, store.Ping(ctx))

	srv.FailWith("")
	assert.NoError(t, store.Ping(ctx))
}
