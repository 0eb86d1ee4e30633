package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devconnect/backend/internal/models"
)

func TestUpsertProfileCreatesThenUpdates(t *testing.T) {
	f := newMemoryFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")

	created, err := f.profiles.Upsert(ctx, alice, &models.ProfileFields{
		Status:  "Developer",
		Skills:  " go , rust,, ",
		Twitter: "https://twitter.com/alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "Developer", created.Status)
	assert.Equal(t, []string{"go", "rust"}, created.Skills)
	require.NotNil(t, created.Social)
	assert.Equal(t, "https://twitter.com/alice", created.Social.Twitter)
	require.NotNil(t, created.User)
	assert.Equal(t, "Alice", created.User.Name)

	updated, err := f.profiles.Upsert(ctx, alice, &models.ProfileFields{
		Status:  "Senior Developer",
		Company: "Acme",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Senior Developer", updated.Status)
	assert.Equal(t, "Acme", updated.Company)
	assert.Equal(t, []string{"go", "rust"}, updated.Skills)
	require.NotNil(t, updated.Social)
	assert.Equal(t, "https://twitter.com/alice", updated.Social.Twitter)

	profiles, err := f.profiles.List(ctx)
	require.NoError(t, err)
	assert.Len(t, profiles, 1)
}

func TestUpsertProfileValidation(t *testing.T) {
	f := newMemoryFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")

	_, err := f.profiles.Upsert(ctx, alice, &models.ProfileFields{Skills: "go"})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "Status is required", verrs["status"])

	_, err = f.profiles.Upsert(ctx, alice, &models.ProfileFields{Status: "Developer"})
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "Skills are required", verrs["skills"])

	_, err = f.profiles.GetByUserID(ctx, alice)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestGetProfileByUserID(t *testing.T) {
	f := newMemoryFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")
	bob := f.register(t, "Bob", "bob@example.com")

	_, err := f.profiles.Upsert(ctx, alice, &models.ProfileFields{Status: "Developer", Skills: "go"})
	require.NoError(t, err)

	prof, err := f.profiles.GetByUserID(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, alice, prof.User.ID.Hex())

	_, err = f.profiles.GetByUserID(ctx, bob)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	_, err = f.profiles.GetByUserID(ctx, "bogus")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProfileSkillsAreCopied(t *testing.T) {
	f := newMemoryFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")

	prof, err := f.profiles.Upsert(ctx, alice, &models.ProfileFields{Status: "Developer", Skills: "go"})
	require.NoError(t, err)
	prof.Skills[0] = "cobol"

	again, err := f.profiles.GetByUserID(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, again.Skills)
}

func TestUpsertProfileWithoutSocialLinksOmitsSocial(t *testing.T) {
	f := newMemoryFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")

	created, err := f.profiles.Upsert(ctx, alice, &models.ProfileFields{Status: "Developer", Skills: "go"})
	require.NoError(t, err)
	assert.Nil(t, created.Social)

	got, err := f.profiles.GetByUserID(ctx, alice)
	require.NoError(t, err)
	assert.Nil(t, got.Social)
}
