package repository

import (
	"context"
	"testing"
	"time"

	"yourspace/internal/models"
	"yourspace/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepository_UniquePairIsEnforcedByStore(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	a := testutil.CreateUser(t, db, "alice")
	b := testutil.CreateUser(t, db, "bob")

	require.NoError(t, repo.Create(ctx, &models.Follow{FollowerID: a.ID, FollowedID: b.ID}))

	err := repo.Create(ctx, &models.Follow{FollowerID: a.ID, FollowedID: b.ID})
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeConflict))
	assert.Equal(t, "Already following this user", err.Error())

	// The reverse edge is a different pair.
	require.NoError(t, repo.Create(ctx, &models.Follow{FollowerID: b.ID, FollowedID: a.ID}))
}

func TestFollowRepository_SelfLoopRejectedByStore(t *testing.T) {
	db := testutil.NewDB(t)
	a := testutil.CreateUser(t, db, "alice")

	err := NewFollowRepository(db).Create(context.Background(), &models.Follow{FollowerID: a.ID, FollowedID: a.ID})
	require.Error(t, err)
	assert.Equal(t, "Cannot follow yourself", err.Error())
}

func TestFollowRepository_ExistsDeleteCounts(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	a := testutil.CreateUser(t, db, "alice")
	b := testutil.CreateUser(t, db, "bob")
	c := testutil.CreateUser(t, db, "carol")
	testutil.Follow(t, db, a.ID, b.ID)
	testutil.Follow(t, db, c.ID, b.ID)

	ok, err := repo.Exists(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.Exists(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := repo.CountFollowers(ctx, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	n, err = repo.CountFollowing(ctx, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	removed, err := repo.Delete(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = repo.Delete(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestFollowRepository_ListSummaries(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	a := testutil.CreateUser(t, db, "alice")
	b := testutil.CreateUser(t, db, "bob")
	c := testutil.CreateUser(t, db, "carol")

	avatar := "https://img.example.com/carol.png"
	require.NoError(t, db.Model(&models.Profile{}).Where("user_id = ?", c.ID).
		Updates(map[string]any{"display_name": "Carol C", "avatar_url": avatar}).Error)
	testutil.CreatePostAt(t, db, c.ID, "one", base)
	testutil.CreatePostAt(t, db, c.ID, "two", base.Add(time.Minute))

	testutil.Follow(t, db, a.ID, b.ID)
	testutil.Follow(t, db, c.ID, b.ID)
	testutil.Follow(t, db, b.ID, c.ID)

	followers, err := repo.ListFollowers(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, followers, 2)
	names := []string{followers[0].Username, followers[1].Username}
	assert.ElementsMatch(t, []string{"alice", "carol"}, names)

	following, err := repo.ListFollowing(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	got := following[0]
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, "Carol C", got.DisplayName)
	require.NotNil(t, got.AvatarURL)
	assert.Equal(t, avatar, *got.AvatarURL)
	assert.EqualValues(t, 2, got.PostsCount)

	empty, err := repo.ListFollowers(ctx, a.ID)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
