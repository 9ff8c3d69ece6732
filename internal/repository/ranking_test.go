package repository

import (
	"context"
	"testing"
	"time"

	"sharehub/internal/models"
	"sharehub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankingRepository(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	posts := NewPostRepository(db)
	repo := NewRankingRepository(db)
	ctx := context.Background()

	alice := testutil.CreateProfile(t, db, "alice", false)
	bob := testutil.CreateProfile(t, db, "bob", false)
	carol := testutil.CreateProfile(t, db, "carol", false)

	popular := &models.Post{Title: "popular", URL: "https://e.com/1", UserID: alice.ID, Source: models.SourceManual}
	require.NoError(t, posts.Create(ctx, popular, []string{"go"}))
	chatty := &models.Post{Title: "chatty", URL: "https://e.com/2", UserID: alice.ID, Source: models.SourceManual}
	require.NoError(t, posts.Create(ctx, chatty, []string{"go", "db"}))
	old := &models.Post{Title: "old", URL: "https://e.com/3", UserID: bob.ID, Source: models.SourceManual}
	require.NoError(t, posts.Create(ctx, old, []string{"db"}))
	require.NoError(t, db.Model(old).UpdateColumn("created_at", time.Now().AddDate(0, -2, 0)).Error)
	feedItem := &models.Post{Title: "feed", URL: "https://e.com/4", UserID: carol.ID, Source: models.SourceRSS}
	require.NoError(t, posts.Create(ctx, feedItem, nil))

	for _, u := range []string{bob.ID, carol.ID} {
		_, err := posts.Like(ctx, u, popular.ID)
		require.NoError(t, err)
	}
	for i := 0; i < 3; i++ {
		testutil.CreateComment(t, db, chatty.ID, bob.ID, "c", nil)
	}

	byLikes, err := repo.TopPosts(ctx, time.Time{}, RankByLikes, 10)
	require.NoError(t, err)
	require.NotEmpty(t, byLikes)
	assert.Equal(t, popular.ID, byLikes[0].ID)
	assert.Equal(t, 2, byLikes[0].LikesCount)

	byComments, err := repo.TopPosts(ctx, time.Time{}, RankByComments, 10)
	require.NoError(t, err)
	assert.Equal(t, chatty.ID, byComments[0].ID)
	assert.Equal(t, 3, byComments[0].CommentsCount)

	recent, err := repo.TopPosts(ctx, time.Now().AddDate(0, 0, -7), RankByLikes, 10)
	require.NoError(t, err)
	for _, p := range recent {
		assert.NotEqual(t, old.ID, p.ID)
	}

	contributors, err := repo.TopContributors(ctx, time.Time{}, 10)
	require.NoError(t, err)
	require.Len(t, contributors, 2, "feed items do not count")
	assert.Equal(t, "alice", contributors[0].Profile.Username)
	assert.Equal(t, 2, contributors[0].PostCount)

	weekly, err := repo.TopContributors(ctx, time.Now().AddDate(0, 0, -7), 10)
	require.NoError(t, err)
	require.Len(t, weekly, 1)

	tags, err := repo.TopTags(ctx, time.Time{}, 10)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, 2, tags[0].PostCount)
	assert.Equal(t, "db", tags[0].Name, "ties break by name")
}
