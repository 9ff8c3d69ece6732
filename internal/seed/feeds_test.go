package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"sharehub/internal/models"
	"sharehub/internal/repository"
	"sharehub/internal/service"
	"sharehub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeeds = `
feeds:
  - name: Go Blog
    url: https://go.dev/blog/feed.atom
    tags: [Go, "#golang"]
  - name: Paused
    url: https://example.com/rss
    active: false
`

func TestParseFeeds(t *testing.T) {
	t.Parallel()

	entries, err := ParseFeeds([]byte(sampleFeeds))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Go Blog", entries[0].Name)
	assert.Equal(t, []string{"Go", "#golang"}, entries[0].Tags)
	assert.Nil(t, entries[0].Active)
	require.NotNil(t, entries[1].Active)
	assert.False(t, *entries[1].Active)

	_, err = ParseFeeds([]byte("feeds:\n  - name: NoURL\n"))
	assert.ErrorContains(t, err, "name and url are required")

	_, err = ParseFeeds([]byte("feeds: [unclosed"))
	assert.Error(t, err)
}

func TestLoadFeedsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "feeds.yml")
	require.NoError(t, os.WriteFile(path, []byte(sampleFeeds), 0o600))

	entries, err := LoadFeedsFile(path)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	_, err = LoadFeedsFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestSeedFeeds_Idempotent(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	admin := testutil.CreateProfile(t, db, "feed_admin", true)
	svc := service.NewFeedService(repository.NewRssFeedRepository(db), nil)

	entries, err := ParseFeeds([]byte(sampleFeeds))
	require.NoError(t, err)

	created, err := SeedFeeds(ctx, svc, admin.ID, entries)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	created, err = SeedFeeds(ctx, svc, admin.ID, entries)
	require.NoError(t, err)
	assert.Zero(t, created)

	var feeds []models.RssFeed
	require.NoError(t, db.Order("id").Find(&feeds).Error)
	require.Len(t, feeds, 2)
	assert.Equal(t, []string{"go", "golang"}, []string(feeds[0].Tags))
	assert.True(t, feeds[0].IsActive)
	assert.False(t, feeds[1].IsActive)
	assert.Equal(t, admin.ID, feeds[1].CreatedBy)

	_, err = SeedFeeds(ctx, svc, admin.ID, []FeedEntry{{Name: "Bad", URL: "ftp://nope"}})
	assert.True(t, models.IsCode(err, models.CodeValidation))
}
