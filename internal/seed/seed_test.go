package seed

import (
	"context"
	"testing"
	"time"

	"sharehub/internal/models"
	"sharehub/internal/testutil"
	"sharehub/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeeder_Run(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()

	seeder := NewSeeder(db, Options{
		NumProfiles:     4,
		PostsPerProfile: 2,
		MaxComments:     3,
		MaxDays:         10,
		RandSeed:        42,
		AdminUsername:   "root_admin",
	})
	sum, err := seeder.Run(ctx)
	require.NoError(t, err)

	var profiles, posts, comments, likes, bookmarks int64
	require.NoError(t, db.Model(&models.Profile{}).Count(&profiles).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	require.NoError(t, db.Model(&models.Comment{}).Count(&comments).Error)
	require.NoError(t, db.Model(&models.PostLike{}).Count(&likes).Error)
	require.NoError(t, db.Model(&models.Bookmark{}).Count(&bookmarks).Error)

	assert.Equal(t, int64(4), profiles)
	assert.Equal(t, int64(sum.Profiles), profiles)
	assert.Equal(t, int64(sum.Posts), posts)
	assert.Equal(t, int64(sum.Comments), comments)
	assert.Equal(t, int64(sum.Likes), likes)
	assert.Equal(t, int64(sum.Bookmarks), bookmarks)
	assert.NotZero(t, posts)

	var admin models.Profile
	require.NoError(t, db.Where("username = ?", "root_admin").First(&admin).Error)
	assert.True(t, admin.IsAdmin)

	// Nobody likes their own post.
	var selfLikes int64
	require.NoError(t, db.Table("post_likes").
		Joins("JOIN posts ON posts.id = post_likes.post_id").
		Where("posts.user_id = post_likes.user_id").
		Count(&selfLikes).Error)
	assert.Zero(t, selfLikes)

	// Replies stay on their parent's post.
	var replies []models.Comment
	require.NoError(t, db.Where("parent_id IS NOT NULL").Find(&replies).Error)
	for _, r := range replies {
		var parent models.Comment
		require.NoError(t, db.First(&parent, *r.ParentID).Error)
		assert.Equal(t, parent.PostID, r.PostID)
		assert.Nil(t, parent.ParentID)
	}
}

func TestFactory_BuildPost(t *testing.T) {
	f := NewFactory(nil, Options{MaxDays: 5, RandSeed: 7})
	author := f.BuildProfile()

	post, tags := f.BuildPost(author)
	assert.Equal(t, author.ID, post.UserID)
	assert.Equal(t, models.SourceManual, post.Source)
	assert.Contains(t, post.URL, "https://")
	assert.LessOrEqual(t, len(tags), 3)
	assert.WithinDuration(t, time.Now(), post.CreatedAt, 5*24*time.Hour+time.Minute)
	assert.NoError(t, validation.ValidateUsername(author.Username))

	override, _ := f.BuildPost(author, func(p *models.Post) { p.Title = "fixed" })
	assert.Equal(t, "fixed", override.Title)
}

func TestFactory_CreateProfileAdmin(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	f := NewFactory(db, Options{RandSeed: 3})

	admin, err := f.CreateProfile(ctx, func(p *models.Profile) { p.IsAdmin = true })
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)

	plain, err := f.CreateProfile(ctx)
	require.NoError(t, err)

	var stored models.Profile
	require.NoError(t, db.First(&stored, "id = ?", admin.ID).Error)
	assert.True(t, stored.IsAdmin)
	require.NoError(t, db.First(&stored, "id = ?", plain.ID).Error)
	assert.False(t, stored.IsAdmin)
}

func TestFactory_CreatePostSkipsTakenURL(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	f := NewFactory(db, Options{RandSeed: 1})

	author, err := f.CreateProfile(ctx)
	require.NoError(t, err)

	first, err := f.CreatePost(ctx, author, func(p *models.Post) { p.URL = "https://example.com/a" })
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := f.CreatePost(ctx, author, func(p *models.Post) { p.URL = "https://example.com/a" })
	require.NoError(t, err)
	assert.Nil(t, second)
}
