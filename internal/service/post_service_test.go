package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"sharehub/internal/models"
	"sharehub/internal/repository"
	"sharehub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_CreatePost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := testutil.CreateProfile(t, env.db, "ada", false)

	post, err := env.posts.CreatePost(ctx, CreatePostInput{
		UserID:  author.ID,
		Title:   "  Understanding the Go scheduler ",
		URL:     "https://Example.com/articles/scheduler/#top",
		Content: "A tour of GMP.",
		Tags:    []string{"Go", "#runtime", "go"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Understanding the Go scheduler", post.Title)
	assert.Equal(t, "https://example.com/articles/scheduler", post.URL)
	assert.Equal(t, models.SourceManual, post.Source)
	assert.ElementsMatch(t, []string{"go", "runtime"}, post.TagNames())
	require.NotNil(t, post.Author)
	assert.Equal(t, "ada", post.Author.Username)

	msgs := env.chat.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "ada shared a new article")
	assert.Contains(t, msgs[0].Text, "https://hub.example.com/posts/")
}

func TestPostService_CreatePost_DuplicateURL(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := testutil.CreateProfile(t, env.db, "ada", false)

	first, err := env.posts.CreatePost(ctx, CreatePostInput{UserID: author.ID, Title: "One", URL: "https://example.com/a"})
	require.NoError(t, err)

	_, err = env.posts.CreatePost(ctx, CreatePostInput{UserID: author.ID, Title: "Two", URL: "HTTPS://EXAMPLE.COM:443/a/#frag"})
	appErr := requireAppError(t, err, models.CodeConflict)
	assert.EqualValues(t, first.ID, appErr.Details["existing_post_id"])
	assert.Equal(t, 409, models.StatusFor(err))
}

func TestPostService_CreatePost_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tooManyTags := make([]string, 11)
	for i := range tooManyTags {
		tooManyTags[i] = strings.Repeat("t", i+1)
	}

	cases := map[string]CreatePostInput{
		"missing title":  {URL: "https://example.com"},
		"missing url":    {Title: "x"},
		"relative url":   {Title: "x", URL: "/just/a/path"},
		"ftp url":        {Title: "x", URL: "ftp://example.com/file"},
		"title too long": {Title: strings.Repeat("a", 301), URL: "https://example.com"},
		"content long":   {Title: "x", URL: "https://example.com", Content: strings.Repeat("a", 50001)},
		"too many tags":  {Title: "x", URL: "https://example.com", Tags: tooManyTags},
		"tag too long":   {Title: "x", URL: "https://example.com", Tags: []string{strings.Repeat("a", 33)}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			in.UserID = "00000000-0000-0000-0000-000000000001"
			_, err := env.posts.CreatePost(ctx, in)
			requireAppError(t, err, models.CodeValidation)
		})
	}
}

func TestPostService_CreatePost_ChatFailureIsNotFatal(t *testing.T) {
	env := newTestEnv(t)
	env.chat.err = errors.New("webhook down")
	author := testutil.CreateProfile(t, env.db, "ada", false)

	_, err := env.posts.CreatePost(context.Background(), CreatePostInput{UserID: author.ID, Title: "x", URL: "https://example.com/x"})
	require.NoError(t, err)
	assert.Len(t, env.chat.messages(), 1)
}

func TestPostService_CreatePost_ChatFlagOff(t *testing.T) {
	env := newTestEnvWithFlags(t, "chat_notifications=off")
	author := testutil.CreateProfile(t, env.db, "ada", false)

	_, err := env.posts.CreatePost(context.Background(), CreatePostInput{UserID: author.ID, Title: "x", URL: "https://example.com/x"})
	require.NoError(t, err)
	assert.Empty(t, env.chat.messages())
}

func TestPostService_CreatePost_ChatFlagUnset(t *testing.T) {
	env := newTestEnvWithFlags(t, "rankings=on")
	author := testutil.CreateProfile(t, env.db, "ada", false)

	_, err := env.posts.CreatePost(context.Background(), CreatePostInput{UserID: author.ID, Title: "x", URL: "https://example.com/x"})
	require.NoError(t, err)
	assert.Len(t, env.chat.messages(), 1)
}

func TestPostService_UpdatePost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := testutil.CreateProfile(t, env.db, "owner", false)
	other := testutil.CreateProfile(t, env.db, "other", false)

	a, err := env.posts.CreatePost(ctx, CreatePostInput{UserID: owner.ID, Title: "A", URL: "https://example.com/a", Tags: []string{"one"}})
	require.NoError(t, err)
	b, err := env.posts.CreatePost(ctx, CreatePostInput{UserID: owner.ID, Title: "B", URL: "https://example.com/b"})
	require.NoError(t, err)

	title := "A2"
	_, err = env.posts.UpdatePost(ctx, UpdatePostInput{UserID: other.ID, PostID: a.ID, Title: &title})
	requireAppError(t, err, models.CodeForbidden)

	taken := "https://example.com/b/"
	_, err = env.posts.UpdatePost(ctx, UpdatePostInput{UserID: owner.ID, PostID: a.ID, URL: &taken})
	appErr := requireAppError(t, err, models.CodeConflict)
	assert.EqualValues(t, b.ID, appErr.Details["existing_post_id"])

	same := "https://EXAMPLE.com/a"
	tags := []string{"two", "three"}
	updated, err := env.posts.UpdatePost(ctx, UpdatePostInput{UserID: owner.ID, PostID: a.ID, Title: &title, URL: &same, Tags: &tags})
	require.NoError(t, err)
	assert.Equal(t, "A2", updated.Title)
	assert.ElementsMatch(t, []string{"two", "three"}, updated.TagNames())

	content := "body"
	updated, err = env.posts.UpdatePost(ctx, UpdatePostInput{UserID: owner.ID, PostID: a.ID, Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "body", updated.Content)
	assert.ElementsMatch(t, []string{"two", "three"}, updated.TagNames(), "tags untouched when omitted")

	_, err = env.posts.UpdatePost(ctx, UpdatePostInput{UserID: owner.ID, PostID: 9999, Title: &title})
	requireAppError(t, err, models.CodeNotFound)
}

func TestPostService_DeletePost_ConflictWithCounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := testutil.CreateProfile(t, env.db, "owner", false)
	reader := testutil.CreateProfile(t, env.db, "reader", false)

	post := testutil.CreatePost(t, env.db, owner.ID, "P", "https://example.com/p")
	root := testutil.CreateComment(t, env.db, post.ID, reader.ID, "first", nil)
	testutil.CreateComment(t, env.db, post.ID, owner.ID, "reply", &root.ID)
	_, err := env.marks.CreateBookmark(ctx, reader.ID, post.ID, "")
	require.NoError(t, err)
	_, err = env.posts.LikePost(ctx, reader.ID, post.ID)
	require.NoError(t, err)

	err = env.posts.DeletePost(ctx, DeletePostInput{UserID: owner.ID, PostID: post.ID})
	appErr := requireAppError(t, err, models.CodeConflict)
	assert.EqualValues(t, 2, appErr.Details["comments"])
	assert.EqualValues(t, 1, appErr.Details["bookmarks"])

	require.NoError(t, env.posts.DeletePost(ctx, DeletePostInput{UserID: owner.ID, PostID: post.ID, Force: true}))

	_, err = env.posts.GetPost(ctx, post.ID, "")
	requireAppError(t, err, models.CodeNotFound)

	deps, err := env.postRepo.CountDependents(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, deps.Comments)
	assert.Zero(t, deps.Bookmarks)

	likes, err := env.postRepo.LikesCount(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, likes)
}

func TestPostService_DeletePost_Permissions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := testutil.CreateProfile(t, env.db, "owner", false)
	stranger := testutil.CreateProfile(t, env.db, "stranger", false)
	admin := testutil.CreateProfile(t, env.db, "admin", true)

	post := testutil.CreatePost(t, env.db, owner.ID, "P", "https://example.com/p")

	err := env.posts.DeletePost(ctx, DeletePostInput{UserID: stranger.ID, PostID: post.ID})
	requireAppError(t, err, models.CodeForbidden)

	require.NoError(t, env.posts.DeletePost(ctx, DeletePostInput{UserID: admin.ID, PostID: post.ID}))

	err = env.posts.DeletePost(ctx, DeletePostInput{UserID: owner.ID, PostID: post.ID})
	requireAppError(t, err, models.CodeNotFound)
}

func TestPostService_DeletedURLCanBeReused(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := testutil.CreateProfile(t, env.db, "owner", false)

	first, err := env.posts.CreatePost(ctx, CreatePostInput{UserID: owner.ID, Title: "x", URL: "https://example.com/x"})
	require.NoError(t, err)
	require.NoError(t, env.posts.DeletePost(ctx, DeletePostInput{UserID: owner.ID, PostID: first.ID}))

	second, err := env.posts.CreatePost(ctx, CreatePostInput{UserID: owner.ID, Title: "x", URL: "https://example.com/x"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestPostService_LikeAndUnlike(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := testutil.CreateProfile(t, env.db, "owner", false)
	fan := testutil.CreateProfile(t, env.db, "fan", false)
	post := testutil.CreatePost(t, env.db, owner.ID, "P", "https://example.com/p")

	state, err := env.posts.LikePost(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, LikeState{Liked: true, LikesCount: 1}, state)

	_, err = env.posts.LikePost(ctx, fan.ID, post.ID)
	requireAppError(t, err, models.CodeConflict)

	got, err := env.posts.GetPost(ctx, post.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, got.Liked)
	assert.Equal(t, 1, got.LikesCount)

	state, err = env.posts.UnlikePost(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, LikeState{Liked: false, LikesCount: 0}, state)

	_, err = env.posts.UnlikePost(ctx, fan.ID, post.ID)
	requireAppError(t, err, models.CodeNotFound)

	got, err = env.posts.GetPost(ctx, post.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, got.Liked)

	_, err = env.posts.LikePost(ctx, fan.ID, 4242)
	requireAppError(t, err, models.CodeNotFound)
}

func TestPostService_CheckURL(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := testutil.CreateProfile(t, env.db, "owner", false)
	post := testutil.CreatePost(t, env.db, owner.ID, "P", "https://example.com/p")

	res, err := env.posts.CheckURL(ctx, "https://example.com/p/#x")
	require.NoError(t, err)
	assert.True(t, res.Exists)
	require.NotNil(t, res.PostID)
	assert.Equal(t, post.ID, *res.PostID)

	res, err = env.posts.CheckURL(ctx, "https://example.com/other")
	require.NoError(t, err)
	assert.False(t, res.Exists)
	assert.Nil(t, res.PostID)

	_, err = env.posts.CheckURL(ctx, "not a url")
	requireAppError(t, err, models.CodeValidation)
}

func TestPostService_ListPosts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := testutil.CreateProfile(t, env.db, "owner", false)

	for i, u := range []string{"https://example.com/1", "https://example.com/2", "https://example.com/3"} {
		tags := []string{"all"}
		if i == 0 {
			tags = append(tags, "first")
		}
		_, err := env.posts.CreatePost(ctx, CreatePostInput{UserID: owner.ID, Title: u, URL: u, Tags: tags})
		require.NoError(t, err)
	}

	page, err := env.posts.ListPosts(ctx, ListPostsInput{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.True(t, page.HasMore)
	assert.Equal(t, "https://example.com/3", page.Items[0].URL, "newest first")

	page, err = env.posts.ListPosts(ctx, ListPostsInput{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.False(t, page.HasMore)

	page, err = env.posts.ListPosts(ctx, ListPostsInput{Limit: 20, Filter: repository.PostFilter{Tag: "#First"}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "https://example.com/1", page.Items[0].URL)

	_, err = env.posts.ListPosts(ctx, ListPostsInput{Limit: 20, Filter: repository.PostFilter{Source: "bogus"}})
	requireAppError(t, err, models.CodeValidation)
}
