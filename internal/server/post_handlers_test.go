package server

import (
	"fmt"
	"net/http"
	"testing"

	"sharehub/internal/models"
	"sharehub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tagBody struct {
	Name string `json:"name"`
}

type postBody struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	Source     string    `json:"source"`
	LikesCount int       `json:"likes_count"`
	Liked      bool      `json:"liked"`
	Bookmarked bool      `json:"bookmarked"`
	Tags       []tagBody `json:"tags"`
}

type pageBody struct {
	Items   []postBody `json:"items"`
	Limit   int        `json:"limit"`
	Offset  int        `json:"offset"`
	HasMore bool       `json:"has_more"`
}

func TestCreatePost_RequiresAuth(t *testing.T) {
	a := newTestApp(t)

	status, body := a.do(t, http.MethodPost, "/api/posts", "", map[string]any{
		"title": "Go", "url": "https://go.dev",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, models.CodeUnauthorized, decode[models.ErrorResponse](t, body).Code)
}

func TestCreatePost_DuplicateURL(t *testing.T) {
	a := newTestApp(t)
	_, token := a.user(t, "alice", false)

	status, body := a.do(t, http.MethodPost, "/api/posts", token, map[string]any{
		"title": "Profiling", "url": "https://Blog.Example.com/pprof/#intro", "tags": []string{"Go", "#perf"},
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	created := decode[postBody](t, body)
	assert.Equal(t, "https://blog.example.com/pprof", created.URL)
	assert.Equal(t, models.SourceManual, created.Source)
	require.Len(t, created.Tags, 2)

	status, body = a.do(t, http.MethodPost, "/api/posts", token, map[string]any{
		"title": "Same article", "url": "https://blog.example.com:443/pprof/",
	})
	require.Equal(t, http.StatusConflict, status)
	errBody := decode[models.ErrorResponse](t, body)
	assert.Equal(t, models.CodeConflict, errBody.Code)
	assert.EqualValues(t, created.ID, errBody.Details["existing_post_id"])

	status, body = a.do(t, http.MethodGet, "/api/posts/check-url?url=https://blog.example.com/pprof", "", nil)
	require.Equal(t, http.StatusOK, status)
	check := decode[map[string]any](t, body)
	assert.Equal(t, true, check["exists"])
	assert.EqualValues(t, created.ID, check["post_id"])
}

func TestCreatePost_Validation(t *testing.T) {
	a := newTestApp(t)
	_, token := a.user(t, "alice", false)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"Missing Title", map[string]any{"url": "https://example.com"}},
		{"Missing URL", map[string]any{"title": "x"}},
		{"Relative URL", map[string]any{"title": "x", "url": "/relative"}},
		{"Too Many Tags", map[string]any{"title": "x", "url": "https://example.com", "tags": []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := a.do(t, http.MethodPost, "/api/posts", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, status, string(body))
			assert.Equal(t, models.CodeValidation, decode[models.ErrorResponse](t, body).Code)
		})
	}
}

func TestCreatePost_TagLimitAppliesAfterNormalization(t *testing.T) {
	a := newTestApp(t)
	_, token := a.user(t, "alice", false)

	spellings := []string{"go", "Go", "GO", "#go", " go ", "#Go", "gO", "##go", "go ", " #GO", "#gO"}
	status, body := a.do(t, http.MethodPost, "/api/posts", token, map[string]any{
		"title": "Generics", "url": "https://example.com/generics", "tags": spellings,
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	created := decode[postBody](t, body)
	require.Len(t, created.Tags, 1)
	assert.Equal(t, "go", created.Tags[0].Name)
}

func TestDeletePost_ConflictCountsThenForce(t *testing.T) {
	a := newTestApp(t)
	owner, token := a.user(t, "owner", false)
	reader, _ := a.user(t, "reader", false)
	post := testutil.CreatePost(t, a.db, owner.ID, "P", "https://example.com/p")
	testutil.CreateComment(t, a.db, post.ID, reader.ID, "one", nil)
	testutil.CreateComment(t, a.db, post.ID, reader.ID, "two", nil)
	require.NoError(t, a.db.Create(&models.Bookmark{UserID: reader.ID, PostID: post.ID}).Error)

	path := fmt.Sprintf("/api/posts/%d", post.ID)
	status, body := a.do(t, http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusConflict, status)
	details := decode[models.ErrorResponse](t, body).Details
	assert.EqualValues(t, 2, details["comments"])
	assert.EqualValues(t, 1, details["bookmarks"])

	status, _ = a.do(t, http.MethodDelete, path+"?force=true", token, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = a.do(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDeletePost_Permissions(t *testing.T) {
	a := newTestApp(t)
	owner, _ := a.user(t, "owner", false)
	_, strangerToken := a.user(t, "stranger", false)
	_, adminToken := a.user(t, "admin", true)
	post := testutil.CreatePost(t, a.db, owner.ID, "P", "https://example.com/p")
	path := fmt.Sprintf("/api/posts/%d", post.ID)

	status, _ := a.do(t, http.MethodDelete, path, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = a.do(t, http.MethodDelete, path, adminToken, nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestUpdatePost(t *testing.T) {
	a := newTestApp(t)
	owner, token := a.user(t, "owner", false)
	_, otherToken := a.user(t, "other", false)
	post := testutil.CreatePost(t, a.db, owner.ID, "Old", "https://example.com/old")
	testutil.CreatePost(t, a.db, owner.ID, "Taken", "https://example.com/taken")
	path := fmt.Sprintf("/api/posts/%d", post.ID)

	status, _ := a.do(t, http.MethodPut, path, otherToken, map[string]any{"title": "Hijack"})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = a.do(t, http.MethodPut, path, token, map[string]any{"url": "https://example.com/taken/"})
	assert.Equal(t, http.StatusConflict, status)

	status, body := a.do(t, http.MethodPut, path, token, map[string]any{"title": "New", "tags": []string{"db"}})
	require.Equal(t, http.StatusOK, status, string(body))
	updated := decode[postBody](t, body)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, "https://example.com/old", updated.URL)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "db", updated.Tags[0].Name)
}

func TestLikeFlow(t *testing.T) {
	a := newTestApp(t)
	owner, _ := a.user(t, "owner", false)
	_, token := a.user(t, "fan", false)
	post := testutil.CreatePost(t, a.db, owner.ID, "P", "https://example.com/p")
	likePath := fmt.Sprintf("/api/posts/%d/like", post.ID)

	status, body := a.do(t, http.MethodPost, likePath, token, nil)
	require.Equal(t, http.StatusCreated, status, string(body))
	assert.Equal(t, map[string]any{"liked": true, "likes_count": float64(1)}, decode[map[string]any](t, body))

	status, _ = a.do(t, http.MethodPost, likePath, token, nil)
	assert.Equal(t, http.StatusConflict, status)

	_, body = a.do(t, http.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), token, nil)
	got := decode[postBody](t, body)
	assert.True(t, got.Liked)
	assert.Equal(t, 1, got.LikesCount)

	status, body = a.do(t, http.MethodDelete, likePath, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, decode[map[string]any](t, body)["liked"])

	status, _ = a.do(t, http.MethodDelete, likePath, token, nil)
	assert.Equal(t, http.StatusNotFound, status)

	_, body = a.do(t, http.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), token, nil)
	assert.False(t, decode[postBody](t, body).Liked)

	status, _ = a.do(t, http.MethodPost, "/api/posts/999/like", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestGetPosts_Pagination(t *testing.T) {
	a := newTestApp(t)
	owner, _ := a.user(t, "owner", false)
	for i := 0; i < 3; i++ {
		testutil.CreatePost(t, a.db, owner.ID, fmt.Sprintf("P%d", i), fmt.Sprintf("https://example.com/%d", i))
	}

	status, body := a.do(t, http.MethodGet, "/api/posts?limit=2", "", nil)
	require.Equal(t, http.StatusOK, status)
	page := decode[pageBody](t, body)
	assert.Len(t, page.Items, 2)
	assert.True(t, page.HasMore)
	assert.Equal(t, "P2", page.Items[0].Title, "newest first")

	_, body = a.do(t, http.MethodGet, "/api/posts?limit=2&offset=2", "", nil)
	page = decode[pageBody](t, body)
	assert.Len(t, page.Items, 1)
	assert.False(t, page.HasMore)
	assert.Equal(t, 2, page.Offset)

	_, body = a.do(t, http.MethodGet, "/api/posts?limit=500", "", nil)
	assert.Equal(t, maxPaginationLimit, decode[pageBody](t, body).Limit)

	status, _ = a.do(t, http.MethodGet, "/api/posts?source=carrier-pigeon", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGetPost_InvalidID(t *testing.T) {
	a := newTestApp(t)
	status, body := a.do(t, http.MethodGet, "/api/posts/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid ID", decode[models.ErrorResponse](t, body).Error)
}
