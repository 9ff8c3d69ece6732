package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"sharehub/internal/featureflags"
	"sharehub/internal/models"
	"sharehub/internal/notifications"
	"sharehub/internal/repository"
	"sharehub/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// chatRecorder is a notifications.ChatSender that keeps every message.
type chatRecorder struct {
	mu   sync.Mutex
	msgs []notifications.Message
	err  error
}

func (r *chatRecorder) Send(_ context.Context, msg notifications.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return r.err
}

func (r *chatRecorder) messages() []notifications.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notifications.Message(nil), r.msgs...)
}

type testEnv struct {
	db       *gorm.DB
	chat     *chatRecorder
	posts    *PostService
	comments *CommentService
	marks    *BookmarkService
	profiles *ProfileService
	links    *ResourceLinkService
	rankings *RankingService
	tags     *TagService

	postRepo     repository.PostRepository
	commentRepo  repository.CommentRepository
	bookmarkRepo repository.BookmarkRepository
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithFlags(t, "chat_notifications=on")
}

func newTestEnvWithFlags(t *testing.T, flags string) *testEnv {
	t.Helper()
	db := testutil.NewSQLiteDB(t)

	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	bookmarkRepo := repository.NewBookmarkRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	chat := &chatRecorder{}
	dispatcher := NewChatDispatcher(chat, featureflags.NewManager(flags), "https://hub.example.com")
	profiles := NewProfileService(profileRepo)

	return &testEnv{
		db:           db,
		chat:         chat,
		posts:        NewPostService(postRepo, profiles.IsAdmin, dispatcher),
		comments:     NewCommentService(commentRepo, postRepo, profiles.IsAdmin, dispatcher),
		marks:        NewBookmarkService(bookmarkRepo, postRepo),
		profiles:     profiles,
		links:        NewResourceLinkService(repository.NewResourceLinkRepository(db)),
		rankings:     NewRankingService(repository.NewRankingRepository(db)),
		tags:         NewTagService(repository.NewTagRepository(db)),
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		bookmarkRepo: bookmarkRepo,
	}
}

func requireAppError(t *testing.T, err error, code string) *models.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected *models.AppError, got %T: %v", err, err)
	require.Equal(t, code, appErr.Code, appErr.Message)
	return appErr
}
