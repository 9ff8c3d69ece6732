package server

import (
	"context"
	"log/slog"

	"sharehub/internal/middleware"
	"sharehub/internal/notifications"
)

// Event type constants prevent typos in event names.
const (
	EventPostCreated     = "post_created"
	EventPostUpdated     = "post_updated"
	EventPostDeleted     = "post_deleted"
	EventPostLiked       = "post_liked"
	EventPostUnliked     = "post_unliked"
	EventCommentCreated  = "comment_created"
	EventCommentUpdated  = "comment_updated"
	EventCommentDeleted  = "comment_deleted"
	EventCommentReaction = "comment_reaction"
	EventBookmarkChanged = "bookmark_changed"
)

func (s *Server) publishUserEvent(ctx context.Context, userID string, eventType string, payload map[string]any) {
	if s.notifier == nil || userID == "" {
		return
	}
	message, err := notifications.EncodeEvent(eventType, payload)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to marshal event",
			slog.String("event", eventType), slog.String("error", err.Error()))
		return
	}
	if err := s.notifier.PublishUser(context.WithoutCancel(ctx), userID, message); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish user event",
			slog.String("event", eventType),
			slog.String("target_user_id", userID),
			slog.String("error", err.Error()))
	}
}

func (s *Server) publishBroadcastEvent(ctx context.Context, eventType string, payload map[string]any) {
	if s.notifier == nil {
		return
	}
	message, err := notifications.EncodeEvent(eventType, payload)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to marshal event",
			slog.String("event", eventType), slog.String("error", err.Error()))
		return
	}
	if err := s.notifier.PublishBroadcast(context.WithoutCancel(ctx), message); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish broadcast event",
			slog.String("event", eventType), slog.String("error", err.Error()))
	}
}
