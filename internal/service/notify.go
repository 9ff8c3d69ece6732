package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"sharehub/internal/featureflags"
	"sharehub/internal/middleware"
	"sharehub/internal/models"
	"sharehub/internal/notifications"
)

// ChatDispatcher forwards chat messages to the webhook when the
// chat_notifications flag allows it. Delivery failures are logged and dropped.
type ChatDispatcher struct {
	sender  notifications.ChatSender
	flags   *featureflags.Manager
	baseURL string
}

// NewChatDispatcher builds a dispatcher. Delivery stays on unless the
// chat_notifications flag is present and evaluates off.
func NewChatDispatcher(sender notifications.ChatSender, flags *featureflags.Manager, baseURL string) *ChatDispatcher {
	return &ChatDispatcher{sender: sender, flags: flags, baseURL: baseURL}
}

// BaseURL is the public web app address used in message links.
func (d *ChatDispatcher) BaseURL() string {
	if d == nil {
		return ""
	}
	return d.baseURL
}

func (d *ChatDispatcher) send(ctx context.Context, actorID string, msg notifications.Message) {
	if d == nil || d.sender == nil {
		return
	}
	if d.flags.Configured(featureflags.ChatNotifications) && !d.flags.Enabled(featureflags.ChatNotifications, actorID) {
		return
	}
	if err := d.sender.Send(ctx, msg); err != nil {
		if errors.Is(err, notifications.ErrWebhookDisabled) {
			return
		}
		middleware.Logger.WarnContext(ctx, "chat notification failed", slog.String("error", err.Error()))
	}
}

func displayName(p *models.Profile) string {
	if p == nil {
		return ""
	}
	if name := strings.TrimSpace(p.DisplayName); name != "" {
		return name
	}
	return p.Username
}
