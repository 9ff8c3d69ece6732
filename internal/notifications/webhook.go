package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"sharehub/internal/middleware"
	"sharehub/internal/observability"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel/attribute"
)

// Message is the body posted to the chat webhook.
type Message struct {
	Text string `json:"text"`
}

// ChatSender delivers a message to the team chat.
type ChatSender interface {
	Send(ctx context.Context, msg Message) error
}

// WebhookConfig configures WebhookNotifier.
type WebhookConfig struct {
	URL              string
	Timeout          time.Duration
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// ErrWebhookDisabled is returned by Send when no webhook is configured.
var ErrWebhookDisabled = errors.New("webhook disabled")

// WebhookNotifier posts messages to an incoming-webhook URL. Deliveries are
// never retried; after FailureThreshold consecutive failures the breaker opens
// and sends fail fast until OpenTimeout passes.
type WebhookNotifier struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// NewWebhookNotifier builds a notifier. An empty URL yields a disabled notifier.
func NewWebhookNotifier(cfg WebhookConfig) *WebhookNotifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "chat-webhook",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			middleware.Logger.Warn("webhook circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}

	return &WebhookNotifier{
		url:     cfg.URL,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

// Enabled reports whether a webhook URL is configured.
func (w *WebhookNotifier) Enabled() bool {
	return w != nil && w.url != ""
}

// State exposes the breaker state for health output.
func (w *WebhookNotifier) State() string {
	if !w.Enabled() {
		return "disabled"
	}
	return w.breaker.State().String()
}

// Send posts msg as JSON. Non-2xx responses are errors.
func (w *WebhookNotifier) Send(ctx context.Context, msg Message) (err error) {
	if !w.Enabled() {
		return ErrWebhookDisabled
	}

	ctx, end := observability.StartClientSpan(ctx, "webhook.send", attribute.Int("message.length", len(msg.Text)))
	defer func() { end(err) }()

	_, err = w.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, w.post(ctx, msg)
	})

	switch {
	case err == nil:
		observability.WebhookDeliveries.WithLabelValues("ok").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		observability.WebhookDeliveries.WithLabelValues("short_circuited").Inc()
	default:
		observability.WebhookDeliveries.WithLabelValues("failed").Inc()
	}
	return err
}

func (w *WebhookNotifier) post(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal webhook message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}
	return nil
}
