package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCtxHandler_AddsContextAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(&ctxHandler{slog.NewTextHandler(&buf, nil)})

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = WithUserID(ctx, "3f2b8c1e-0000-4000-8000-000000000001")
	logger.With("component", "test").InfoContext(ctx, "hello")

	out := buf.String()
	assert.Contains(t, out, "request_id=req-1")
	assert.Contains(t, out, "user_id=3f2b8c1e-0000-4000-8000-000000000001")
	assert.Contains(t, out, "component=test")
}

func TestContextMiddleware_CopiesLocals(t *testing.T) {
	app := fiber.New()
	var got context.Context
	app.Get("/", func(c *fiber.Ctx) error {
		c.Locals("requestid", "abc")
		c.Locals("userID", "user-1")
		return c.Next()
	}, ContextMiddleware(), func(c *fiber.Ctx) error {
		got = c.UserContext()
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	require.NotNil(t, got)
	assert.Equal(t, "abc", got.Value(RequestIDKey))
	assert.Equal(t, "user-1", got.Value(UserIDKey))
}
