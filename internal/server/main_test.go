package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"sharehub/internal/config"
	"sharehub/internal/models"
	"sharehub/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func testConfig() *config.Config {
	return &config.Config{
		Port:         "0",
		Env:          "test",
		JWTSecret:    testSecret,
		FeatureFlags: "chat_notifications=on,rankings=on,rss_ingest=on",
		AppBaseURL:   "https://hub.example.com",
	}
}

type testApp struct {
	srv *Server
	app *fiber.App
	db  *gorm.DB
}

func newTestApp(t *testing.T, mutate ...func(*config.Config)) *testApp {
	t.Helper()
	cfg := testConfig()
	for _, m := range mutate {
		m(cfg)
	}
	db := testutil.NewSQLiteDB(t)
	srv, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)
	return &testApp{srv: srv, app: srv.NewApp(), db: db}
}

func signToken(t *testing.T, sub string, claims jwt.MapClaims) string {
	t.Helper()
	if claims == nil {
		claims = jwt.MapClaims{}
	}
	claims["sub"] = sub
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	str, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return str
}

// do sends a request and returns the status and raw body.
func (a *testApp) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

// user creates a profile and returns it with a token for it.
func (a *testApp) user(t *testing.T, username string, admin bool) (*models.Profile, string) {
	t.Helper()
	p := testutil.CreateProfile(t, a.db, username, admin)
	return p, signToken(t, p.ID, nil)
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}
