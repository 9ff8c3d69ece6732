package bootstrap

import (
	"context"
	"testing"

	"sharehub/internal/config"
	"sharehub/internal/models"
	"sharehub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"

func TestEnsureDevAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates profile in development", func(t *testing.T) {
		db := testutil.NewSQLiteDB(t)
		cfg := &config.Config{Env: "development", DevAdminID: adminID, DevAdminUsername: "Root"}

		require.NoError(t, ensureDevAdmin(ctx, cfg, db))
		require.NoError(t, ensureDevAdmin(ctx, cfg, db))

		var p models.Profile
		require.NoError(t, db.First(&p, "id = ?", adminID).Error)
		assert.Equal(t, "root", p.Username)
		assert.True(t, p.IsAdmin)
	})

	t.Run("promotes existing profile", func(t *testing.T) {
		db := testutil.NewSQLiteDB(t)
		existing := testutil.CreateProfile(t, db, "alice", false)
		cfg := &config.Config{Env: "development", DevAdminID: existing.ID}

		require.NoError(t, ensureDevAdmin(ctx, cfg, db))

		var p models.Profile
		require.NoError(t, db.First(&p, "id = ?", existing.ID).Error)
		assert.Equal(t, "alice", p.Username)
		assert.True(t, p.IsAdmin)
	})

	t.Run("ignored outside development", func(t *testing.T) {
		db := testutil.NewSQLiteDB(t)
		cfg := &config.Config{Env: "production", DevAdminID: adminID}

		require.NoError(t, ensureDevAdmin(ctx, cfg, db))

		var count int64
		require.NoError(t, db.Model(&models.Profile{}).Count(&count).Error)
		assert.Zero(t, count)
	})
}
