// Package gorm provides GORM-based database operations for styleai.
package gorm

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/nper79/styleai/internal/db"
	"github.com/nper79/styleai/pkg/models"
)

// testStore creates a Store with a temporary SQLite database for testing.
func testStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "gorm_profile_test_*")
	if err != nil {
		t.Fatalf("create temp dir: %v", err)
	}

	store, err := NewStore(Config{
		Path:     filepath.Join(tmpDir, "test.db"),
		LogLevel: logger.Silent,
	})
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("NewStore failed: %v", err)
	}

	cleanup := func() {
		store.Close()
		os.RemoveAll(tmpDir)
	}

	return store, cleanup
}

func sampleProfile(now time.Time) *models.UserProfile {
	p := models.NewUserProfile("user-1", models.OnboardingConstraints{
		Contexts:      []string{"office"},
		ColorsToAvoid: []string{"orange"},
	}, 3, now)
	p.Weights["color:navy"] = 1.25
	p.Weights["fit:slim"] = -0.4
	p.LikedColors = []string{"navy"}
	p.DislikedColors = []string{"orange"}
	p.SessionSeq = 7
	p.FeedbackHistory = []models.FeedbackRecord{
		{OutfitID: "o-1", Action: models.FeedbackLike, SessionSeq: 7, CreatedAtEpoch: now.UnixMilli()},
	}
	return p
}

func TestProfileStore_SaveLoadRoundTrip(t *testing.T) {
	store, cleanup := testStore(t)
	defer cleanup()

	profiles := NewProfileStore(store)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, profiles.SaveProfile(ctx, sampleProfile(now)))

	loaded, err := profiles.LoadProfile(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, "user-1", loaded.UserID)
	assert.InDelta(t, 1.25, loaded.Weights["color:navy"], 1e-9)
	assert.InDelta(t, -0.4, loaded.Weights["fit:slim"], 1e-9)
	assert.Equal(t, []string{"navy"}, loaded.LikedColors)
	assert.Equal(t, []string{"orange"}, loaded.DislikedColors)
	assert.Equal(t, []string{"office"}, loaded.Constraints.Contexts)
	assert.Equal(t, int64(7), loaded.SessionSeq)
	require.Len(t, loaded.FeedbackHistory, 1)
	assert.Equal(t, "o-1", loaded.FeedbackHistory[0].OutfitID)

	// The onboarding-seeded ban survives the round trip as a hard ban.
	rej := loaded.FindRejection("color", "orange")
	require.NotNil(t, rej)
	assert.True(t, rej.IsHardBan)
	assert.Equal(t, 3, rej.Streak)
}

func TestProfileStore_SaveIsUpsert(t *testing.T) {
	store, cleanup := testStore(t)
	defer cleanup()

	profiles := NewProfileStore(store)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	p := sampleProfile(now)
	require.NoError(t, profiles.SaveProfile(ctx, p))

	p.Weights["color:navy"] = 0.9
	p.SessionSeq = 8
	require.NoError(t, profiles.SaveProfile(ctx, p))

	loaded, err := profiles.LoadProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.InDelta(t, 0.9, loaded.Weights["color:navy"], 1e-9)
	assert.Equal(t, int64(8), loaded.SessionSeq)

	var count int64
	require.NoError(t, store.DB.Model(&UserProfileRow{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "saving twice must not duplicate the row")
}

func TestProfileStore_LoadMissingProfile(t *testing.T) {
	store, cleanup := testStore(t)
	defer cleanup()

	_, err := NewProfileStore(store).LoadProfile(context.Background(), "ghost")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestProfileStore_PermanentCooldownSentinelRestoresBan(t *testing.T) {
	store, cleanup := testStore(t)
	defer cleanup()

	profiles := NewProfileStore(store)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, profiles.SaveProfile(ctx, sampleProfile(now)))

	// Simulate a legacy row: sentinel set, flag column unset.
	require.NoError(t, store.DB.
		Model(&AttributeStatRow{}).
		Where("attr_key = ?", "color:orange").
		Update("is_hard_ban", false).Error)

	loaded, err := profiles.LoadProfile(ctx, "user-1")
	require.NoError(t, err)

	rej := loaded.FindRejection("color", "orange")
	require.NotNil(t, rej)
	assert.True(t, rej.IsHardBan, "the -1 cooldown sentinel alone marks a permanent ban")
}

func TestOutfitStore_UpsertIsIdempotent(t *testing.T) {
	store, cleanup := testStore(t)
	defer cleanup()

	outfits := NewOutfitStore(store)
	ctx := context.Background()

	outfit := &models.StoredOutfit{
		OutfitID: "outfit-1",
		Theme:    "office",
		Analysis: &models.OutfitAnalysis{OverallVibe: "polished"},
	}
	require.NoError(t, outfits.UpsertOutfit(ctx, outfit))

	outfit.Theme = "weekend"
	require.NoError(t, outfits.UpsertOutfit(ctx, outfit))

	var rows []OutfitRow
	require.NoError(t, store.DB.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "weekend", rows[0].Theme)
}

func TestInteractionStore_AppendOnlyLog(t *testing.T) {
	store, cleanup := testStore(t)
	defer cleanup()

	interactions := NewInteractionStore(store)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, interactions.AppendInteraction(ctx, &models.Interaction{
			UserID:         "user-1",
			OutfitID:       "outfit-1",
			Action:         models.FeedbackLike,
			SessionSeq:     int64(i),
			CreatedAtEpoch: int64(1000 * i),
		}))
	}

	recent, err := interactions.RecentInteractions(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, int64(3), recent[0].SessionSeq, "newest first")
}
