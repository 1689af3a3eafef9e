package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nper79/styleai/internal/preference"
	"github.com/nper79/styleai/pkg/models"
)

func rankFixture() (*Engine, *models.UserProfile, time.Time) {
	config := models.DefaultTuningConfig()
	tracker := preference.NewTracker(config)
	engine := NewEngine(config, tracker)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	profile := models.NewUserProfile("user-1", models.OnboardingConstraints{
		ColorsToAvoid: []string{"orange"},
	}, config.HardBanThreshold, now)
	return engine, profile, now
}

func candidate(id string, tags ...models.VisionTag) Candidate {
	return Candidate{OutfitID: id, Analysis: &models.OutfitAnalysis{Tags: tags}}
}

func TestRankOutfits_DropsVetoedAndSortsDescending(t *testing.T) {
	engine, profile, now := rankFixture()
	profile.Weights["color:navy"] = 1.0
	profile.Weights["fit:slim"] = 0.4

	candidates := []Candidate{
		candidate("mid", models.VisionTag{Attribute: "fit", Value: "slim", Confidence: 0.8}),
		candidate("vetoed", models.VisionTag{Attribute: "color", Value: "orange", Confidence: 0.9}),
		candidate("best", models.VisionTag{Attribute: "color", Value: "navy", Confidence: 0.9}),
	}

	ranked, err := engine.RankOutfits(context.Background(), profile, candidates, now)
	require.NoError(t, err)

	require.Len(t, ranked, 2)
	assert.Equal(t, "best", ranked[0].OutfitID)
	assert.Equal(t, "mid", ranked[1].OutfitID)
}

func TestRankOutfits_TiesKeepGenerationOrder(t *testing.T) {
	engine, profile, now := rankFixture()
	profile.Weights["color:navy"] = 1.0

	// Identical candidates score identically; the stable sort must keep
	// their original order.
	tag := models.VisionTag{Attribute: "color", Value: "navy", Confidence: 0.9}
	candidates := []Candidate{
		candidate("first", tag),
		candidate("second", tag),
		candidate("third", tag),
	}

	ranked, err := engine.RankOutfits(context.Background(), profile, candidates, now)
	require.NoError(t, err)

	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"first", "second", "third"},
		[]string{ranked[0].OutfitID, ranked[1].OutfitID, ranked[2].OutfitID})
}

func TestRankOutfits_EmptyInput(t *testing.T) {
	engine, profile, now := rankFixture()

	ranked, err := engine.RankOutfits(context.Background(), profile, nil, now)
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestRankOutfits_NeutralCandidatesSurvive(t *testing.T) {
	engine, profile, now := rankFixture()

	// Unknown tags score 0, which is above the drop threshold.
	candidates := []Candidate{
		candidate("unknown", models.VisionTag{Attribute: "material", Value: "linen", Confidence: 0.7}),
	}

	ranked, err := engine.RankOutfits(context.Background(), profile, candidates, now)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Zero(t, ranked[0].Score)
}
