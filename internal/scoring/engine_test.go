package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/nper79/styleai/internal/preference"
	"github.com/nper79/styleai/pkg/models"
)

// EngineSuite is a test suite for the scoring engine.
type EngineSuite struct {
	suite.Suite
	engine  *Engine
	tracker *preference.Tracker
	config  *models.TuningConfig
	now     time.Time
}

func (s *EngineSuite) SetupTest() {
	s.config = models.DefaultTuningConfig()
	s.tracker = preference.NewTracker(s.config)
	s.engine = NewEngine(s.config, s.tracker)
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) profile() *models.UserProfile {
	return models.NewUserProfile("user-1", models.OnboardingConstraints{}, s.config.HardBanThreshold, s.now)
}

// =============================================================================
// Continuous score
// =============================================================================

func (s *EngineSuite) TestScoreOutfit_IsConfidenceWeightedAverage() {
	p := s.profile()
	p.Weights["color:navy"] = 1.0
	p.Weights["fit:slim"] = 0.5

	analysis := &models.OutfitAnalysis{Tags: []models.VisionTag{
		{Attribute: "color", Value: "navy", Confidence: 0.9},
		{Attribute: "fit", Value: "slim", Confidence: 0.6},
	}}

	// (1.0×0.9 + 0.5×0.6) / (0.9 + 0.6) = 1.2 / 1.5 = 0.8
	s.InDelta(0.8, s.engine.ScoreOutfit(p, analysis, s.now), 1e-9)
}

func (s *EngineSuite) TestScoreOutfit_DuplicateTagsDoNotInflate() {
	p := s.profile()
	p.Weights["color:navy"] = 1.2

	single := &models.OutfitAnalysis{Tags: []models.VisionTag{
		{Attribute: "color", Value: "navy", Confidence: 0.9},
	}}
	doubled := &models.OutfitAnalysis{Tags: []models.VisionTag{
		{Attribute: "color", Value: "navy", Confidence: 0.9},
		{Attribute: "color", Value: "navy", Confidence: 0.9},
	}}

	s.Equal(s.engine.ScoreOutfit(p, single, s.now), s.engine.ScoreOutfit(p, doubled, s.now))
}

func (s *EngineSuite) TestScoreOutfit_NoScorableTagsReturnsZero() {
	p := s.profile()
	s.Zero(s.engine.ScoreOutfit(p, &models.OutfitAnalysis{}, s.now))
}

func (s *EngineSuite) TestScoreOutfit_AvoidedTagContributesNothing() {
	p := s.profile()
	p.Weights["color:orange"] = -2.0
	p.Weights["fit:slim"] = 1.0
	for i := 0; i < s.config.HardBanThreshold; i++ {
		s.tracker.TrackRejection(p, "color", "orange", s.now)
	}

	analysis := &models.OutfitAnalysis{Tags: []models.VisionTag{
		{Attribute: "color", Value: "orange", Confidence: 0.9},
		{Attribute: "fit", Value: "slim", Confidence: 0.5},
	}}

	// The banned tag is skipped entirely, not counted negatively:
	// score = (1.0×0.5) / 0.5 = 1.0
	s.InDelta(1.0, s.engine.ScoreOutfit(p, analysis, s.now), 1e-9)
}

// =============================================================================
// Hard veto
// =============================================================================

func (s *EngineSuite) TestScoreOutfitForUser_VetoBeatsAnyWeights() {
	p := models.NewUserProfile("user-1", models.OnboardingConstraints{
		ColorsToAvoid: []string{"orange"},
	}, s.config.HardBanThreshold, s.now)
	p.Weights["category:blazer"] = 2.0
	p.Weights["fit:slim"] = 2.0

	analysis := &models.OutfitAnalysis{Tags: []models.VisionTag{
		{Attribute: "category", Value: "blazer", Confidence: 1.0},
		{Attribute: "fit", Value: "slim", Confidence: 1.0},
		{Attribute: "color", Value: "orange", Confidence: 0.3},
	}}

	result := s.engine.ScoreOutfitForUser(p, analysis, s.now)

	s.True(result.ShouldAvoid)
	s.Equal(s.config.VetoScore, result.Score)
	s.Equal(VetoExplanation, result.Explanation)
}

func (s *EngineSuite) TestScoreOutfitForUser_CleanOutfitGetsContinuousScore() {
	p := s.profile()
	p.Weights["color:navy"] = 1.0

	analysis := &models.OutfitAnalysis{Tags: []models.VisionTag{
		{Attribute: "color", Value: "navy", Confidence: 0.9},
	}}

	result := s.engine.ScoreOutfitForUser(p, analysis, s.now)

	s.False(result.ShouldAvoid)
	s.InDelta(1.0, result.Score, 1e-9)
	s.NotEmpty(result.Explanation)
}

// =============================================================================
// Top attributes and explanations
// =============================================================================

func (s *EngineSuite) TestTopAttributes_SortedByStrength() {
	p := s.profile()
	p.Weights["color:navy"] = 1.5
	p.Weights["fit:slim"] = 0.8
	p.Weights["category:blazer"] = 0.2
	p.Weights["color:orange"] = -1.9
	p.Weights["pattern:paisley"] = -0.3

	s.Equal([]string{"color:navy", "fit:slim"}, TopLikedAttributes(p, 2))
	s.Equal([]string{"color:orange", "pattern:paisley"}, TopDislikedAttributes(p, 5))
}

func (s *EngineSuite) TestExplanation_MentionsLikesAndAvoidedDislikes() {
	p := s.profile()
	p.Weights["color:navy"] = 1.5
	p.Weights["color:orange"] = -1.2
	s.tracker.TrackRejection(p, "color", "orange", s.now.Add(-30*24*time.Hour))
	s.tracker.TrackRejection(p, "color", "orange", s.now.Add(-30*24*time.Hour))

	analysis := &models.OutfitAnalysis{Tags: []models.VisionTag{
		{Attribute: "color", Value: "navy", Confidence: 0.9},
	}}

	result := s.engine.ScoreOutfitForUser(p, analysis, s.now)

	s.Contains(result.Explanation, "navy")
	s.Contains(result.Explanation, "orange")
	s.Contains(result.Explanation, "2×", "repeat dislikes get a count")
}

func (s *EngineSuite) TestExplanation_FallsBackWithoutSignal() {
	p := s.profile()

	analysis := &models.OutfitAnalysis{Tags: []models.VisionTag{
		{Attribute: "color", Value: "navy", Confidence: 0.9},
	}}

	result := s.engine.ScoreOutfitForUser(p, analysis, s.now)
	s.Equal("Styled to match your overall profile", result.Explanation)
}
