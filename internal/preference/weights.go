package preference

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nper79/styleai/pkg/models"
)

// Updater applies feedback events to a profile's weight model.
type Updater struct {
	config  *models.TuningConfig
	tracker *Tracker
	log     zerolog.Logger
}

// NewUpdater creates a weight updater sharing the tracker's tuning config.
func NewUpdater(config *models.TuningConfig, tracker *Tracker, log zerolog.Logger) *Updater {
	if config == nil {
		config = models.DefaultTuningConfig()
	}
	if tracker == nil {
		tracker = NewTracker(config)
	}
	return &Updater{
		config:  config,
		tracker: tracker,
		log:     log.With().Str("component", "preference").Logger(),
	}
}

// Tracker returns the rejection tracker used by this updater.
func (u *Updater) Tracker() *Tracker {
	return u.tracker
}

// Config returns the tuning configuration used by this updater.
func (u *Updater) Config() *models.TuningConfig {
	return u.config
}

// ApplyDecay multiplies every weight by the decay rate. Decay runs once per
// processed feedback event, so it scales with activity rather than
// wall-clock time. Keys are never removed; magnitudes shrink toward zero.
func (u *Updater) ApplyDecay(weights models.PreferenceWeights) {
	for key, w := range weights {
		weights[key] = w * u.config.DecayRate
	}
}

// UpdateFromFeedback mutates the profile's weights, rejections, color
// buckets, and style vector from one feedback event.
//
// Likes reward every tag of the outfit by confidence × LikeStep. Dislikes
// only act through micro-reasons: each reason selects its matching tags,
// penalizes them by confidence × DislikeStep, and records a rejection hit.
// A reason that matches no tags in this outfit is a normal no-op.
func (u *Updater) UpdateFromFeedback(
	profile *models.UserProfile,
	analysis *models.OutfitAnalysis,
	feedback models.FeedbackType,
	reasons []models.FeedbackReason,
	now time.Time,
) {
	if profile.Weights == nil {
		profile.Weights = make(models.PreferenceWeights)
	}

	u.ApplyDecay(profile.Weights)

	switch feedback {
	case models.FeedbackLike:
		for _, tag := range analysis.Tags {
			u.adjust(profile.Weights, tag.Key(), tag.Confidence*u.config.LikeStep)
		}
		u.bucketColors(profile, analysis.ColorPalette, true)

	case models.FeedbackDislike:
		penalized := make(map[string]bool)
		for _, reason := range reasons {
			for _, tag := range reason.MatchingTags(analysis.Tags) {
				key := tag.Key()
				if !penalized[key] {
					u.adjust(profile.Weights, key, -tag.Confidence*u.config.DislikeStep)
					penalized[key] = true
				}
				u.tracker.TrackRejection(profile, tag.Attribute, tag.Value, now)
			}
		}
		if hasReason(reasons, models.ReasonColor) {
			u.bucketColors(profile, analysis.ColorPalette, false)
		}
	}

	ApplyReasonDeltas(&profile.StyleVector, feedback, reasons)

	profile.LastUpdated = now
	u.log.Debug().
		Str("user", profile.UserID).
		Str("feedback", string(feedback)).
		Int("weights", len(profile.Weights)).
		Int("rejections", len(profile.Rejections)).
		Msg("profile updated from feedback")
}

// adjust applies a delta to one weight, clamped to ±WeightCap.
func (u *Updater) adjust(weights models.PreferenceWeights, key string, delta float64) {
	w := weights[key] + delta
	if w > u.config.WeightCap {
		w = u.config.WeightCap
	}
	if w < -u.config.WeightCap {
		w = -u.config.WeightCap
	}
	weights[key] = w
}

// bucketColors moves the palette colors into the liked or disliked list.
// Membership is mutually exclusive: a color entering one bucket leaves the
// other.
func (u *Updater) bucketColors(profile *models.UserProfile, palette []string, liked bool) {
	for _, color := range palette {
		color = strings.ToLower(strings.TrimSpace(color))
		if color == "" {
			continue
		}
		if liked {
			profile.DislikedColors = removeString(profile.DislikedColors, color)
			profile.LikedColors = appendUnique(profile.LikedColors, color)
		} else {
			profile.LikedColors = removeString(profile.LikedColors, color)
			profile.DislikedColors = appendUnique(profile.DislikedColors, color)
		}
	}
}

func hasReason(reasons []models.FeedbackReason, want models.FeedbackReason) bool {
	for _, r := range reasons {
		if r == want {
			return true
		}
	}
	return false
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}

func removeString(list []string, value string) []string {
	out := list[:0]
	for _, v := range list {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}
