// Package preference implements the feedback-driven preference model:
// decaying tag weights, rejection streaks with hard bans, and the coarse
// style vector.
package preference

import (
	"strings"
	"time"

	"github.com/nper79/styleai/pkg/models"
)

// Tracker maintains per-pair rejection streaks on a profile.
type Tracker struct {
	config *models.TuningConfig
}

// NewTracker creates a rejection tracker. A nil config uses the defaults.
func NewTracker(config *models.TuningConfig) *Tracker {
	if config == nil {
		config = models.DefaultTuningConfig()
	}
	return &Tracker{config: config}
}

// TrackRejection records one dislike hit on (attribute, value), creating the
// entry if absent. The streak only ever increments; once it reaches the ban
// threshold the hard-ban flag latches true and never clears.
func (t *Tracker) TrackRejection(profile *models.UserProfile, attribute, value string, now time.Time) {
	attribute = strings.ToLower(strings.TrimSpace(attribute))
	value = strings.ToLower(strings.TrimSpace(value))
	if attribute == "" || value == "" {
		return
	}

	rej := profile.FindRejection(attribute, value)
	if rej == nil {
		profile.Rejections = append(profile.Rejections, models.AttributeRejection{
			Attribute: attribute,
			Value:     value,
		})
		rej = &profile.Rejections[len(profile.Rejections)-1]
	}

	rej.Streak++
	rej.LastRejected = now
	if rej.Streak >= t.config.HardBanThreshold {
		rej.IsHardBan = true
	}
}

// ShouldAvoid reports whether the pair must be excluded from scoring.
//
// True when the pair is hard-banned, when a non-banned entry was rejected
// inside the cooldown window, or when it matches an onboarding constraint.
// Onboarding constraints take precedence over everything learned.
func (t *Tracker) ShouldAvoid(profile *models.UserProfile, attribute, value string, now time.Time) bool {
	if profile.Constraints.Excludes(attribute, value) {
		return true
	}

	rej := profile.FindRejection(strings.ToLower(attribute), value)
	if rej == nil {
		return false
	}
	if rej.IsHardBan {
		return true
	}

	cooldown := time.Duration(t.config.CooldownDays) * 24 * time.Hour
	return now.Sub(rej.LastRejected) < cooldown
}

// AvoidsAny reports whether any tag of the analysis triggers avoidance.
func (t *Tracker) AvoidsAny(profile *models.UserProfile, analysis *models.OutfitAnalysis, now time.Time) bool {
	for _, tag := range analysis.Tags {
		if t.ShouldAvoid(profile, tag.Attribute, tag.Value, now) {
			return true
		}
	}
	return false
}
