// Package models contains domain models for styleai.
package models

import (
	"strings"
	"time"
)

// StyleVector is a coarse style lean tracked independently of the tag-weight
// model. Each component stays in [0,1].
type StyleVector struct {
	Formality       float64 `json:"formality"`
	ColorNeutrality float64 `json:"color_neutrality"`
	Comfort         float64 `json:"comfort"`
	Trendiness      float64 `json:"trendiness"`
	Minimalism      float64 `json:"minimalism"`
}

// DefaultStyleVector returns the neutral vector assigned at onboarding.
func DefaultStyleVector() StyleVector {
	return StyleVector{
		Formality:       0.5,
		ColorNeutrality: 0.5,
		Comfort:         0.7,
		Trendiness:      0.5,
		Minimalism:      0.5,
	}
}

// Clamp bounds every component to [0,1].
func (v *StyleVector) Clamp() {
	v.Formality = clamp01(v.Formality)
	v.ColorNeutrality = clamp01(v.ColorNeutrality)
	v.Comfort = clamp01(v.Comfort)
	v.Trendiness = clamp01(v.Trendiness)
	v.Minimalism = clamp01(v.Minimalism)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// PreferenceWeights maps tag keys ("attribute:value") to signed weights
// bounded to [-WeightCap, +WeightCap]. Key count grows without bound; each
// entry is capped in magnitude.
type PreferenceWeights map[string]float64

// Clone returns a deep copy of the weight map.
func (w PreferenceWeights) Clone() PreferenceWeights {
	if w == nil {
		return nil
	}
	out := make(PreferenceWeights, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// AttributeRejection tracks the dislike streak for one (attribute, value)
// pair. The streak never resets; IsHardBan latches true once the streak
// reaches the ban threshold.
type AttributeRejection struct {
	Attribute    string    `json:"attribute"`
	Value        string    `json:"value"`
	Streak       int       `json:"streak"`
	LastRejected time.Time `json:"last_rejected"`
	IsHardBan    bool      `json:"is_hard_ban"`
}

// Key returns the composite attribute:value key of this rejection.
func (r AttributeRejection) Key() string {
	return TagKey(r.Attribute, r.Value)
}

// LogoVisibility expresses the user's tolerance for visible branding.
type LogoVisibility string

const (
	LogosFine    LogoVisibility = "fine"
	LogosSubtle  LogoVisibility = "subtle"
	LogosAvoided LogoVisibility = "avoid"
)

// OnboardingConstraints are the hard constraints captured once at profile
// creation. They always override learned weights when deciding exclusion.
type OnboardingConstraints struct {
	Contexts        []string       `json:"contexts,omitempty"`
	Seasons         []string       `json:"seasons,omitempty"`
	Budget          string         `json:"budget,omitempty"`
	ItemsToAvoid    []string       `json:"items_to_avoid,omitempty"`
	ColorsToAvoid   []string       `json:"colors_to_avoid,omitempty"`
	FitsToAvoid     []string       `json:"fits_to_avoid,omitempty"`
	PatternsToAvoid []string       `json:"patterns_to_avoid,omitempty"`
	LogoVisibility  LogoVisibility `json:"logo_visibility,omitempty"`
}

// Excludes reports whether the constraints exclude the given attribute/value
// pair. Colors, fits, and patterns match exactly on their attribute;
// itemsToAvoid matches category values by case-insensitive substring.
func (c OnboardingConstraints) Excludes(attribute, value string) bool {
	switch attribute {
	case "color":
		return containsFold(c.ColorsToAvoid, value)
	case "fit":
		return containsFold(c.FitsToAvoid, value)
	case "pattern":
		return containsFold(c.PatternsToAvoid, value)
	case "category":
		lower := strings.ToLower(value)
		for _, item := range c.ItemsToAvoid {
			avoid := strings.ToLower(item)
			if avoid == "" {
				continue
			}
			if strings.Contains(lower, avoid) || strings.Contains(avoid, lower) {
				return true
			}
		}
	}
	return false
}

func containsFold(list []string, value string) bool {
	for _, v := range list {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}

// avoidAttributes maps each onboarding avoid-list to the attribute its
// entries are banned under when seeding rejections.
type avoidSeed struct {
	attribute string
	values    []string
}

// UserProfile is the aggregate root of the preference model. It is owned by
// exactly one user; concurrent multi-writer access is not supported.
type UserProfile struct {
	UserID          string                `json:"user_id"`
	StyleVector     StyleVector           `json:"style_vector"`
	LikedColors     []string              `json:"liked_colors,omitempty"`
	DislikedColors  []string              `json:"disliked_colors,omitempty"`
	FeedbackHistory []FeedbackRecord      `json:"feedback_history,omitempty"`
	Weights         PreferenceWeights     `json:"preference_weights"`
	Rejections      []AttributeRejection  `json:"rejections,omitempty"`
	Constraints     OnboardingConstraints `json:"onboarding_constraints"`
	SessionSeq      int64                 `json:"session_seq"`
	LastUpdated     time.Time             `json:"last_updated"`
}

// NewUserProfile creates a profile at onboarding completion. The style
// vector starts neutral, weights start empty, and every entry of the
// onboarding avoid-lists is seeded as a permanent hard ban (streak already
// at the ban threshold, never subject to cooldown expiry).
func NewUserProfile(userID string, constraints OnboardingConstraints, banThreshold int, now time.Time) *UserProfile {
	p := &UserProfile{
		UserID:      userID,
		StyleVector: DefaultStyleVector(),
		Weights:     make(PreferenceWeights),
		Constraints: constraints,
		LastUpdated: now,
	}

	seeds := []avoidSeed{
		{attribute: "color", values: constraints.ColorsToAvoid},
		{attribute: "fit", values: constraints.FitsToAvoid},
		{attribute: "pattern", values: constraints.PatternsToAvoid},
		{attribute: "category", values: constraints.ItemsToAvoid},
	}
	for _, seed := range seeds {
		for _, value := range seed.values {
			value = strings.TrimSpace(strings.ToLower(value))
			if value == "" || p.FindRejection(seed.attribute, value) != nil {
				continue
			}
			p.Rejections = append(p.Rejections, AttributeRejection{
				Attribute:    seed.attribute,
				Value:        value,
				Streak:       banThreshold,
				LastRejected: now,
				IsHardBan:    true,
			})
		}
	}

	return p
}

// FindRejection returns the rejection entry for the given pair, or nil.
func (p *UserProfile) FindRejection(attribute, value string) *AttributeRejection {
	for i := range p.Rejections {
		if p.Rejections[i].Attribute == attribute && strings.EqualFold(p.Rejections[i].Value, value) {
			return &p.Rejections[i]
		}
	}
	return nil
}
