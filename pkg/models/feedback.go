// Package models contains domain models for styleai.
package models

import (
	"fmt"
	"strings"
)

// FeedbackType represents the polarity of a feedback event.
type FeedbackType string

const (
	// FeedbackLike is a thumbs up on a generated outfit.
	FeedbackLike FeedbackType = "like"
	// FeedbackDislike is a thumbs down on a generated outfit.
	FeedbackDislike FeedbackType = "dislike"
)

// Valid reports whether the feedback type is one of the known polarities.
func (f FeedbackType) Valid() bool {
	return f == FeedbackLike || f == FeedbackDislike
}

// FeedbackReason is a user-selected micro-reason narrowing which tags a
// dislike penalty applies to.
type FeedbackReason string

const (
	ReasonTop         FeedbackReason = "Top"
	ReasonBottom      FeedbackReason = "Bottom"
	ReasonShoes       FeedbackReason = "Shoes"
	ReasonOuterwear   FeedbackReason = "Outerwear"
	ReasonAccessories FeedbackReason = "Accessories"
	ReasonColor       FeedbackReason = "Color"
	ReasonFit         FeedbackReason = "Fit"
	ReasonPattern     FeedbackReason = "Pattern"
	ReasonMaterial    FeedbackReason = "Material"
	ReasonOverallVibe FeedbackReason = "Overall vibe"
)

// AllFeedbackReasons lists every valid micro-reason, in display order.
var AllFeedbackReasons = []FeedbackReason{
	ReasonTop,
	ReasonBottom,
	ReasonShoes,
	ReasonOuterwear,
	ReasonAccessories,
	ReasonColor,
	ReasonFit,
	ReasonPattern,
	ReasonMaterial,
	ReasonOverallVibe,
}

// ParseFeedbackReason validates a raw reason string from the API boundary.
func ParseFeedbackReason(raw string) (FeedbackReason, error) {
	for _, r := range AllFeedbackReasons {
		if string(r) == raw {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown feedback reason %q", raw)
}

// Matches reports whether the given tag is targeted by this micro-reason.
//
// Slot reasons (Top, Bottom, Shoes, Outerwear, Accessories) match tags whose
// item id equals the lowercased reason. Attribute reasons (Color, Fit,
// Pattern, Material) match tags whose attribute equals the lowercased
// reason. "Overall vibe" matches the vibe and overall_vibe attributes.
func (r FeedbackReason) Matches(tag VisionTag) bool {
	switch r {
	case ReasonTop, ReasonBottom, ReasonShoes, ReasonOuterwear, ReasonAccessories:
		return string(tag.ItemID) == strings.ToLower(string(r))
	case ReasonColor, ReasonFit, ReasonPattern, ReasonMaterial:
		return tag.Attribute == strings.ToLower(string(r))
	case ReasonOverallVibe:
		return tag.Attribute == "vibe" || tag.Attribute == "overall_vibe"
	default:
		return false
	}
}

// MatchingTags returns the subset of tags targeted by this micro-reason.
// An empty result is normal (the reason simply has no tags in this outfit).
func (r FeedbackReason) MatchingTags(tags []VisionTag) []VisionTag {
	var matched []VisionTag
	for _, tag := range tags {
		if r.Matches(tag) {
			matched = append(matched, tag)
		}
	}
	return matched
}

// FeedbackRecord is one entry of a profile's feedback history.
type FeedbackRecord struct {
	OutfitID       string           `json:"outfit_id"`
	Theme          string           `json:"theme,omitempty"`
	Action         FeedbackType     `json:"action"`
	Reasons        []FeedbackReason `json:"reasons,omitempty"`
	SessionSeq     int64            `json:"session_seq"`
	CreatedAtEpoch int64            `json:"created_at_epoch"`
}
