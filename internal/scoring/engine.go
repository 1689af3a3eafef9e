// Package scoring computes compatibility scores for candidate outfits
// against a user's preference profile.
package scoring

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nper79/styleai/internal/preference"
	"github.com/nper79/styleai/pkg/models"
)

// VetoExplanation is the explanation reported with a hard veto.
const VetoExplanation = "Contains items you've strongly disliked"

// Engine scores candidate outfits against a profile.
type Engine struct {
	config  *models.TuningConfig
	tracker *preference.Tracker
}

// NewEngine creates a scoring engine. A nil config uses the defaults.
func NewEngine(config *models.TuningConfig, tracker *preference.Tracker) *Engine {
	if config == nil {
		config = models.DefaultTuningConfig()
	}
	if tracker == nil {
		tracker = preference.NewTracker(config)
	}
	return &Engine{config: config, tracker: tracker}
}

// OutfitScore is the full scoring result for one candidate outfit.
type OutfitScore struct {
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
	ShouldAvoid bool    `json:"should_avoid"`
}

// ScoreOutfit computes the continuous compatibility score: a
// confidence-weighted average of the tag weights. Avoided tags contribute
// nothing at all; exclusion is handled by the hard veto, not by
// down-weighting here. Returns 0 when no tag carries confidence.
func (e *Engine) ScoreOutfit(profile *models.UserProfile, analysis *models.OutfitAnalysis, now time.Time) float64 {
	var sum, total float64
	for _, tag := range analysis.Tags {
		if e.tracker.ShouldAvoid(profile, tag.Attribute, tag.Value, now) {
			continue
		}
		sum += profile.Weights[tag.Key()] * tag.Confidence
		total += tag.Confidence
	}
	if total <= 0 {
		return 0
	}
	return sum / total
}

// ScoreOutfitForUser is the primary scoring entry point. An outfit
// containing even one avoided attribute is vetoed outright, regardless of
// how well everything else scores. Otherwise the continuous score and a
// human-readable explanation are returned.
func (e *Engine) ScoreOutfitForUser(profile *models.UserProfile, analysis *models.OutfitAnalysis, now time.Time) OutfitScore {
	for _, tag := range analysis.Tags {
		if e.tracker.ShouldAvoid(profile, tag.Attribute, tag.Value, now) {
			return OutfitScore{
				Score:       e.config.VetoScore,
				Explanation: VetoExplanation,
				ShouldAvoid: true,
			}
		}
	}

	return OutfitScore{
		Score:       e.ScoreOutfit(profile, analysis, now),
		Explanation: e.explain(profile, analysis),
	}
}

// weightedKey pairs a tag key with its current weight for sorting.
type weightedKey struct {
	Key    string
	Weight float64
}

// TopLikedAttributes returns up to n tag keys with the highest positive
// weights, strongest first.
func TopLikedAttributes(profile *models.UserProfile, n int) []string {
	return topKeys(profile.Weights, n, false)
}

// TopDislikedAttributes returns up to n tag keys with the lowest negative
// weights, strongest dislike first.
func TopDislikedAttributes(profile *models.UserProfile, n int) []string {
	return topKeys(profile.Weights, n, true)
}

func topKeys(weights models.PreferenceWeights, n int, negative bool) []string {
	var entries []weightedKey
	for key, w := range weights {
		if negative && w < 0 {
			entries = append(entries, weightedKey{Key: key, Weight: w})
		} else if !negative && w > 0 {
			entries = append(entries, weightedKey{Key: key, Weight: w})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if negative {
			if entries[i].Weight != entries[j].Weight {
				return entries[i].Weight < entries[j].Weight
			}
		} else {
			if entries[i].Weight != entries[j].Weight {
				return entries[i].Weight > entries[j].Weight
			}
		}
		return entries[i].Key < entries[j].Key
	})

	if len(entries) > n {
		entries = entries[:n]
	}
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

// explain builds the "why this" sentence: which of the user's top-liked
// attributes the outfit leans on, and which top-disliked attributes it
// avoids (with a repeat count when the dislike has a streak behind it).
func (e *Engine) explain(profile *models.UserProfile, analysis *models.OutfitAnalysis) string {
	present := make(map[string]bool, len(analysis.Tags))
	for _, tag := range analysis.Tags {
		present[tag.Key()] = true
	}

	var liked []string
	for _, key := range TopLikedAttributes(profile, 3) {
		if present[key] {
			liked = append(liked, displayKey(key))
		}
	}

	var avoided []string
	for _, key := range TopDislikedAttributes(profile, 2) {
		if present[key] {
			continue
		}
		label := displayKey(key)
		if attr, value, ok := models.SplitTagKey(key); ok {
			if rej := profile.FindRejection(attr, value); rej != nil && rej.Streak > 1 {
				label = fmt.Sprintf("%s (disliked %d×)", label, rej.Streak)
			}
		}
		avoided = append(avoided, label)
	}

	var parts []string
	if len(liked) > 0 {
		parts = append(parts, fmt.Sprintf("Focusing on %s (your likes)", strings.Join(liked, " and ")))
	}
	if len(avoided) > 0 {
		parts = append(parts, fmt.Sprintf("Avoiding %s", strings.Join(avoided, " and ")))
	}
	if len(parts) == 0 {
		return "Styled to match your overall profile"
	}
	return strings.Join(parts, ". ")
}

// displayKey renders a tag key for explanation text.
func displayKey(key string) string {
	if _, value, ok := models.SplitTagKey(key); ok {
		return value
	}
	return key
}
