// Package models contains domain models for styleai.
package models

// TuningConfig gathers the weight-model parameters.
type TuningConfig struct {
	// LikeStep is the per-unit-confidence weight increase on a like.
	LikeStep float64 `json:"like_step"`

	// DislikeStep is the per-unit-confidence weight decrease on a reasoned
	// dislike. Larger than LikeStep: showing something already rejected
	// costs more than failing to show something liked.
	DislikeStep float64 `json:"dislike_step"`

	// WeightCap bounds every weight to [-WeightCap, +WeightCap].
	WeightCap float64 `json:"weight_cap"`

	// DecayRate multiplies every weight once per processed feedback event.
	// Decay scales with activity, not wall-clock time.
	DecayRate float64 `json:"decay_rate"`

	// HardBanThreshold is the dislike streak at which a pair is banned
	// permanently.
	HardBanThreshold int `json:"hard_ban_threshold"`

	// CooldownDays is how long a non-banned but recently rejected pair
	// stays excluded.
	CooldownDays int `json:"cooldown_days"`

	// VetoScore is the score reported for an outfit containing any banned
	// or cooled-down attribute.
	VetoScore float64 `json:"veto_score"`

	// DropThreshold is the score at or below which ranked candidates are
	// dropped even without a veto.
	DropThreshold float64 `json:"drop_threshold"`

	// HistoryLimit caps the profile's retained feedback history.
	HistoryLimit int `json:"history_limit"`
}

// DefaultTuningConfig returns the default tuning parameters.
func DefaultTuningConfig() *TuningConfig {
	return &TuningConfig{
		LikeStep:         0.3,
		DislikeStep:      0.4,
		WeightCap:        2.0,
		DecayRate:        0.98,
		HardBanThreshold: 3,
		CooldownDays:     7,
		VetoScore:        -100,
		DropThreshold:    -50,
		HistoryLimit:     200,
	}
}
