// Package models contains domain models for styleai.
package models

// StoredOutfit is the metadata persisted for a generated outfit so feedback
// events have a stable identity to reference.
type StoredOutfit struct {
	OutfitID       string           `json:"outfit_id"`
	Theme          string           `json:"theme,omitempty"`
	Analysis       *OutfitAnalysis  `json:"analysis,omitempty"`
	Reasons        []FeedbackReason `json:"reasons,omitempty"`
	CreatedAtEpoch int64            `json:"created_at_epoch"`
}

// Interaction is one immutable entry of the append-only feedback log.
// Entries are never updated or deleted.
type Interaction struct {
	UserID         string           `json:"user_id"`
	OutfitID       string           `json:"outfit_id"`
	Action         FeedbackType     `json:"action"`
	Reasons        []FeedbackReason `json:"reasons,omitempty"`
	SessionSeq     int64            `json:"session_seq"`
	CreatedAtEpoch int64            `json:"created_at_epoch"`
}
