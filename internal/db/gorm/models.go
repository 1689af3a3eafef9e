// Package gorm provides GORM-based database operations for styleai.
package gorm

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"gorm.io/gorm"

	"github.com/nper79/styleai/pkg/models"
)

// PermanentCooldown is the sentinel cooldown value meaning "banned forever".
// Onboarding-seeded rejections are written with it; ordinary rejections use
// NULL. Kept for reconstruction compatibility with previously persisted rows.
const PermanentCooldown = -1

// JSONConstraints stores OnboardingConstraints as a JSON column.
type JSONConstraints models.OnboardingConstraints

// Scan implements sql.Scanner for JSONConstraints.
func (c *JSONConstraints) Scan(src interface{}) error {
	if src == nil {
		*c = JSONConstraints{}
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("JSONConstraints: unsupported type %T", src)
	}

	if len(data) == 0 {
		*c = JSONConstraints{}
		return nil
	}

	return json.Unmarshal(data, c)
}

// Value implements driver.Valuer for JSONConstraints.
func (c JSONConstraints) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// JSONHistory stores the feedback history as a JSON column.
type JSONHistory []models.FeedbackRecord

// Scan implements sql.Scanner for JSONHistory.
func (h *JSONHistory) Scan(src interface{}) error {
	if src == nil {
		*h = nil
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("JSONHistory: unsupported type %T", src)
	}

	if len(data) == 0 {
		*h = nil
		return nil
	}

	return json.Unmarshal(data, h)
}

// Value implements driver.Valuer for JSONHistory.
func (h JSONHistory) Value() (driver.Value, error) {
	if h == nil {
		return nil, nil
	}
	return json.Marshal(h)
}

// UserProfileRow is the persisted profile record: onboarding constraints,
// style vector, color buckets, and session counter. Preference weights and
// attribute stats live in their own tables.
type UserProfileRow struct {
	UserID           string                 `gorm:"uniqueIndex;not null"`
	Formality        float64                `gorm:"type:real;default:0.5"`
	ColorNeutrality  float64                `gorm:"type:real;default:0.5"`
	Comfort          float64                `gorm:"type:real;default:0.7"`
	Trendiness       float64                `gorm:"type:real;default:0.5"`
	Minimalism       float64                `gorm:"type:real;default:0.5"`
	LikedColors      models.JSONStringArray `gorm:"type:text"`
	DislikedColors   models.JSONStringArray `gorm:"type:text"`
	Constraints      JSONConstraints        `gorm:"type:text"`
	FeedbackHistory  JSONHistory            `gorm:"type:text"`
	SessionSeq       int64                  `gorm:"default:0"`
	LastUpdatedEpoch int64                  `gorm:"not null"`
	ID               int64                  `gorm:"primaryKey;autoIncrement"`
}

func (UserProfileRow) TableName() string { return "user_profiles" }

// BeforeCreate hook to ensure timestamps are set.
func (p *UserProfileRow) BeforeCreate(tx *gorm.DB) error {
	if p.LastUpdatedEpoch == 0 {
		p.LastUpdatedEpoch = time.Now().UnixMilli()
	}
	return nil
}

// PreferenceWeightRow is one entry of a user's tag-weight map.
type PreferenceWeightRow struct {
	UserID         string  `gorm:"not null;uniqueIndex:idx_weights_user_tag,priority:1"`
	TagKey         string  `gorm:"not null;uniqueIndex:idx_weights_user_tag,priority:2"`
	Weight         float64 `gorm:"type:real;not null"`
	UpdatedAtEpoch int64   `gorm:"not null"`
	ID             int64   `gorm:"primaryKey;autoIncrement"`
}

func (PreferenceWeightRow) TableName() string { return "preference_weights" }

// AttributeStatRow is one rejection entry, keyed by attribute:value.
// CooldownUntil uses the PermanentCooldown sentinel for onboarding-seeded
// permanent bans; ordinary rejections leave it NULL.
type AttributeStatRow struct {
	UserID            string        `gorm:"not null;uniqueIndex:idx_stats_user_attr,priority:1"`
	AttrKey           string        `gorm:"not null;uniqueIndex:idx_stats_user_attr,priority:2"`
	Streak            int           `gorm:"default:0"`
	LastRejectedEpoch int64         `gorm:"not null"`
	IsHardBan         bool          `gorm:"default:false"`
	CooldownUntil     sql.NullInt64 `gorm:"column:cooldown_until_session"`
	ID                int64         `gorm:"primaryKey;autoIncrement"`
}

func (AttributeStatRow) TableName() string { return "attribute_stats" }

// OutfitRow is persisted outfit metadata, upserted idempotently by outfit id.
type OutfitRow struct {
	OutfitID       string                 `gorm:"uniqueIndex;not null"`
	Theme          string                 `gorm:"index"`
	Analysis       string                 `gorm:"type:text"`
	Reasons        models.JSONStringArray `gorm:"type:text"`
	CreatedAtEpoch int64                  `gorm:"not null"`
	ID             int64                  `gorm:"primaryKey;autoIncrement"`
}

func (OutfitRow) TableName() string { return "outfits" }

// BeforeCreate hook to ensure timestamps are set.
func (o *OutfitRow) BeforeCreate(tx *gorm.DB) error {
	if o.CreatedAtEpoch == 0 {
		o.CreatedAtEpoch = time.Now().UnixMilli()
	}
	return nil
}

// InteractionRow is one append-only feedback log entry.
type InteractionRow struct {
	UserID         string                 `gorm:"index:idx_interactions_user;not null"`
	OutfitID       string                 `gorm:"index;not null"`
	Action         string                 `gorm:"type:text;check:action IN ('like', 'dislike');not null"`
	Reasons        models.JSONStringArray `gorm:"type:text"`
	SessionSeq     int64                  `gorm:"default:0"`
	CreatedAtEpoch int64                  `gorm:"index:idx_interactions_created,sort:desc;not null"`
	ID             int64                  `gorm:"primaryKey;autoIncrement"`
}

func (InteractionRow) TableName() string { return "interactions" }

// BeforeCreate hook to ensure timestamps are set.
func (i *InteractionRow) BeforeCreate(tx *gorm.DB) error {
	if i.CreatedAtEpoch == 0 {
		i.CreatedAtEpoch = time.Now().UnixMilli()
	}
	return nil
}
