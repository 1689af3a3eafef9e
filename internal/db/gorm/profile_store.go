// Package gorm provides GORM-based database operations for styleai.
package gorm

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nper79/styleai/internal/db"
	"github.com/nper79/styleai/pkg/models"
)

// ProfileStore persists user profiles across the three typed record sets:
// the profile row, preference-weight rows, and attribute-stat rows.
type ProfileStore struct {
	store *Store
}

// NewProfileStore creates a ProfileStore backed by the given Store.
func NewProfileStore(store *Store) *ProfileStore {
	return &ProfileStore{store: store}
}

// LoadProfile reconstructs a full UserProfile from its persisted records.
// Attribute-stat rows carrying the permanent-cooldown sentinel are restored
// as hard bans even if the flag column predates them.
func (s *ProfileStore) LoadProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var row UserProfileRow
	err := s.store.DB.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, wrapStoreErr("load profile", err)
	}

	profile := &models.UserProfile{
		UserID: userID,
		StyleVector: models.StyleVector{
			Formality:       row.Formality,
			ColorNeutrality: row.ColorNeutrality,
			Comfort:         row.Comfort,
			Trendiness:      row.Trendiness,
			Minimalism:      row.Minimalism,
		},
		LikedColors:     row.LikedColors,
		DislikedColors:  row.DislikedColors,
		FeedbackHistory: row.FeedbackHistory,
		Constraints:     models.OnboardingConstraints(row.Constraints),
		Weights:         make(models.PreferenceWeights),
		SessionSeq:      row.SessionSeq,
		LastUpdated:     time.UnixMilli(row.LastUpdatedEpoch),
	}

	var weights []PreferenceWeightRow
	if err := s.store.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&weights).Error; err != nil {
		return nil, wrapStoreErr("load weights", err)
	}
	for _, w := range weights {
		profile.Weights[w.TagKey] = w.Weight
	}

	var stats []AttributeStatRow
	if err := s.store.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&stats).Error; err != nil {
		return nil, wrapStoreErr("load attribute stats", err)
	}
	for _, st := range stats {
		attribute, value, ok := models.SplitTagKey(st.AttrKey)
		if !ok {
			continue
		}
		rej := models.AttributeRejection{
			Attribute:    attribute,
			Value:        value,
			Streak:       st.Streak,
			LastRejected: time.UnixMilli(st.LastRejectedEpoch),
			IsHardBan:    st.IsHardBan,
		}
		if st.CooldownUntil.Valid && st.CooldownUntil.Int64 == PermanentCooldown {
			rej.IsHardBan = true
		}
		profile.Rejections = append(profile.Rejections, rej)
	}

	return profile, nil
}

// SaveProfile writes the profile wholesale in one transaction. Each record
// set is upserted; nothing is ever deleted (weights and rejections only
// grow or change in place).
func (s *ProfileStore) SaveProfile(ctx context.Context, profile *models.UserProfile) error {
	now := time.Now().UnixMilli()

	err := s.store.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := UserProfileRow{
			UserID:           profile.UserID,
			Formality:        profile.StyleVector.Formality,
			ColorNeutrality:  profile.StyleVector.ColorNeutrality,
			Comfort:          profile.StyleVector.Comfort,
			Trendiness:       profile.StyleVector.Trendiness,
			Minimalism:       profile.StyleVector.Minimalism,
			LikedColors:      profile.LikedColors,
			DislikedColors:   profile.DislikedColors,
			Constraints:      JSONConstraints(profile.Constraints),
			FeedbackHistory:  profile.FeedbackHistory,
			SessionSeq:       profile.SessionSeq,
			LastUpdatedEpoch: profile.LastUpdated.UnixMilli(),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"formality", "color_neutrality", "comfort", "trendiness", "minimalism",
				"liked_colors", "disliked_colors", "constraints", "feedback_history",
				"session_seq", "last_updated_epoch",
			}),
		}).Create(&row).Error; err != nil {
			return fmt.Errorf("upsert profile: %w", err)
		}

		for key, weight := range profile.Weights {
			wr := PreferenceWeightRow{
				UserID:         profile.UserID,
				TagKey:         key,
				Weight:         weight,
				UpdatedAtEpoch: now,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "tag_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"weight", "updated_at_epoch"}),
			}).Create(&wr).Error; err != nil {
				return fmt.Errorf("upsert weight %s: %w", key, err)
			}
		}

		for _, rej := range profile.Rejections {
			st := AttributeStatRow{
				UserID:            profile.UserID,
				AttrKey:           rej.Key(),
				Streak:            rej.Streak,
				LastRejectedEpoch: rej.LastRejected.UnixMilli(),
				IsHardBan:         rej.IsHardBan,
			}
			if rej.IsHardBan {
				st.CooldownUntil = sql.NullInt64{Int64: PermanentCooldown, Valid: true}
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}, {Name: "attr_key"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"streak", "last_rejected_epoch", "is_hard_ban", "cooldown_until_session",
				}),
			}).Create(&st).Error; err != nil {
				return fmt.Errorf("upsert attribute stat %s: %w", rej.Key(), err)
			}
		}

		return nil
	})

	return wrapStoreErr("save profile", err)
}

// wrapStoreErr annotates store errors, mapping revoked-access conditions to
// db.ErrUnauthorized so callers can flip their sticky sync flag.
func wrapStoreErr(op string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 42501 insufficient_privilege, 28000 invalid_authorization_specification
		if pgErr.Code == "42501" || pgErr.Code == "28000" {
			return fmt.Errorf("%s: %w: %s", op, db.ErrUnauthorized, pgErr.Message)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}

// marshalAnalysis serializes an analysis for the outfit metadata column.
func marshalAnalysis(analysis *models.OutfitAnalysis) (string, error) {
	if analysis == nil {
		return "", nil
	}
	data, err := json.Marshal(analysis)
	if err != nil {
		return "", fmt.Errorf("marshal analysis: %w", err)
	}
	return string(data), nil
}
