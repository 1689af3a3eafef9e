// Package gorm provides GORM-based database operations for styleai.
package gorm

import (
	"context"

	"github.com/nper79/styleai/pkg/models"
)

// InteractionStore appends to the immutable feedback log.
type InteractionStore struct {
	store *Store
}

// NewInteractionStore creates an InteractionStore backed by the given Store.
func NewInteractionStore(store *Store) *InteractionStore {
	return &InteractionStore{store: store}
}

// AppendInteraction inserts one event into the append-only log. Rows are
// never updated or deleted.
func (s *InteractionStore) AppendInteraction(ctx context.Context, interaction *models.Interaction) error {
	reasons := make(models.JSONStringArray, len(interaction.Reasons))
	for i, r := range interaction.Reasons {
		reasons[i] = string(r)
	}

	row := InteractionRow{
		UserID:         interaction.UserID,
		OutfitID:       interaction.OutfitID,
		Action:         string(interaction.Action),
		Reasons:        reasons,
		SessionSeq:     interaction.SessionSeq,
		CreatedAtEpoch: interaction.CreatedAtEpoch,
	}

	return wrapStoreErr("append interaction", s.store.DB.WithContext(ctx).Create(&row).Error)
}

// RecentInteractions returns the newest events for a user, newest first.
// Used by the profile read model to render activity.
func (s *InteractionStore) RecentInteractions(ctx context.Context, userID string, limit int) ([]*models.Interaction, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []InteractionRow
	err := s.store.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at_epoch DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, wrapStoreErr("recent interactions", err)
	}

	out := make([]*models.Interaction, len(rows))
	for i, row := range rows {
		reasons := make([]models.FeedbackReason, len(row.Reasons))
		for j, r := range row.Reasons {
			reasons[j] = models.FeedbackReason(r)
		}
		out[i] = &models.Interaction{
			UserID:         row.UserID,
			OutfitID:       row.OutfitID,
			Action:         models.FeedbackType(row.Action),
			Reasons:        reasons,
			SessionSeq:     row.SessionSeq,
			CreatedAtEpoch: row.CreatedAtEpoch,
		}
	}
	return out, nil
}
