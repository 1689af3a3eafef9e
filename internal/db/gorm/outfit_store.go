// Package gorm provides GORM-based database operations for styleai.
package gorm

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/nper79/styleai/pkg/models"
)

// OutfitStore persists outfit metadata.
type OutfitStore struct {
	store *Store
}

// NewOutfitStore creates an OutfitStore backed by the given Store.
func NewOutfitStore(store *Store) *OutfitStore {
	return &OutfitStore{store: store}
}

// UpsertOutfit stores outfit metadata keyed by outfit id. Idempotent on id
// collision: an existing row is refreshed, not duplicated.
func (s *OutfitStore) UpsertOutfit(ctx context.Context, outfit *models.StoredOutfit) error {
	analysis, err := marshalAnalysis(outfit.Analysis)
	if err != nil {
		return err
	}

	reasons := make(models.JSONStringArray, len(outfit.Reasons))
	for i, r := range outfit.Reasons {
		reasons[i] = string(r)
	}

	row := OutfitRow{
		OutfitID:       outfit.OutfitID,
		Theme:          outfit.Theme,
		Analysis:       analysis,
		Reasons:        reasons,
		CreatedAtEpoch: outfit.CreatedAtEpoch,
	}

	err = s.store.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "outfit_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"theme", "analysis", "reasons"}),
		}).
		Create(&row).Error
	if err != nil {
		return wrapStoreErr(fmt.Sprintf("upsert outfit %s", outfit.OutfitID), err)
	}
	return nil
}
