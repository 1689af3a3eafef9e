// Package gorm provides GORM-based database operations for styleai.
package gorm

// CombinedStore bundles the three record stores behind the db.Store
// interface for consumers that need all of them.
type CombinedStore struct {
	*ProfileStore
	*OutfitStore
	*InteractionStore
}

// NewCombinedStore creates a CombinedStore over one database connection.
func NewCombinedStore(store *Store) *CombinedStore {
	return &CombinedStore{
		ProfileStore:     NewProfileStore(store),
		OutfitStore:      NewOutfitStore(store),
		InteractionStore: NewInteractionStore(store),
	}
}
