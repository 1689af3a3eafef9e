// Package db defines the storage interfaces for the styleai stores.
package db

import (
	"context"
	"errors"

	"github.com/nper79/styleai/pkg/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrUnauthorized is returned when the backing store has revoked access.
// Callers treat it as sticky and fall back to local-only operation.
var ErrUnauthorized = errors.New("store access unauthorized")

// ProfileReader defines read operations for user profiles.
type ProfileReader interface {
	LoadProfile(ctx context.Context, userID string) (*models.UserProfile, error)
}

// ProfileWriter defines write operations for user profiles.
// Profiles are written wholesale; the single-writer-per-user discipline is
// the caller's responsibility and last write wins.
type ProfileWriter interface {
	SaveProfile(ctx context.Context, profile *models.UserProfile) error
}

// ProfileStore combines read and write operations for user profiles.
type ProfileStore interface {
	ProfileReader
	ProfileWriter
}

// OutfitStore persists outfit metadata. Upserts are idempotent on id.
type OutfitStore interface {
	UpsertOutfit(ctx context.Context, outfit *models.StoredOutfit) error
}

// InteractionStore appends to the immutable interaction log.
type InteractionStore interface {
	AppendInteraction(ctx context.Context, interaction *models.Interaction) error
}

// Store combines every storage concern of the engine.
type Store interface {
	ProfileStore
	OutfitStore
	InteractionStore
}
