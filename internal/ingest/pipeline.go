// Package ingest implements the feedback ingestion pipeline: the single
// entry point that turns like/dislike events into profile mutations and
// best-effort persistence.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nper79/styleai/internal/db"
	"github.com/nper79/styleai/internal/preference"
	"github.com/nper79/styleai/pkg/models"
)

// ErrInvalidRequest is returned for malformed ingestion input: missing
// user, missing analysis, or an unknown feedback type. An empty
// reason-to-tag intersection is NOT an error; it is a normal no-op.
var ErrInvalidRequest = errors.New("invalid feedback request")

// ErrProfileNotFound is returned when no profile exists for the user.
var ErrProfileNotFound = errors.New("profile not found")

// Request is one feedback event submitted for ingestion.
type Request struct {
	UserID   string                  `json:"user_id"`
	OutfitID string                  `json:"outfit_id,omitempty"`
	Theme    string                  `json:"theme,omitempty"`
	Feedback models.FeedbackType     `json:"feedback"`
	Analysis *models.OutfitAnalysis  `json:"analysis"`
	Reasons  []models.FeedbackReason `json:"reasons,omitempty"`
}

// Result is the outcome of one ingestion call. The profile is the
// in-memory source of truth; persistence problems surface as warnings, not
// failures.
type Result struct {
	Profile  *models.UserProfile `json:"profile"`
	OutfitID string              `json:"outfit_id"`
	Warnings []string            `json:"warnings,omitempty"`
}

// Pipeline ingests feedback events. Ingestion for one user is strictly
// sequential (streaks and decay are order-sensitive); different users
// proceed independently.
type Pipeline struct {
	profiles     db.ProfileStore
	outfits      db.OutfitStore
	interactions db.InteractionStore
	updaterRef   atomic.Pointer[preference.Updater]
	log          zerolog.Logger

	// syncDown latches true once the store reports revoked access; the
	// pipeline then runs local-only for the rest of the process lifetime.
	syncDown atomic.Bool

	// cache holds the last known profile per user so local-only operation
	// keeps working after the store goes away.
	cache   map[string]*models.UserProfile
	cacheMu sync.Mutex

	// userLocks serializes ingestion per user id.
	userLocks sync.Map // string -> *sync.Mutex

	now func() time.Time
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(store db.Store, updater *preference.Updater, log zerolog.Logger) *Pipeline {
	p := &Pipeline{
		profiles:     store,
		outfits:      store,
		interactions: store,
		log:          log.With().Str("component", "ingest").Logger(),
		cache:        make(map[string]*models.UserProfile),
		now:          time.Now,
	}
	p.updaterRef.Store(updater)
	return p
}

// SetUpdater swaps the preference updater, e.g. after a live tuning reload.
// In-flight ingestion keeps the updater it started with.
func (p *Pipeline) SetUpdater(updater *preference.Updater) {
	if updater != nil {
		p.updaterRef.Store(updater)
	}
}

func (p *Pipeline) updater() *preference.Updater {
	return p.updaterRef.Load()
}

// SyncAvailable reports whether the backing store is still being used.
func (p *Pipeline) SyncAvailable() bool {
	return !p.syncDown.Load()
}

// InitializeProfile creates a user profile from onboarding answers, seeding
// the avoid-lists as permanent hard bans, and persists it best-effort.
func (p *Pipeline) InitializeProfile(ctx context.Context, userID string, constraints models.OnboardingConstraints) (*models.UserProfile, []string, error) {
	if userID == "" {
		return nil, nil, fmt.Errorf("%w: missing user id", ErrInvalidRequest)
	}

	unlock := p.lockUser(userID)
	defer unlock()

	profile := models.NewUserProfile(userID, constraints, p.updater().Config().HardBanThreshold, p.now())

	var warnings []string
	if warn := p.saveProfile(ctx, profile); warn != "" {
		warnings = append(warnings, warn)
	}
	p.cacheProfile(profile)

	p.log.Info().
		Str("user", userID).
		Int("seeded_bans", len(profile.Rejections)).
		Msg("profile initialized")

	return profile, warnings, nil
}

// Ingest processes one feedback event: it resolves a stable outfit id,
// upserts outfit metadata, appends an interaction-log event, and mutates
// the profile through the preference model. The mutated profile is always
// returned when the input is valid; store failures degrade to warnings.
func (p *Pipeline) Ingest(ctx context.Context, req Request) (*Result, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidRequest)
	}
	if req.Analysis == nil {
		return nil, fmt.Errorf("%w: missing outfit analysis", ErrInvalidRequest)
	}
	if !req.Feedback.Valid() {
		return nil, fmt.Errorf("%w: unknown feedback type %q", ErrInvalidRequest, req.Feedback)
	}

	unlock := p.lockUser(req.UserID)
	defer unlock()

	profile, err := p.loadProfile(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	now := p.now()
	result := &Result{Profile: profile}

	result.OutfitID = req.OutfitID
	if result.OutfitID == "" {
		result.OutfitID = uuid.NewString()
	}

	// Best-effort telemetry writes. The profile mutation below must not
	// depend on either of them succeeding.
	if p.SyncAvailable() {
		outfit := &models.StoredOutfit{
			OutfitID:       result.OutfitID,
			Theme:          req.Theme,
			Analysis:       req.Analysis,
			Reasons:        req.Reasons,
			CreatedAtEpoch: now.UnixMilli(),
		}
		if err := p.outfits.UpsertOutfit(ctx, outfit); err != nil {
			result.Warnings = append(result.Warnings, p.degrade("upsert outfit", err))
		}
	}

	profile.SessionSeq++
	p.updater().UpdateFromFeedback(profile, req.Analysis, req.Feedback, req.Reasons, now)
	p.appendHistory(profile, result.OutfitID, req, now)

	if p.SyncAvailable() {
		interaction := &models.Interaction{
			UserID:         req.UserID,
			OutfitID:       result.OutfitID,
			Action:         req.Feedback,
			Reasons:        req.Reasons,
			SessionSeq:     profile.SessionSeq,
			CreatedAtEpoch: now.UnixMilli(),
		}
		if err := p.interactions.AppendInteraction(ctx, interaction); err != nil {
			result.Warnings = append(result.Warnings, p.degrade("append interaction", err))
		}
	}

	if warn := p.saveProfile(ctx, profile); warn != "" {
		result.Warnings = append(result.Warnings, warn)
	}
	p.cacheProfile(profile)

	return result, nil
}

// Profile returns the current profile for a user, for read-model use
// (rendering and scoring). Same store/cache fallback rules as ingestion.
func (p *Pipeline) Profile(ctx context.Context, userID string) (*models.UserProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidRequest)
	}

	unlock := p.lockUser(userID)
	defer unlock()

	return p.loadProfile(ctx, userID)
}

// loadProfile fetches the profile from the store, or from the local cache
// once sync is down. A missing profile is the caller's validation problem.
func (p *Pipeline) loadProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	if cached := p.cachedProfile(userID); cached != nil {
		if !p.SyncAvailable() {
			return cached, nil
		}
	}

	if !p.SyncAvailable() {
		return nil, ErrProfileNotFound
	}

	profile, err := p.profiles.LoadProfile(ctx, userID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	if errors.Is(err, db.ErrUnauthorized) {
		p.markSyncDown(err)
		if cached := p.cachedProfile(userID); cached != nil {
			return cached, nil
		}
		return nil, ErrProfileNotFound
	}
	if err != nil {
		// Transient store trouble: fall back to the cached copy if any.
		if cached := p.cachedProfile(userID); cached != nil {
			p.log.Warn().Err(err).Str("user", userID).Msg("load failed, using cached profile")
			return cached, nil
		}
		return nil, err
	}
	return profile, nil
}

// saveProfile persists the profile and converts failures into a warning.
func (p *Pipeline) saveProfile(ctx context.Context, profile *models.UserProfile) string {
	if !p.SyncAvailable() {
		return ""
	}
	if err := p.profiles.SaveProfile(ctx, profile); err != nil {
		return p.degrade("save profile", err)
	}
	return ""
}

// degrade logs a store failure, flips the sticky sync flag on revoked
// access, and returns the warning string for the result side-channel.
func (p *Pipeline) degrade(op string, err error) string {
	if errors.Is(err, db.ErrUnauthorized) {
		p.markSyncDown(err)
	}
	p.log.Warn().Err(err).Str("op", op).Msg("store write failed")
	return fmt.Sprintf("%s: %v", op, err)
}

func (p *Pipeline) markSyncDown(err error) {
	if p.syncDown.CompareAndSwap(false, true) {
		p.log.Error().Err(err).Msg("store access revoked, switching to local-only operation")
	}
}

func (p *Pipeline) appendHistory(profile *models.UserProfile, outfitID string, req Request, now time.Time) {
	profile.FeedbackHistory = append(profile.FeedbackHistory, models.FeedbackRecord{
		OutfitID:       outfitID,
		Theme:          req.Theme,
		Action:         req.Feedback,
		Reasons:        req.Reasons,
		SessionSeq:     profile.SessionSeq,
		CreatedAtEpoch: now.UnixMilli(),
	})

	if limit := p.updater().Config().HistoryLimit; limit > 0 && len(profile.FeedbackHistory) > limit {
		profile.FeedbackHistory = profile.FeedbackHistory[len(profile.FeedbackHistory)-limit:]
	}
}

func (p *Pipeline) cacheProfile(profile *models.UserProfile) {
	p.cacheMu.Lock()
	p.cache[profile.UserID] = profile
	p.cacheMu.Unlock()
}

func (p *Pipeline) cachedProfile(userID string) *models.UserProfile {
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()
	return p.cache[userID]
}

// lockUser acquires the per-user ingestion lock and returns its release.
func (p *Pipeline) lockUser(userID string) func() {
	v, _ := p.userLocks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
