// Package server provides the HTTP service exposing the styleai
// preference engine.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/nper79/styleai/internal/ingest"
	"github.com/nper79/styleai/internal/scoring"
	"github.com/nper79/styleai/pkg/models"
)

// ScoreRequest is the body of a single-outfit scoring call.
type ScoreRequest struct {
	Analysis *models.OutfitAnalysis `json:"analysis"`
}

// RankRequest is the body of a batch ranking call. Candidate order is the
// generation order and breaks ties.
type RankRequest struct {
	Candidates []scoring.Candidate `json:"candidates"`
}

// handleScore scores one candidate outfit for a user.
// POST /api/users/{id}/score
func (s *Service) handleScore(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Analysis == nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, ok := s.loadProfile(w, r, userID)
	if !ok {
		return
	}

	writeJSON(w, s.scoringEngine().ScoreOutfitForUser(profile, req.Analysis, time.Now()))
}

// handleRank ranks a batch of candidate outfits for a user. Vetoed and
// low-scoring candidates are dropped; survivors come back highest first.
// POST /api/users/{id}/rank
func (s *Service) handleRank(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	var req RankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	for _, c := range req.Candidates {
		if c.Analysis == nil {
			writeError(w, http.StatusBadRequest, "candidate missing analysis")
			return
		}
	}

	profile, ok := s.loadProfile(w, r, userID)
	if !ok {
		return
	}

	ranked, err := s.scoringEngine().RankOutfits(r.Context(), profile, req.Candidates, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "ranking failed")
		return
	}

	writeJSON(w, map[string]interface{}{
		"ranked":    ranked,
		"submitted": len(req.Candidates),
	})
}

// handleProfile returns the profile read model.
// GET /api/users/{id}/profile
func (s *Service) handleProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	profile, ok := s.loadProfile(w, r, userID)
	if !ok {
		return
	}

	writeJSON(w, s.profileSummary(profile))
}

// loadProfile fetches the profile and writes the error response itself
// when it cannot.
func (s *Service) loadProfile(w http.ResponseWriter, r *http.Request, userID string) (*models.UserProfile, bool) {
	profile, err := s.pipeline.Profile(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrInvalidRequest):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ingest.ErrProfileNotFound):
			writeError(w, http.StatusNotFound, "profile not found; complete onboarding first")
		default:
			writeError(w, http.StatusInternalServerError, "failed to load profile")
		}
		return nil, false
	}
	return profile, true
}

// profileSummary builds the read model served to the UI: the style vector,
// color buckets, and the strongest learned attributes.
func (s *Service) profileSummary(profile *models.UserProfile) map[string]interface{} {
	return map[string]interface{}{
		"user_id":         profile.UserID,
		"style_vector":    profile.StyleVector,
		"liked_colors":    profile.LikedColors,
		"disliked_colors": profile.DislikedColors,
		"top_liked":       scoring.TopLikedAttributes(profile, 5),
		"top_disliked":    scoring.TopDislikedAttributes(profile, 5),
		"weights":         len(profile.Weights),
		"rejections":      len(profile.Rejections),
		"session_seq":     profile.SessionSeq,
		"last_updated":    profile.LastUpdated,
	}
}
