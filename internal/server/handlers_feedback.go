// Package server provides the HTTP service exposing the styleai
// preference engine.
package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/nper79/styleai/internal/ingest"
	"github.com/nper79/styleai/pkg/models"
)

// FeedbackRequest is the body of a feedback submission.
type FeedbackRequest struct {
	OutfitID string                 `json:"outfit_id,omitempty"`
	Theme    string                 `json:"theme,omitempty"`
	Feedback string                 `json:"feedback"`
	Analysis *models.OutfitAnalysis `json:"analysis"`
	Reasons  []string               `json:"reasons,omitempty"`
}

// handleOnboarding creates a user profile from onboarding answers.
// POST /api/users/{id}/onboarding
func (s *Service) handleOnboarding(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	var constraints models.OnboardingConstraints
	if err := json.NewDecoder(r.Body).Decode(&constraints); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, warnings, err := s.pipeline.InitializeProfile(r.Context(), userID, constraints)
	if err != nil {
		if errors.Is(err, ingest.ErrInvalidRequest) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to initialize profile")
		return
	}

	writeJSON(w, map[string]interface{}{
		"profile":  s.profileSummary(profile),
		"warnings": warnings,
	})
}

// handleFeedback ingests one like/dislike event.
// POST /api/users/{id}/feedback
func (s *Service) handleFeedback(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reasons := make([]models.FeedbackReason, 0, len(req.Reasons))
	for _, raw := range req.Reasons {
		reason, err := models.ParseFeedbackReason(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		reasons = append(reasons, reason)
	}

	result, err := s.pipeline.Ingest(r.Context(), ingest.Request{
		UserID:   userID,
		OutfitID: req.OutfitID,
		Theme:    req.Theme,
		Feedback: models.FeedbackType(req.Feedback),
		Analysis: req.Analysis,
		Reasons:  reasons,
	})
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrInvalidRequest):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ingest.ErrProfileNotFound):
			writeError(w, http.StatusNotFound, "profile not found; complete onboarding first")
		default:
			writeError(w, http.StatusInternalServerError, "failed to process feedback")
		}
		return
	}

	writeJSON(w, map[string]interface{}{
		"outfit_id": result.OutfitID,
		"profile":   s.profileSummary(result.Profile),
		"warnings":  result.Warnings,
	})
}
