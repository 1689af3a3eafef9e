// Package server provides the HTTP service exposing the styleai
// preference engine.
package server

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// writeJSON writes a JSON response with proper error handling.
func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes a JSON error response with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// handleHealth handles health check requests.
// GET /api/health
func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	storeStatus := "ok"
	if err := s.store.Ping(); err != nil {
		storeStatus = "unreachable"
	}
	if !s.pipeline.SyncAvailable() {
		storeStatus = "sync_unavailable"
	}

	writeJSON(w, map[string]interface{}{
		"status":  "ok",
		"version": s.version,
		"store":   storeStatus,
		"uptime":  time.Since(s.startTime).Round(time.Second).String(),
	})
}
