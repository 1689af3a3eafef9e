// Package server provides the HTTP service exposing the styleai
// preference engine.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/nper79/styleai/internal/config"
	gormstore "github.com/nper79/styleai/internal/db/gorm"
	"github.com/nper79/styleai/internal/ingest"
	"github.com/nper79/styleai/internal/preference"
	"github.com/nper79/styleai/internal/scoring"
	"github.com/nper79/styleai/internal/watcher"
	"gorm.io/gorm/logger"
)

// Service configuration constants
const (
	// DefaultHTTPTimeout bounds request read/write time.
	DefaultHTTPTimeout = 30 * time.Second

	// MaxRequestBody caps incoming request bodies. Rank requests carry
	// batches of analyses, so the cap is generous.
	MaxRequestBody = 4 << 20
)

// Service is the HTTP service orchestrator.
type Service struct {
	version string
	config  *config.Config

	store    *gormstore.Store
	pipeline *ingest.Pipeline

	// engine and updater are rebuilt on tuning reloads under engineMu.
	engine   *scoring.Engine
	engineMu sync.RWMutex

	router    *chi.Mux
	server    *http.Server
	startTime time.Time

	settingsWatcher *watcher.Watcher

	ctx    context.Context
	cancel context.CancelFunc
}

// NewService creates the service: opens the store, wires the preference
// pipeline and scoring engine, and registers routes.
func NewService(version string) (*Service, error) {
	cfg := config.Get()

	store, err := gormstore.NewStore(gormstore.Config{
		DSN:      cfg.DSN,
		Path:     cfg.DBPath,
		MaxConns: cfg.MaxConns,
		LogLevel: logger.Silent,
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	tracker := preference.NewTracker(cfg.Tuning)
	updater := preference.NewUpdater(cfg.Tuning, tracker, log.Logger)

	ctx, cancel := context.WithCancel(context.Background())

	svc := &Service{
		version:   version,
		config:    cfg,
		store:     store,
		pipeline:  ingest.NewPipeline(gormstore.NewCombinedStore(store), updater, log.Logger),
		engine:    scoring.NewEngine(cfg.Tuning, tracker),
		router:    chi.NewRouter(),
		startTime: time.Now(),
		ctx:       ctx,
		cancel:    cancel,
	}

	svc.setupRoutes()

	if w, err := watcher.New(config.SettingsPath(), svc.reloadTuning, log.Logger); err != nil {
		log.Warn().Err(err).Msg("settings watcher unavailable, tuning changes need a restart")
	} else {
		svc.settingsWatcher = w
		go w.Run(ctx)
	}

	return svc, nil
}

// setupRoutes registers middleware and API routes.
func (s *Service) setupRoutes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(RequestLogger)
	s.router.Use(SecurityHeaders)
	s.router.Use(MaxBodySize(MaxRequestBody))

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/users/{id}", func(r chi.Router) {
			r.Post("/onboarding", s.handleOnboarding)
			r.Post("/feedback", s.handleFeedback)
			r.Post("/score", s.handleScore)
			r.Post("/rank", s.handleRank)
			r.Get("/profile", s.handleProfile)
		})
	})
}

// reloadTuning re-reads the settings file and swaps the preference model's
// tuning without dropping pipeline state (caches, per-user locks, the
// sticky sync flag).
func (s *Service) reloadTuning() {
	cfg, err := config.Reload()
	if err != nil {
		log.Warn().Err(err).Msg("settings reload failed, keeping previous tuning")
		return
	}

	tracker := preference.NewTracker(cfg.Tuning)
	updater := preference.NewUpdater(cfg.Tuning, tracker, log.Logger)

	s.engineMu.Lock()
	s.config = cfg
	s.engine = scoring.NewEngine(cfg.Tuning, tracker)
	s.engineMu.Unlock()

	s.pipeline.SetUpdater(updater)
	log.Info().Msg("tuning configuration reloaded")
}

// scoringEngine returns the current engine under the reload lock.
func (s *Service) scoringEngine() *scoring.Engine {
	s.engineMu.RLock()
	defer s.engineMu.RUnlock()
	return s.engine
}

// Start begins serving HTTP. Non-blocking.
func (s *Service) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  DefaultHTTPTimeout,
		WriteTimeout: DefaultHTTPTimeout,
	}

	go func() {
		log.Info().Int("port", s.config.Port).Msg("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server error")
		}
	}()

	return nil
}

// Shutdown stops the server and closes the store.
func (s *Service) Shutdown(ctx context.Context) error {
	s.cancel()

	var firstErr error
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}
	if err := s.store.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Router exposes the chi router, used by tests.
func (s *Service) Router() http.Handler {
	return s.router
}
