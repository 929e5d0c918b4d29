package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/riffosx-beep/riffos/internal/ai"
	"github.com/riffosx-beep/riffos/internal/auth"
	"github.com/riffosx-beep/riffos/internal/store"
)

// Storage is the dashboard-resource persistence the CRUD routes need.
// *store.Store satisfies it; tests substitute a fake.
type Storage interface {
	GetVoiceProfile(ctx context.Context, userID uuid.UUID) (*store.VoiceProfile, error)
	ListIdeas(ctx context.Context, userID uuid.UUID, f store.IdeaFilter) ([]store.Idea, error)
	InsertIdea(ctx context.Context, idea store.Idea) (uuid.UUID, error)
	UpdateIdeaStatus(ctx context.Context, userID, id uuid.UUID, status string) error
	DeleteIdea(ctx context.Context, userID, id uuid.UUID) error
	ListScripts(ctx context.Context, userID uuid.UUID, f store.ScriptFilter) ([]store.Script, error)
	InsertScript(ctx context.Context, sc store.Script) (uuid.UUID, error)
	DeleteScript(ctx context.Context, userID, id uuid.UUID) error
	ListCalendarEntries(ctx context.Context, userID uuid.UUID, f store.CalendarFilter) ([]store.CalendarEntry, error)
	InsertCalendarEntry(ctx context.Context, e store.CalendarEntry) (uuid.UUID, error)
	UpdateCalendarEntryStatus(ctx context.Context, userID, id uuid.UUID, status string) error
	DeleteCalendarEntry(ctx context.Context, userID, id uuid.UUID) error
	ListVaultItems(ctx context.Context, userID uuid.UUID, category string) ([]store.VaultItem, error)
	InsertVaultItem(ctx context.Context, v store.VaultItem) (uuid.UUID, error)
	DeleteVaultItem(ctx context.Context, userID, id uuid.UUID) error
	ListPerformanceLogs(ctx context.Context, userID uuid.UUID, platform string) ([]store.PerformanceLog, error)
	InsertPerformanceLog(ctx context.Context, p store.PerformanceLog) (uuid.UUID, error)
	ListWeeklyReports(ctx context.Context, userID uuid.UUID, limit int) ([]store.WeeklyReport, error)
}

type Server struct {
	router  *chi.Mux
	port    int
	ai      *ai.Service
	storage Storage
	logger  *slog.Logger
}

func NewServer(port int, aiSvc *ai.Service, storage Storage, authMgr *auth.Manager, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:  router,
		port:    port,
		ai:      aiSvc,
		storage: storage,
		logger:  logger,
	}

	router.Get("/health", s.health)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(authMgr.Middleware)

		r.Post("/ai", s.handleAI)

		r.Get("/voice-profile", s.getVoiceProfile)

		r.Route("/ideas", func(r chi.Router) {
			r.Get("/", s.listIdeas)
			r.Post("/", s.createIdea)
			r.Patch("/{id}", s.updateIdeaStatus)
			r.Delete("/{id}", s.deleteIdea)
		})
		r.Route("/scripts", func(r chi.Router) {
			r.Get("/", s.listScripts)
			r.Post("/", s.createScript)
			r.Delete("/{id}", s.deleteScript)
		})
		r.Route("/calendar", func(r chi.Router) {
			r.Get("/", s.listCalendar)
			r.Post("/", s.createCalendarEntry)
			r.Patch("/{id}", s.updateCalendarEntry)
			r.Delete("/{id}", s.deleteCalendarEntry)
		})
		r.Route("/vault", func(r chi.Router) {
			r.Get("/", s.listVault)
			r.Post("/", s.createVaultItem)
			r.Delete("/{id}", s.deleteVaultItem)
		})
		r.Route("/performance", func(r chi.Router) {
			r.Get("/", s.listPerformance)
			r.Post("/", s.createPerformanceLog)
		})
		r.Get("/reports", s.listReports)
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
