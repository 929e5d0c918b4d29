package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/riffosx-beep/riffos/internal/auth"
	"github.com/riffosx-beep/riffos/internal/store"
)

// CRUD routes for the dashboard resources. The AI route writes into
// the same tables; these endpoints are what the board, calendar and
// vault screens read and mutate.

func requestUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
	}
	return userID, ok
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}
	respondError(w, http.StatusInternalServerError, "Internal server error")
}

func (s *Server) getVoiceProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	profile, err := s.storage.GetVoiceProfile(r.Context(), userID)
	if err != nil {
		storeError(w, err)
		return
	}
	if profile == nil {
		respondError(w, http.StatusNotFound, "No voice profile trained yet")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"voiceProfile": profile})
}

func (s *Server) listIdeas(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	f := store.IdeaFilter{
		Platform: r.URL.Query().Get("platform"),
		Status:   r.URL.Query().Get("status"),
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		f.Limit = n
	}

	ideas, err := s.storage.ListIdeas(r.Context(), userID, f)
	if err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"ideas": orEmpty(ideas)})
}

func (s *Server) createIdea(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	var idea store.Idea
	if !decodeBody(w, r, &idea) {
		return
	}
	if idea.Title == "" {
		respondError(w, http.StatusBadRequest, "Title is required")
		return
	}
	idea.UserID = userID

	id, err := s.storage.InsertIdea(r.Context(), idea)
	if err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (s *Server) updateIdeaStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Status == "" {
		respondError(w, http.StatusBadRequest, "Status is required")
		return
	}

	if err := s.storage.UpdateIdeaStatus(r.Context(), userID, id, body.Status); err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"id": id, "status": body.Status})
}

func (s *Server) deleteIdea(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.storage.DeleteIdea(r.Context(), userID, id); err != nil {
		storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listScripts(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	f := store.ScriptFilter{
		Platform: r.URL.Query().Get("platform"),
		Status:   r.URL.Query().Get("status"),
	}
	scripts, err := s.storage.ListScripts(r.Context(), userID, f)
	if err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"scripts": orEmpty(scripts)})
}

func (s *Server) createScript(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	var sc store.Script
	if !decodeBody(w, r, &sc) {
		return
	}
	if sc.Title == "" {
		respondError(w, http.StatusBadRequest, "Title is required")
		return
	}
	if len(sc.Content) == 0 {
		respondError(w, http.StatusBadRequest, "Content is required")
		return
	}
	sc.UserID = userID

	id, err := s.storage.InsertScript(r.Context(), sc)
	if err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (s *Server) deleteScript(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.storage.DeleteScript(r.Context(), userID, id); err != nil {
		storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listCalendar(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	var f store.CalendarFilter
	if from := r.URL.Query().Get("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid from date")
			return
		}
		f.From = &t
	}
	if to := r.URL.Query().Get("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid to date")
			return
		}
		f.To = &t
	}

	entries, err := s.storage.ListCalendarEntries(r.Context(), userID, f)
	if err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"calendar": orEmpty(entries)})
}

func (s *Server) createCalendarEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	var body struct {
		store.CalendarEntry
		ScheduledDate string `json:"scheduled_date"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	date, err := time.Parse("2006-01-02", body.ScheduledDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid scheduled_date, expected YYYY-MM-DD")
		return
	}
	entry := body.CalendarEntry
	entry.UserID = userID
	entry.ScheduledDate = date

	id, err := s.storage.InsertCalendarEntry(r.Context(), entry)
	if err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (s *Server) updateCalendarEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Status == "" {
		respondError(w, http.StatusBadRequest, "Status is required")
		return
	}

	if err := s.storage.UpdateCalendarEntryStatus(r.Context(), userID, id, body.Status); err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"id": id, "status": body.Status})
}

func (s *Server) deleteCalendarEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.storage.DeleteCalendarEntry(r.Context(), userID, id); err != nil {
		storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listVault(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	items, err := s.storage.ListVaultItems(r.Context(), userID, r.URL.Query().Get("category"))
	if err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"vault": orEmpty(items)})
}

func (s *Server) createVaultItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	var item store.VaultItem
	if !decodeBody(w, r, &item) {
		return
	}
	if item.Content == "" {
		respondError(w, http.StatusBadRequest, "Content is required")
		return
	}
	item.UserID = userID

	id, err := s.storage.InsertVaultItem(r.Context(), item)
	if err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (s *Server) deleteVaultItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.storage.DeleteVaultItem(r.Context(), userID, id); err != nil {
		storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listPerformance(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	logs, err := s.storage.ListPerformanceLogs(r.Context(), userID, r.URL.Query().Get("platform"))
	if err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"performance": orEmpty(logs)})
}

func (s *Server) createPerformanceLog(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	var log store.PerformanceLog
	if !decodeBody(w, r, &log) {
		return
	}
	if log.Platform == "" {
		respondError(w, http.StatusBadRequest, "Platform is required")
		return
	}
	log.UserID = userID

	id, err := s.storage.InsertPerformanceLog(r.Context(), log)
	if err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (s *Server) listReports(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	reports, err := s.storage.ListWeeklyReports(r.Context(), userID, limit)
	if err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"reports": orEmpty(reports)})
}

// orEmpty keeps list responses as [] instead of null when no rows
// exist; the dashboard maps over them unconditionally.
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
