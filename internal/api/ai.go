package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/riffosx-beep/riffos/internal/ai"
	"github.com/riffosx-beep/riffos/internal/auth"
)

// handleAI is the multiplexed AI route: one POST endpoint dispatching
// on the body's "type" discriminator.
func (s *Server) handleAI(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	result, err := s.ai.Handle(r.Context(), userID, body)
	if err != nil {
		var se *ai.StatusError
		if errors.As(err, &se) {
			respondError(w, se.Status, se.Message)
			return
		}
		s.logger.Error("ai request failed", "user", userID, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
