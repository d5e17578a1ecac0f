package http

import (
	"net/http"
	"strconv"

	"airport-cyber-crisis/internal/app"
	"github.com/rs/zerolog/log"
)

type LeaderboardHandler struct {
	service *app.GameService
}

func NewLeaderboardHandler(service *app.GameService) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

// List returns the ranked board, optionally limited by ?limit=n.
func (h *LeaderboardHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, h.service.Leaderboard(r.Context(), limit))
}

func (h *LeaderboardHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearLeaderboard(r.Context()); err != nil {
		log.Error().Err(err).Msg("clear leaderboard")
		writeError(w, http.StatusInternalServerError, "could not clear leaderboard")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
