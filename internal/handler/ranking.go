package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/studyquest/internal/apperror"
	"github.com/sakif/studyquest/internal/scoring"
	"github.com/sakif/studyquest/internal/service"
)

// RankingHandler serves /api/rankings.
type RankingHandler struct {
	rankings *service.RankingService
	logger   *slog.Logger
}

func NewRankingHandler(rankings *service.RankingService, logger *slog.Logger) *RankingHandler {
	return &RankingHandler{rankings: rankings, logger: logger}
}

// HandleList returns a leaderboard.
//
// HTTP: GET /api/rankings?period=all|week|month&limit=N
func (h *RankingHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	period, err := scoring.ParsePeriod(q.Get("period"))
	if err != nil {
		writeError(w, apperror.ValidationFailed("period", "period must be one of all, week, month"))
		return
	}

	limit, err := limitParam(q.Get("limit"))
	if err != nil {
		writeError(w, err)
		return
	}

	board, err := h.rankings.Leaderboard(r.Context(), period, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// HandleTop returns the all-time top 10.
//
// HTTP: GET /api/rankings/top
func (h *RankingHandler) HandleTop(w http.ResponseWriter, r *http.Request) {
	board, err := h.rankings.Top(r.Context(), service.DefaultTopN)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// limitParam parses ?limit=. Empty means "use the default" (0).
func limitParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apperror.ValidationFailed("limit", "limit must be a positive integer")
	}
	return n, nil
}
