package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/studyquest/internal/model"
	"github.com/sakif/studyquest/internal/repository"
	"github.com/sakif/studyquest/internal/scoring"
)

const (
	DefaultLeaderboardLimit = 100
	MaxLeaderboardLimit     = 100
	DefaultTopN             = 10
)

// RankingService produces the leaderboards.
type RankingService struct {
	store  repository.Store
	clock  Clock
	logger *slog.Logger
}

func NewRankingService(store repository.Store, clock Clock, logger *slog.Logger) *RankingService {
	return &RankingService{store: store, clock: clock, logger: logger}
}

// Leaderboard ranks users for period. The all-time board orders by
// total_points and fills TotalPoints; the week and month boards order by
// the points earned inside the window and fill Points. Users without
// qualifying tasks are included with 0.
//
// limit <= 0 selects DefaultLeaderboardLimit; larger values are capped at
// MaxLeaderboardLimit. Ranks are 1-based positions.
func (s *RankingService) Leaderboard(ctx context.Context, period scoring.Period, limit int) ([]model.RankingEntry, error) {
	limit = clampLimit(limit, DefaultLeaderboardLimit)

	var (
		rows []model.UserPoints
		err  error
	)
	from, to, windowed := scoring.Window(period, s.clock())
	if windowed {
		rows, err = s.store.Rankings().TopByPointsBetween(ctx, from, to, limit)
	} else {
		rows, err = s.store.Rankings().TopByTotalPoints(ctx, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("service/ranking: %s leaderboard: %w", period, err)
	}

	entries := make([]model.RankingEntry, len(rows))
	for i, r := range rows {
		entries[i] = model.RankingEntry{
			Rank:     i + 1,
			UserID:   r.UserID,
			Username: r.Username,
			Level:    r.Level,
		}
		points := r.Points
		if windowed {
			entries[i].Points = &points
		} else {
			entries[i].TotalPoints = &points
		}
	}

	s.logger.Debug("leaderboard built",
		slog.String("period", string(period)),
		slog.Int("limit", limit),
		slog.Int("entries", len(entries)),
	)
	return entries, nil
}

// Top is the all-time board cut to n entries, DefaultTopN when n <= 0.
func (s *RankingService) Top(ctx context.Context, n int) ([]model.RankingEntry, error) {
	return s.Leaderboard(ctx, scoring.PeriodAll, clampLimit(n, DefaultTopN))
}

func clampLimit(n, def int) int {
	if n <= 0 {
		return def
	}
	return min(n, MaxLeaderboardLimit)
}
