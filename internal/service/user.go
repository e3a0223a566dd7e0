package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/studyquest/internal/model"
	"github.com/sakif/studyquest/internal/repository"
	"github.com/sakif/studyquest/internal/scoring"
)

// UserService builds the profile views.
type UserService struct {
	store  repository.Store
	clock  Clock
	logger *slog.Logger
}

func NewUserService(store repository.Store, clock Clock, logger *slog.Logger) *UserService {
	return &UserService{store: store, clock: clock, logger: logger}
}

// Profile is the caller's own view: the full user, this week's points and
// where the total sits within the current level.
func (s *UserService) Profile(ctx context.Context, userID string) (*model.Profile, error) {
	user, err := s.store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/user: fetching %s: %w", userID, err)
	}

	week, err := s.WeeklyPoints(ctx, userID)
	if err != nil {
		return nil, err
	}

	progress := scoring.LevelProgress(user.TotalPoints)
	return &model.Profile{
		User:           *user,
		WeekPoints:     week,
		PointsInLevel:  progress.PointsInLevel,
		PointsToNext:   progress.PointsToNext,
		NextLevelFloor: progress.NextLevelFloor,
	}, nil
}

// PublicProfile is what anyone may see about userID. It never includes
// the email address.
func (s *UserService) PublicProfile(ctx context.Context, userID string) (*model.PublicProfile, error) {
	user, err := s.store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/user: fetching %s: %w", userID, err)
	}

	week, err := s.WeeklyPoints(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.PublicProfile{
		ID:          user.ID,
		Username:    user.Username,
		Level:       user.Level,
		TotalPoints: user.TotalPoints,
		WeekPoints:  week,
		CreatedAt:   user.CreatedAt,
	}, nil
}

// WeeklyPoints sums the user's completed-task points from Monday through
// today.
func (s *UserService) WeeklyPoints(ctx context.Context, userID string) (int, error) {
	from, to, _ := scoring.Window(scoring.PeriodWeek, s.clock())

	points, err := s.store.Rankings().PointsBetween(ctx, userID, from, to)
	if err != nil {
		return 0, fmt.Errorf("service/user: weekly points for %s: %w", userID, err)
	}
	return points, nil
}
