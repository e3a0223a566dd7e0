package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/studyquest/internal/model"
	"github.com/sakif/studyquest/internal/repository"
)

var _ repository.RankingRepository = (*RankingStore)(nil)

// RankingStore runs the leaderboard aggregates.
//
// Ties are broken by users.id ascending. IDs are xids, which sort by
// creation time, so on equal points the earlier account ranks first.
type RankingStore struct {
	q dbtx
}

// TopByTotalPoints is the all-time board. Points mirrors TotalPoints.
func (s *RankingStore) TopByTotalPoints(ctx context.Context, limit int) ([]model.UserPoints, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT id, username, level, total_points, total_points
		 FROM users
		 ORDER BY total_points DESC, id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: ranking by total points: %w", err)
	}
	return scanUserPoints(rows, limit)
}

// TopByPointsBetween sums completed-task points dated within [from, to].
//
// The date condition lives in the LEFT JOIN rather than a WHERE clause so
// that users without a qualifying task still appear, with 0.
func (s *RankingStore) TopByPointsBetween(ctx context.Context, from, to string, limit int) ([]model.UserPoints, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT u.id, u.username, u.level, u.total_points,
		        COALESCE(SUM(tt.points), 0) AS period_points
		 FROM users u
		 LEFT JOIN tasks t
		        ON t.user_id = u.id
		       AND t.completed = 1
		       AND t.date >= ? AND t.date <= ?
		 LEFT JOIN task_types tt ON tt.id = t.task_type_id
		 GROUP BY u.id, u.username, u.level, u.total_points
		 ORDER BY period_points DESC, u.id ASC
		 LIMIT ?`,
		from, to, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: ranking by points between %s and %s: %w", from, to, err)
	}
	return scanUserPoints(rows, limit)
}

// PointsBetween is the single-user version of TopByPointsBetween.
func (s *RankingStore) PointsBetween(ctx context.Context, userID, from, to string) (int, error) {
	var points int
	err := s.q.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(tt.points), 0)
		 FROM tasks t
		 JOIN task_types tt ON tt.id = t.task_type_id
		 WHERE t.user_id = ? AND t.completed = 1
		   AND t.date >= ? AND t.date <= ?`,
		userID, from, to,
	).Scan(&points)
	if err != nil {
		return 0, fmt.Errorf("sqlite: summing points for user %s: %w", userID, err)
	}
	return points, nil
}

func scanUserPoints(rows *sql.Rows, capacity int) ([]model.UserPoints, error) {
	defer rows.Close()

	out := make([]model.UserPoints, 0, capacity)
	for rows.Next() {
		var up model.UserPoints
		if err := rows.Scan(&up.UserID, &up.Username, &up.Level, &up.TotalPoints, &up.Points); err != nil {
			return nil, fmt.Errorf("sqlite: scanning ranking row: %w", err)
		}
		out = append(out, up)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating ranking rows: %w", err)
	}
	return out, nil
}
