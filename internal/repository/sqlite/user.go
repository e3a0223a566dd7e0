package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/studyquest/internal/apperror"
	"github.com/sakif/studyquest/internal/model"
	"github.com/sakif/studyquest/internal/repository"
)

// compile-time check that *UserStore implements repository.UserRepository
var _ repository.UserRepository = (*UserStore)(nil)

// UserStore reads and writes the users table.
type UserStore struct {
	q dbtx
}

const userCols = `id, email, username, password_hash, github_id, level, total_points, created_at, updated_at`

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	var githubID sql.NullInt64
	err := scanner.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.PasswordHash,
		&githubID,
		&u.Level,
		&u.TotalPoints,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if githubID.Valid {
		u.GitHubID = &githubID.Int64
	}
	return &u, nil
}

// Create inserts a new user, assigning ID and timestamps in place.
//
// Level defaults to 1 when unset. A duplicate email, username or GitHub ID
// comes back as apperror.Conflict naming the column.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Level < 1 {
		user.Level = 1
	}

	var githubID sql.NullInt64
	if user.GitHubID != nil {
		githubID = sql.NullInt64{Int64: *user.GitHubID, Valid: true}
	}

	_, err := s.q.ExecContext(ctx,
		`INSERT INTO users (`+userCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.Username,
		user.PasswordHash,
		githubID,
		user.Level,
		user.TotalPoints,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if col := uniqueViolation(err); col != "" {
			return apperror.Conflict(col)
		}
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
	}

	return nil
}

// GetUserByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (s *UserStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	u, err := scanUser(s.q.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE id = ?`, id,
	))
	if err != nil {
		return nil, notFoundOr(err, "user", id, "getting")
	}
	return u, nil
}

// GetByEmail looks a user up by (already normalized) email address.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(s.q.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE email = ?`, email,
	))
	if err != nil {
		return nil, notFoundOr(err, "user", email, "getting")
	}
	return u, nil
}

// GetByGitHubID looks up the account linked to a GitHub user.
func (s *UserStore) GetByGitHubID(ctx context.Context, githubID int64) (*model.User, error) {
	u, err := scanUser(s.q.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE github_id = ?`, githubID,
	))
	if err != nil {
		return nil, notFoundOr(err, "user", strconv.FormatInt(githubID, 10), "getting")
	}
	return u, nil
}

// UpdatePoints writes total_points and level, and touches updated_at.
func (s *UserStore) UpdatePoints(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()

	result, err := s.q.ExecContext(ctx,
		`UPDATE users SET total_points = ?, level = ?, updated_at = ? WHERE id = ?`,
		user.TotalPoints,
		user.Level,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating points for user %s: %w", user.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", user.ID)
	}

	return nil
}
