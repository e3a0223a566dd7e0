package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sakif/studyquest/internal/model"
	"github.com/sakif/studyquest/internal/repository"
)

var _ repository.ChecklistRepository = (*ChecklistStore)(nil)

// ChecklistStore reads the shared checklists and writes per-user state.
type ChecklistStore struct {
	q dbtx
}

func (s *ChecklistStore) GetByID(ctx context.Context, id int64) (*model.Checklist, error) {
	var c model.Checklist
	var deadline sql.NullString
	err := s.q.QueryRowContext(ctx,
		`SELECT id, title, description, deadline, sort_order FROM checklists WHERE id = ?`, id,
	).Scan(&c.ID, &c.Title, &c.Description, &deadline, &c.Order)
	if err != nil {
		return nil, notFoundOr(err, "checklist", strconv.FormatInt(id, 10), "getting")
	}
	if deadline.Valid {
		c.Deadline = &deadline.String
	}
	return &c, nil
}

// ListWithStatus returns every checklist in order, each marked with the
// user's completion state. Checklists the user never toggled come back as
// not completed.
func (s *ChecklistStore) ListWithStatus(ctx context.Context, userID string) ([]model.ChecklistStatus, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT c.id, c.title, c.description, c.deadline, c.sort_order,
		        COALESCE(uc.completed, 0), uc.completed_at
		 FROM checklists c
		 LEFT JOIN user_checklists uc
		        ON uc.checklist_id = c.id AND uc.user_id = ?
		 ORDER BY c.sort_order ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing checklists for user %s: %w", userID, err)
	}
	defer rows.Close()

	list := make([]model.ChecklistStatus, 0, 8)
	for rows.Next() {
		var cs model.ChecklistStatus
		var deadline sql.NullString
		var completedAt sql.NullTime
		if err := rows.Scan(
			&cs.ID, &cs.Title, &cs.Description, &deadline, &cs.Order,
			&cs.Completed, &completedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning checklist row: %w", err)
		}
		if deadline.Valid {
			cs.Deadline = &deadline.String
		}
		if completedAt.Valid {
			cs.CompletedAt = &completedAt.Time
		}
		list = append(list, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating checklists: %w", err)
	}
	return list, nil
}

// GetUserChecklist returns (nil, nil) if no row exists yet.
func (s *ChecklistStore) GetUserChecklist(ctx context.Context, userID string, checklistID int64) (*model.UserChecklist, error) {
	var uc model.UserChecklist
	var completedAt sql.NullTime
	err := s.q.QueryRowContext(ctx,
		`SELECT user_id, checklist_id, completed, completed_at, created_at, updated_at
		 FROM user_checklists WHERE user_id = ? AND checklist_id = ?`,
		userID, checklistID,
	).Scan(&uc.UserID, &uc.ChecklistID, &uc.Completed, &completedAt, &uc.CreatedAt, &uc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting user checklist (%s, %d): %w", userID, checklistID, err)
	}
	if completedAt.Valid {
		uc.CompletedAt = &completedAt.Time
	}
	return &uc, nil
}

// SaveUserChecklist inserts the row on first use and updates it afterwards.
// created_at is kept from the first insert; updated_at is always touched.
func (s *ChecklistStore) SaveUserChecklist(ctx context.Context, uc *model.UserChecklist) error {
	now := time.Now()
	if uc.CreatedAt.IsZero() {
		uc.CreatedAt = now
	}
	uc.UpdatedAt = now

	var completedAt sql.NullTime
	if uc.CompletedAt != nil {
		completedAt = sql.NullTime{Time: *uc.CompletedAt, Valid: true}
	}

	_, err := s.q.ExecContext(ctx,
		`INSERT INTO user_checklists (user_id, checklist_id, completed, completed_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, checklist_id) DO UPDATE SET
		     completed    = excluded.completed,
		     completed_at = excluded.completed_at,
		     updated_at   = excluded.updated_at`,
		uc.UserID,
		uc.ChecklistID,
		uc.Completed,
		completedAt,
		uc.CreatedAt,
		uc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: saving user checklist (%s, %d): %w", uc.UserID, uc.ChecklistID, err)
	}
	return nil
}
