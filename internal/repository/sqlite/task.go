package sqlite

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/studyquest/internal/apperror"
	"github.com/sakif/studyquest/internal/model"
	"github.com/sakif/studyquest/internal/repository"
)

var (
	_ repository.TaskRepository     = (*TaskStore)(nil)
	_ repository.TaskTypeRepository = (*TaskTypeStore)(nil)
)

// TaskTypeStore reads the seeded task_types catalog.
type TaskTypeStore struct {
	q dbtx
}

// List returns the catalog ordered by id, which is seed order.
func (s *TaskTypeStore) List(ctx context.Context) ([]model.TaskType, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT id, category, name, points FROM task_types ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing task types: %w", err)
	}
	defer rows.Close()

	types := make([]model.TaskType, 0, 16)
	for rows.Next() {
		var tt model.TaskType
		if err := rows.Scan(&tt.ID, &tt.Category, &tt.Name, &tt.Points); err != nil {
			return nil, fmt.Errorf("sqlite: scanning task type row: %w", err)
		}
		types = append(types, tt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating task types: %w", err)
	}
	return types, nil
}

func (s *TaskTypeStore) GetByID(ctx context.Context, id int64) (*model.TaskType, error) {
	var tt model.TaskType
	err := s.q.QueryRowContext(ctx,
		`SELECT id, category, name, points FROM task_types WHERE id = ?`, id,
	).Scan(&tt.ID, &tt.Category, &tt.Name, &tt.Points)
	if err != nil {
		return nil, notFoundOr(err, "task type", strconv.FormatInt(id, 10), "getting")
	}
	return &tt, nil
}

// TaskStore reads and writes the tasks table. Every read joins task_types
// so Task.TaskType is always populated.
type TaskStore struct {
	q dbtx
}

const taskSelect = `
	SELECT t.id, t.user_id, t.task_type_id, t.date, t.completed, t.created_at, t.updated_at,
	       tt.id, tt.category, tt.name, tt.points
	FROM tasks t
	JOIN task_types tt ON tt.id = t.task_type_id`

func scanTask(scanner interface{ Scan(...any) error }) (*model.Task, error) {
	var t model.Task
	var tt model.TaskType
	err := scanner.Scan(
		&t.ID, &t.UserID, &t.TaskTypeID, &t.Date, &t.Completed, &t.CreatedAt, &t.UpdatedAt,
		&tt.ID, &tt.Category, &tt.Name, &tt.Points,
	)
	if err != nil {
		return nil, err
	}
	t.TaskType = &tt
	return &t, nil
}

// Create inserts a task. ID and timestamps are assigned in place; the
// caller is expected to have loaded task.TaskType already.
func (s *TaskStore) Create(ctx context.Context, task *model.Task) error {
	now := time.Now()
	task.ID = xid.New().String()
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := s.q.ExecContext(ctx,
		`INSERT INTO tasks (id, user_id, task_type_id, date, completed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		task.ID,
		task.UserID,
		task.TaskTypeID,
		task.Date,
		task.Completed,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating task: %w", err)
	}
	return nil
}

// GetForUser fetches a task only if userID owns it. Someone else's task is
// reported as not found, the same as a missing one.
func (s *TaskStore) GetForUser(ctx context.Context, userID, taskID string) (*model.Task, error) {
	t, err := scanTask(s.q.QueryRowContext(ctx,
		taskSelect+` WHERE t.id = ? AND t.user_id = ?`, taskID, userID,
	))
	if err != nil {
		return nil, notFoundOr(err, "task", taskID, "getting")
	}
	return t, nil
}

// ListByUser returns the user's tasks, newest date first, then by creation.
func (s *TaskStore) ListByUser(ctx context.Context, userID string, filter repository.TaskFilter) ([]model.Task, error) {
	query := taskSelect + ` WHERE t.user_id = ?`
	args := []any{userID}
	if filter.Date != "" {
		query += ` AND t.date = ?`
		args = append(args, filter.Date)
	}
	query += ` ORDER BY t.date DESC, t.created_at ASC, t.id ASC`

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tasks for user %s: %w", userID, err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning task row: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tasks: %w", err)
	}
	return tasks, nil
}

// SetCompleted writes the completed flag and touches updated_at.
func (s *TaskStore) SetCompleted(ctx context.Context, task *model.Task) error {
	task.UpdatedAt = time.Now()

	result, err := s.q.ExecContext(ctx,
		`UPDATE tasks SET completed = ?, updated_at = ? WHERE id = ?`,
		task.Completed,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating task %s: %w", task.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("task", task.ID)
	}
	return nil
}

func (s *TaskStore) Delete(ctx context.Context, id string) error {
	result, err := s.q.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting task %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("task", id)
	}
	return nil
}
