package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/studyquest/internal/apperror"
	"github.com/sakif/studyquest/internal/model"
	"github.com/sakif/studyquest/internal/repository"
	"github.com/sakif/studyquest/internal/scoring"
)

// TaskService manages a user's logged tasks and the points they carry.
type TaskService struct {
	store  repository.TxRunner
	logger *slog.Logger
}

func NewTaskService(store repository.TxRunner, logger *slog.Logger) *TaskService {
	return &TaskService{store: store, logger: logger}
}

// CreateTaskInput is the body of POST /api/tasks.
type CreateTaskInput struct {
	TaskTypeID int64  `json:"task_type_id"`
	Date       string `json:"date"`
}

// ToggleResult is the task after a completion toggle together with the
// owner's updated point total and level.
type ToggleResult struct {
	Task *model.Task `json:"task"`
	User *model.User `json:"user"`
}

// ListTaskTypes returns the catalog in seed order.
func (s *TaskService) ListTaskTypes(ctx context.Context) ([]model.TaskType, error) {
	types, err := s.store.TaskTypes().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/task: listing task types: %w", err)
	}
	return types, nil
}

// List returns the caller's tasks, optionally only those on date.
func (s *TaskService) List(ctx context.Context, userID, date string) ([]model.Task, error) {
	var filter repository.TaskFilter
	if date != "" {
		d, err := parseDate("date", date)
		if err != nil {
			return nil, err
		}
		filter.Date = d
	}

	tasks, err := s.store.Tasks().ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("service/task: listing tasks: %w", err)
	}
	return tasks, nil
}

// Create logs a new, not yet completed task. Creating a task never changes
// points; only completing it does.
func (s *TaskService) Create(ctx context.Context, userID string, in CreateTaskInput) (*model.Task, error) {
	if in.TaskTypeID == 0 {
		return nil, apperror.ValidationFailed("task_type_id", "task_type_id is required")
	}
	if in.Date == "" {
		return nil, apperror.ValidationFailed("date", "date is required")
	}
	date, err := parseDate("date", in.Date)
	if err != nil {
		return nil, err
	}

	taskType, err := s.store.TaskTypes().GetByID(ctx, in.TaskTypeID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.ValidationFailed("task_type_id",
				fmt.Sprintf("task type %d does not exist", in.TaskTypeID))
		}
		return nil, fmt.Errorf("service/task: loading task type %d: %w", in.TaskTypeID, err)
	}

	task := &model.Task{
		UserID:     userID,
		TaskTypeID: taskType.ID,
		TaskType:   taskType,
		Date:       date,
	}
	if err := s.store.Tasks().Create(ctx, task); err != nil {
		return nil, fmt.Errorf("service/task: creating task: %w", err)
	}

	s.logger.Info("task created",
		slog.String("userID", userID),
		slog.String("taskID", task.ID),
		slog.String("taskType", taskType.Name),
		slog.String("date", date),
	)
	return task, nil
}

// ToggleComplete flips the task's completed flag and moves its points
// onto or off the owner's total, all in one transaction.
//
// Toggling twice restores both the flag and the total.
func (s *TaskService) ToggleComplete(ctx context.Context, userID, taskID string) (*ToggleResult, error) {
	var result ToggleResult

	err := s.store.InTx(ctx, func(tx repository.Store) error {
		task, err := tx.Tasks().GetForUser(ctx, userID, taskID)
		if err != nil {
			return err
		}
		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			return err
		}

		task.Completed = !task.Completed
		scoring.ApplyCompletionToggle(user, task.Points(), task.Completed)

		if err := tx.Tasks().SetCompleted(ctx, task); err != nil {
			return err
		}
		if err := tx.Users().UpdatePoints(ctx, user); err != nil {
			return err
		}

		result = ToggleResult{Task: task, User: user}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("service/task: toggling task %s: %w", taskID, err)
	}

	s.logger.Info("task toggled",
		slog.String("userID", userID),
		slog.String("taskID", taskID),
		slog.Bool("completed", result.Task.Completed),
		slog.Int("totalPoints", result.User.TotalPoints),
		slog.Int("level", result.User.Level),
	)
	return &result, nil
}

// Delete removes the caller's task. A completed task's points are taken
// back off the owner's total first, in the same transaction.
func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {
	var reversed bool

	err := s.store.InTx(ctx, func(tx repository.Store) error {
		task, err := tx.Tasks().GetForUser(ctx, userID, taskID)
		if err != nil {
			return err
		}

		if task.Completed {
			user, err := tx.Users().GetUserByID(ctx, userID)
			if err != nil {
				return err
			}
			if reversed = scoring.ReverseOnDelete(user, task); reversed {
				if err := tx.Users().UpdatePoints(ctx, user); err != nil {
					return err
				}
			}
		}

		return tx.Tasks().Delete(ctx, task.ID)
	})
	if err != nil {
		return fmt.Errorf("service/task: deleting task %s: %w", taskID, err)
	}

	s.logger.Info("task deleted",
		slog.String("userID", userID),
		slog.String("taskID", taskID),
		slog.Bool("pointsReversed", reversed),
	)
	return nil
}
