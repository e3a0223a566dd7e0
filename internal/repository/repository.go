// Package repository declares the storage contracts the service layer
// depends on. internal/repository/sqlite is the production implementation.
package repository

import (
	"context"

	"github.com/sakif/studyquest/internal/model"
)

// TaskFilter narrows TaskRepository.ListByUser. An empty Date lists every date.
type TaskFilter struct {
	Date string
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByGitHubID(ctx context.Context, githubID int64) (*model.User, error)
	// UpdatePoints persists TotalPoints, Level and UpdatedAt.
	UpdatePoints(ctx context.Context, user *model.User) error
}

type TaskTypeRepository interface {
	List(ctx context.Context) ([]model.TaskType, error)
	GetByID(ctx context.Context, id int64) (*model.TaskType, error)
}

type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	// GetForUser returns the task only if it belongs to userID; otherwise
	// apperror.ErrNotFound.
	GetForUser(ctx context.Context, userID, taskID string) (*model.Task, error)
	ListByUser(ctx context.Context, userID string, filter TaskFilter) ([]model.Task, error)
	// SetCompleted persists Completed and UpdatedAt.
	SetCompleted(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id string) error
}

type ChecklistRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Checklist, error)
	ListWithStatus(ctx context.Context, userID string) ([]model.ChecklistStatus, error)
	// GetUserChecklist returns (nil, nil) when the user has never toggled it.
	GetUserChecklist(ctx context.Context, userID string, checklistID int64) (*model.UserChecklist, error)
	SaveUserChecklist(ctx context.Context, uc *model.UserChecklist) error
}

type RankingRepository interface {
	// TopByTotalPoints orders users by total_points DESC, id ASC.
	TopByTotalPoints(ctx context.Context, limit int) ([]model.UserPoints, error)
	// TopByPointsBetween sums completed-task points dated in [from, to]
	// per user, including users with no such tasks, ordered by that sum
	// DESC, id ASC.
	TopByPointsBetween(ctx context.Context, from, to string, limit int) ([]model.UserPoints, error)
	PointsBetween(ctx context.Context, userID, from, to string) (int, error)
}

// Store groups the repositories that can take part in one transaction.
type Store interface {
	Users() UserRepository
	TaskTypes() TaskTypeRepository
	Tasks() TaskRepository
	Checklists() ChecklistRepository
	Rankings() RankingRepository
}

// TxRunner runs fn inside a single transaction. The Store handed to fn is
// bound to that transaction: it commits when fn returns nil and rolls back
// otherwise. fn must not use any Store other than the one it is given.
type TxRunner interface {
	Store
	InTx(ctx context.Context, fn func(tx Store) error) error
}
