package model

import "time"

// DateLayout is the calendar-date format used for Task.Date, Checklist.Deadline
// and the ?date= query parameter.
const DateLayout = "2006-01-02"

// TaskType is a catalog entry. Points may be negative (a penalty).
// Rows are seeded at startup and never modified by the API.
type TaskType struct {
	ID       int64  `json:"id"       db:"id"`
	Category string `json:"category" db:"category"`
	Name     string `json:"name"     db:"name"`
	Points   int    `json:"points"   db:"points"`
}

// Task is a user's logged instance of a TaskType on a calendar date.
//
// TaskType is populated by every read path (the stores join task_types),
// so callers can rely on Task.TaskType.Points being present.
type Task struct {
	ID         string    `json:"id"           db:"id"`
	UserID     string    `json:"user_id"      db:"user_id"`
	TaskTypeID int64     `json:"task_type_id" db:"task_type_id"`
	TaskType   *TaskType `json:"task_type"`
	Date       string    `json:"date"         db:"date"`
	Completed  bool      `json:"completed"    db:"completed"`
	CreatedAt  time.Time `json:"created_at"   db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"   db:"updated_at"`
}

// Points returns the point value of the task's type, or 0 if the type
// was not loaded.
func (t *Task) Points() int {
	if t.TaskType == nil {
		return 0
	}
	return t.TaskType.Points
}
