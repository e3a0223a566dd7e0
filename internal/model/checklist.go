package model

import "time"

// Checklist is a shared, ordered exam-prep milestone. Not user-owned.
// Deadline is a YYYY-MM-DD date or nil.
type Checklist struct {
	ID          int64   `json:"id"          db:"id"`
	Title       string  `json:"title"       db:"title"`
	Description string  `json:"description" db:"description"`
	Deadline    *string `json:"deadline"    db:"deadline"`
	Order       int     `json:"order"       db:"sort_order"`
}

// UserChecklist records one user's completion state for one Checklist.
// A missing row means "not completed".
type UserChecklist struct {
	UserID      string     `json:"user_id"      db:"user_id"`
	ChecklistID int64      `json:"checklist_id" db:"checklist_id"`
	Completed   bool       `json:"completed"    db:"completed"`
	CompletedAt *time.Time `json:"completed_at" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"   db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"   db:"updated_at"`
}

// ChecklistStatus is a Checklist as seen by a particular user.
type ChecklistStatus struct {
	Checklist
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
}
