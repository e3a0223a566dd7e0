// Package model defines the data structures used throughout the application.
// JSON tags follow the snake_case shape the web client consumes.
package model

import "time"

// User is a registered account.
//
// Level and TotalPoints are denormalized: every operation that changes
// TotalPoints recomputes Level in the same transaction (scoring.CalculateLevel),
// so the pair is always consistent when read back.
//
// GitHubID is nil for email/password accounts and set for accounts created
// through GitHub sign-in.
type User struct {
	ID           string    `json:"id"           db:"id"`
	Email        string    `json:"email"        db:"email"`
	Username     string    `json:"username"     db:"username"`
	PasswordHash string    `json:"-"            db:"password_hash"`
	GitHubID     *int64    `json:"-"            db:"github_id"`
	Level        int       `json:"level"        db:"level"`
	TotalPoints  int       `json:"total_points" db:"total_points"`
	CreatedAt    time.Time `json:"created_at"   db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"   db:"updated_at"`
}

// Profile is the caller's own profile: the full user plus derived figures.
type Profile struct {
	User
	WeekPoints     int `json:"week_points"`
	PointsInLevel  int `json:"points_in_level"`
	PointsToNext   int `json:"points_to_next_level"`
	NextLevelFloor int `json:"next_level_points"`
}

// PublicProfile is what other users may see. It omits the email address.
type PublicProfile struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Level       int       `json:"level"`
	TotalPoints int       `json:"total_points"`
	WeekPoints  int       `json:"week_points"`
	CreatedAt   time.Time `json:"created_at"`
}
