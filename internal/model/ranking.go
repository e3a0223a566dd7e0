package model

// RankingEntry is one row of a leaderboard.
//
// Exactly one of Points / TotalPoints is set: TotalPoints for the all-time
// board, Points (the windowed sum) for the weekly and monthly boards.
type RankingEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	Level       int    `json:"level"`
	Points      *int   `json:"points,omitempty"`
	TotalPoints *int   `json:"total_points,omitempty"`
}

// UserPoints is the raw aggregate row the ranking queries return.
type UserPoints struct {
	UserID      string
	Username    string
	Level       int
	TotalPoints int
	Points      int
}
