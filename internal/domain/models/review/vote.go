package review

import "time"

// Vote is one reviewer's like on a screen.
type Vote struct {
	ID        string    `json:"id" db:"id"`
	ScreenID  string    `json:"screen_id" db:"screen_id"`
	VoterName string    `json:"voter_name" db:"voter_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ToggleResult reports the state after a vote toggle.
type ToggleResult struct {
	Voted bool  `json:"voted"`
	Vote  *Vote `json:"vote,omitempty"`
}

// ScreenTally is one bar of the vote summary.
type ScreenTally struct {
	ScreenID   string   `json:"screen_id"`
	ScreenName string   `json:"screen_name"`
	Count      int      `json:"count"`
	Percentage float64  `json:"percentage"`
	Voters     []string `json:"voters"`
}

// VoteSummary aggregates votes across a project's screens.
type VoteSummary struct {
	TotalVotes   int           `json:"total_votes"`
	UniqueVoters []string      `json:"unique_voters"`
	Screens      []ScreenTally `json:"screens"`
}
