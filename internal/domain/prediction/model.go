package prediction

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	// StatusPending marks a guess not yet reconciled against a
	// finished match. The only transition is pending -> processed;
	// processed is terminal.
	StatusPending   Status = "pending"
	StatusProcessed Status = "processed"
)

// Prediction is one user's score guess for one fixture. At most one
// prediction exists per (UserID, MatchID) pair.
type Prediction struct {
	ID        string
	UserID    string
	MatchID   int64
	HomeTeam  string
	AwayTeam  string
	HomeScore int
	AwayScore int
	Points    int
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Prediction) Validate() error {
	if strings.TrimSpace(p.UserID) == "" {
		return fmt.Errorf("user id is required")
	}
	if p.MatchID <= 0 {
		return fmt.Errorf("match id must be greater than zero")
	}
	if strings.TrimSpace(p.HomeTeam) == "" || strings.TrimSpace(p.AwayTeam) == "" {
		return fmt.Errorf("home and away team names are required")
	}
	if p.HomeScore < 0 || p.AwayScore < 0 {
		return fmt.Errorf("predicted scores must not be negative")
	}
	return nil
}
