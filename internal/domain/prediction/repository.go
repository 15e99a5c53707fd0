package prediction

import "context"

// Stats aggregates a user's prediction history for the profile page.
type Stats struct {
	Total     int
	Processed int
	Correct   int
}

// Repository describes prediction persistence needs from use cases.
type Repository interface {
	// Upsert inserts a new pending prediction or overwrites the score
	// guess of the existing (UserID, MatchID) row. It must refuse to
	// touch a processed row.
	Upsert(ctx context.Context, p Prediction) (Prediction, error)
	GetByUserAndMatch(ctx context.Context, userID string, matchID int64) (Prediction, bool, error)
	ListByUser(ctx context.Context, userID string) ([]Prediction, error)
	ListPending(ctx context.Context) ([]Prediction, error)
	// ListRecentByUsers returns the newest predictions of the given
	// users, newest first, capped at limit.
	ListRecentByUsers(ctx context.Context, userIDs []string, limit int) ([]Prediction, error)
	StatsByUser(ctx context.Context, userID string) (Stats, error)
}

// SettlementOutcome reports what a settlement write changed.
type SettlementOutcome struct {
	// Applied is false when the compare-and-swap on status=pending
	// missed, i.e. another run already settled the row.
	Applied       bool
	UserPoints    int
	BadgesAwarded []string
}

// Settler atomically settles one prediction: flip status to processed,
// record the award, adjust the owner's points, and grant badges, all
// in one transaction guarded by a compare-and-swap on the status.
type Settler interface {
	Settle(ctx context.Context, predictionID string, award int) (SettlementOutcome, error)
}
