package usecase

import (
	"context"
	"time"
)

// Fixture status short codes after which a match counts as finished:
// full time, after extra time, after penalty shootout.
var finishedFixtureStatuses = map[string]struct{}{
	"FT":  {},
	"AET": {},
	"PEN": {},
}

// ExternalFixture is one provider-side match, live or final.
type ExternalFixture struct {
	MatchID    int64
	LeagueName string
	HomeTeam   string
	AwayTeam   string
	HomeGoals  int
	AwayGoals  int
	Status     string
	Elapsed    int
	KickoffAt  time.Time
}

// Finished reports whether the fixture has a final score.
func (f ExternalFixture) Finished() bool {
	_, ok := finishedFixtureStatuses[f.Status]
	return ok
}

// FixturesProvider is the outbound port to the football data API.
type FixturesProvider interface {
	FetchLiveFixtures(ctx context.Context) ([]ExternalFixture, error)
	FetchFixturesByDate(ctx context.Context, date string) ([]ExternalFixture, error)
	// FetchFixturesByIDs resolves the given match IDs; matches the
	// provider does not know are simply absent from the result.
	FetchFixturesByIDs(ctx context.Context, matchIDs []int64) ([]ExternalFixture, error)
}
