package apifootball

import (
	"time"

	"github.com/topcornerhq/topcorner/internal/usecase"
)

// Wire shapes for the /fixtures endpoint. Goals and elapsed minutes
// are null until kickoff, hence the pointers.

type fixturesEnvelope struct {
	Response []fixtureItem `json:"response"`
}

type fixtureItem struct {
	Fixture fixtureCore  `json:"fixture"`
	League  fixtureOrg   `json:"league"`
	Teams   fixtureTeams `json:"teams"`
	Goals   fixtureGoals `json:"goals"`
}

type fixtureCore struct {
	ID     int64         `json:"id"`
	Date   string        `json:"date"`
	Status fixtureStatus `json:"status"`
}

type fixtureStatus struct {
	Short   string `json:"short"`
	Elapsed *int   `json:"elapsed"`
}

type fixtureOrg struct {
	Name string `json:"name"`
}

type fixtureTeams struct {
	Home fixtureTeam `json:"home"`
	Away fixtureTeam `json:"away"`
}

type fixtureTeam struct {
	Name string `json:"name"`
}

type fixtureGoals struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

func mapFixtures(items []fixtureItem) []usecase.ExternalFixture {
	out := make([]usecase.ExternalFixture, 0, len(items))
	for _, item := range items {
		if item.Fixture.ID <= 0 {
			continue
		}
		out = append(out, usecase.ExternalFixture{
			MatchID:    item.Fixture.ID,
			LeagueName: item.League.Name,
			HomeTeam:   item.Teams.Home.Name,
			AwayTeam:   item.Teams.Away.Name,
			HomeGoals:  intOrZero(item.Goals.Home),
			AwayGoals:  intOrZero(item.Goals.Away),
			Status:     item.Fixture.Status.Short,
			Elapsed:    intOrZero(item.Fixture.Status.Elapsed),
			KickoffAt:  parseKickoff(item.Fixture.Date),
		})
	}
	return out
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func parseKickoff(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return parsed.UTC()
}
