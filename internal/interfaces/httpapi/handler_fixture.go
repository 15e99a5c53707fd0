package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/topcornerhq/topcorner/internal/usecase"
)

type fixtureDTO struct {
	MatchID   int64  `json:"match_id"`
	League    string `json:"league"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeGoals int    `json:"home_goals"`
	AwayGoals int    `json:"away_goals"`
	Status    string `json:"status"`
	Elapsed   int    `json:"elapsed,omitempty"`
	KickoffAt string `json:"kickoff_at,omitempty"`
}

func (h *Handler) ListLiveMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLiveMatches")
	defer span.End()

	fixtures, err := h.fixtureService.ListLive(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list live matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixturesToDTO(fixtures))
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSchedule")
	defer span.End()

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	fixtures, err := h.fixtureService.ListByDate(ctx, date)
	if err != nil {
		h.logger.WarnContext(ctx, "get schedule failed", "date", date, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixturesToDTO(fixtures))
}

func fixturesToDTO(fixtures []usecase.ExternalFixture) []fixtureDTO {
	out := make([]fixtureDTO, 0, len(fixtures))
	for _, f := range fixtures {
		kickoff := ""
		if !f.KickoffAt.IsZero() {
			kickoff = f.KickoffAt.UTC().Format(time.RFC3339)
		}
		out = append(out, fixtureDTO{
			MatchID:   f.MatchID,
			League:    f.LeagueName,
			HomeTeam:  f.HomeTeam,
			AwayTeam:  f.AwayTeam,
			HomeGoals: f.HomeGoals,
			AwayGoals: f.AwayGoals,
			Status:    f.Status,
			Elapsed:   f.Elapsed,
			KickoffAt: kickoff,
		})
	}
	return out
}
