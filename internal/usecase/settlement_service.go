package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"

	"github.com/topcornerhq/topcorner/internal/domain/prediction"
)

// Points awarded per settled prediction, by tie-break priority: an
// exact score beats a correct outcome.
const (
	PointsExactScore     = 50
	PointsCorrectOutcome = 20
	PointsWrongOutcome   = -5
)

const defaultSettlementWorkers = 4

const (
	settleStatusSettled = "settled"
	settleStatusSkipped = "skipped"
	settleStatusFailed  = "failed"
	settleStatusPending = "pending"
)

// SettlementService reconciles pending predictions against finished
// matches: it scores each one, freezes it, and credits the owner's
// points and badges. Items fail independently; one bad row never
// aborts the batch.
type SettlementService struct {
	predictionRepo prediction.Repository
	settler        prediction.Settler
	provider       FixturesProvider
	logger         *slog.Logger
	maxWorkers     int
}

func NewSettlementService(
	predictionRepo prediction.Repository,
	settler prediction.Settler,
	provider FixturesProvider,
	maxWorkers int,
	logger *slog.Logger,
) *SettlementService {
	if maxWorkers < 1 {
		maxWorkers = defaultSettlementWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SettlementService{
		predictionRepo: predictionRepo,
		settler:        settler,
		provider:       provider,
		logger:         logger,
		maxWorkers:     maxWorkers,
	}
}

type SettlementResult struct {
	PendingTotal int              `json:"pending_total"`
	Settled      int              `json:"settled"`
	StillPending int              `json:"still_pending"`
	Skipped      int              `json:"skipped"`
	Failed       int              `json:"failed"`
	WorkerCount  int              `json:"worker_count"`
	Items        []SettlementItem `json:"items"`
}

type SettlementItem struct {
	PredictionID  string   `json:"prediction_id"`
	UserID        string   `json:"user_id"`
	MatchID       int64    `json:"match_id"`
	Award         int      `json:"award,omitempty"`
	Status        string   `json:"status"`
	BadgesAwarded []string `json:"badges_awarded,omitempty"`
	Message       string   `json:"message,omitempty"`
}

// Run settles everything currently pending against the provider's
// finished matches and reports what happened per prediction.
func (s *SettlementService) Run(ctx context.Context) (SettlementResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.Run")
	defer span.End()

	pending, err := s.predictionRepo.ListPending(ctx)
	if err != nil {
		return SettlementResult{}, fmt.Errorf("list pending predictions: %w", err)
	}

	result := SettlementResult{
		PendingTotal: len(pending),
		WorkerCount:  s.maxWorkers,
	}
	if len(pending) == 0 {
		return result, nil
	}

	matchIDs := dedupeMatchIDs(pending)
	fixtures, err := s.provider.FetchFixturesByIDs(ctx, matchIDs)
	if err != nil {
		return SettlementResult{}, fmt.Errorf("fetch fixtures for settlement: %w", err)
	}
	fixtureByID := make(map[int64]ExternalFixture, len(fixtures))
	for _, f := range fixtures {
		fixtureByID[f.MatchID] = f
	}

	items := make(chan SettlementItem, len(pending))

	var settled, stillPending, skipped, failed atomic.Int32

	pool, err := ants.NewPool(s.maxWorkers)
	if err != nil {
		return SettlementResult{}, fmt.Errorf("create settlement worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, p := range pending {
		p := p
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			item := s.settleOne(ctx, p, fixtureByID)
			switch item.Status {
			case settleStatusSettled:
				settled.Add(1)
			case settleStatusPending:
				stillPending.Add(1)
			case settleStatusSkipped:
				skipped.Add(1)
			default:
				failed.Add(1)
			}
			items <- item
		}); err != nil {
			workers.Done()
			return SettlementResult{}, fmt.Errorf("submit settlement task: %w", err)
		}
	}

	workers.Wait()
	close(items)

	for item := range items {
		result.Items = append(result.Items, item)
	}
	sort.SliceStable(result.Items, func(i, j int) bool {
		if result.Items[i].MatchID != result.Items[j].MatchID {
			return result.Items[i].MatchID < result.Items[j].MatchID
		}
		return result.Items[i].UserID < result.Items[j].UserID
	})

	result.Settled = int(settled.Load())
	result.StillPending = int(stillPending.Load())
	result.Skipped = int(skipped.Load())
	result.Failed = int(failed.Load())

	s.logger.InfoContext(ctx, "settlement run finished",
		"pending_total", result.PendingTotal,
		"settled", result.Settled,
		"still_pending", result.StillPending,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)

	return result, nil
}

func (s *SettlementService) settleOne(ctx context.Context, p prediction.Prediction, fixtureByID map[int64]ExternalFixture) SettlementItem {
	item := SettlementItem{
		PredictionID: p.ID,
		UserID:       p.UserID,
		MatchID:      p.MatchID,
	}

	fixture, known := fixtureByID[p.MatchID]
	if !known || !fixture.Finished() {
		item.Status = settleStatusPending
		return item
	}

	award := ScorePrediction(p.HomeScore, p.AwayScore, fixture.HomeGoals, fixture.AwayGoals)
	item.Award = award

	outcome, err := s.settler.Settle(ctx, p.ID, award)
	if err != nil {
		s.logger.WarnContext(ctx, "settle prediction failed",
			"prediction_id", p.ID,
			"match_id", p.MatchID,
			"error", err,
		)
		item.Status = settleStatusFailed
		item.Message = err.Error()
		return item
	}
	if !outcome.Applied {
		// Another run already flipped this row to processed.
		item.Status = settleStatusSkipped
		item.Award = 0
		return item
	}

	item.Status = settleStatusSettled
	item.BadgesAwarded = outcome.BadgesAwarded
	return item
}

type matchOutcome int

const (
	outcomeHomeWin matchOutcome = iota
	outcomeAwayWin
	outcomeDraw
)

func outcomeOf(home, away int) matchOutcome {
	switch {
	case home > away:
		return outcomeHomeWin
	case home < away:
		return outcomeAwayWin
	default:
		return outcomeDraw
	}
}

// ScorePrediction awards points for one guess against the final
// score: +50 for the exact score, +20 for the right outcome, -5
// otherwise. A draw counts as its own outcome class.
func ScorePrediction(predHome, predAway, actualHome, actualAway int) int {
	if predHome == actualHome && predAway == actualAway {
		return PointsExactScore
	}
	if outcomeOf(predHome, predAway) == outcomeOf(actualHome, actualAway) {
		return PointsCorrectOutcome
	}
	return PointsWrongOutcome
}

func dedupeMatchIDs(items []prediction.Prediction) []int64 {
	seen := make(map[int64]struct{}, len(items))
	out := make([]int64, 0, len(items))
	for _, p := range items {
		if _, ok := seen[p.MatchID]; ok {
			continue
		}
		seen[p.MatchID] = struct{}{}
		out = append(out, p.MatchID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
