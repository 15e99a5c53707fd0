package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/topcornerhq/topcorner/internal/domain/prediction"
)

type PredictionRepository struct {
	mu          sync.RWMutex
	predictions map[string]prediction.Prediction
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{predictions: make(map[string]prediction.Prediction)}
}

func (r *PredictionRepository) Upsert(_ context.Context, p prediction.Prediction) (prediction.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for id, existing := range r.predictions {
		if existing.UserID != p.UserID || existing.MatchID != p.MatchID {
			continue
		}
		if existing.Status == prediction.StatusProcessed {
			return prediction.Prediction{}, fmt.Errorf("upsert prediction: row is already processed")
		}
		existing.HomeTeam = p.HomeTeam
		existing.AwayTeam = p.AwayTeam
		existing.HomeScore = p.HomeScore
		existing.AwayScore = p.AwayScore
		existing.UpdatedAt = now
		r.predictions[id] = existing
		return existing, nil
	}

	p.CreatedAt = now
	p.UpdatedAt = now
	r.predictions[p.ID] = p
	return p, nil
}

func (r *PredictionRepository) GetByUserAndMatch(_ context.Context, userID string, matchID int64) (prediction.Prediction, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.predictions {
		if p.UserID == userID && p.MatchID == matchID {
			return p, true, nil
		}
	}
	return prediction.Prediction{}, false, nil
}

func (r *PredictionRepository) ListByUser(_ context.Context, userID string) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []prediction.Prediction
	for _, p := range r.predictions {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *PredictionRepository) ListPending(_ context.Context) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []prediction.Prediction
	for _, p := range r.predictions {
		if p.Status == prediction.StatusPending {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MatchID != out[j].MatchID {
			return out[i].MatchID < out[j].MatchID
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *PredictionRepository) ListRecentByUsers(_ context.Context, userIDs []string, limit int) ([]prediction.Prediction, error) {
	if len(userIDs) == 0 || limit < 1 {
		return nil, nil
	}

	wanted := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []prediction.Prediction
	for _, p := range r.predictions {
		if _, ok := wanted[p.UserID]; ok {
			out = append(out, p)
		}
	}
	sortNewestFirst(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *PredictionRepository) StatsByUser(_ context.Context, userID string) (prediction.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stats prediction.Stats
	for _, p := range r.predictions {
		if p.UserID != userID {
			continue
		}
		stats.Total++
		if p.Status == prediction.StatusProcessed {
			stats.Processed++
			if p.Points > 0 {
				stats.Correct++
			}
		}
	}
	return stats, nil
}

func (r *PredictionRepository) get(predictionID string) (prediction.Prediction, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.predictions[predictionID]
	return p, ok
}

// claim flips one pending prediction to processed under the write
// lock; the settler's compare-and-swap.
func (r *PredictionRepository) claim(predictionID string, award int) (prediction.Prediction, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.predictions[predictionID]
	if !ok || p.Status != prediction.StatusPending {
		return prediction.Prediction{}, false
	}
	p.Status = prediction.StatusProcessed
	p.Points = award
	p.UpdatedAt = time.Now().UTC()
	r.predictions[predictionID] = p
	return p, true
}

func sortNewestFirst(items []prediction.Prediction) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
}
