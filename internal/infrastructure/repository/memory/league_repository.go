package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/topcornerhq/topcorner/internal/domain/league"
)

type LeagueRepository struct {
	mu      sync.RWMutex
	leagues map[string]league.League
}

func NewLeagueRepository() *LeagueRepository {
	return &LeagueRepository{leagues: make(map[string]league.League)}
}

func (r *LeagueRepository) Create(_ context.Context, l league.League) (league.League, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l.CreatedAt = time.Now().UTC()
	l.MemberIDs = append([]string(nil), l.MemberIDs...)
	r.leagues[l.ID] = l
	return cloneLeague(l), nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.leagues[leagueID]
	if !ok {
		return league.League{}, false, nil
	}
	return cloneLeague(l), true, nil
}

func (r *LeagueRepository) GetByCode(_ context.Context, code string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.leagues {
		if l.Code == code {
			return cloneLeague(l), true, nil
		}
	}
	return league.League{}, false, nil
}

func (r *LeagueRepository) ListByMember(_ context.Context, userID string) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []league.League
	for _, l := range r.leagues {
		if l.HasMember(userID) {
			out = append(out, cloneLeague(l))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *LeagueRepository) ListFeatured(_ context.Context, limit int) ([]league.League, error) {
	if limit < 1 {
		return nil, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.leagues))
	for _, l := range r.leagues {
		out = append(out, cloneLeague(l))
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].MemberIDs) != len(out[j].MemberIDs) {
			return len(out[i].MemberIDs) > len(out[j].MemberIDs)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *LeagueRepository) AddMember(_ context.Context, leagueID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.leagues[leagueID]
	if !ok {
		return fmt.Errorf("add league member: league %s not found", leagueID)
	}
	if !l.HasMember(userID) {
		l.MemberIDs = append(l.MemberIDs, userID)
		r.leagues[leagueID] = l
	}
	return nil
}

func cloneLeague(l league.League) league.League {
	l.MemberIDs = append([]string(nil), l.MemberIDs...)
	return l
}
