package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/topcornerhq/topcorner/internal/domain/league"
	"github.com/topcornerhq/topcorner/internal/domain/prediction"
	"github.com/topcornerhq/topcorner/internal/domain/user"
)

// In-memory stand-ins for the repository ports, shared by the service
// tests in this package.

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]user.User
}

func newStubUserRepo(seed ...user.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]user.User)}
	for _, u := range seed {
		r.users[u.ID] = u
	}
	return r
}

func (r *stubUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return u, nil
}

func (r *stubUserRepo) GetByID(_ context.Context, userID string) (user.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	return u, ok, nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (user.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, true, nil
		}
	}
	return user.User{}, false, nil
}

func (r *stubUserRepo) GetByUsername(_ context.Context, username string) (user.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, true, nil
		}
	}
	return user.User{}, false, nil
}

func (r *stubUserRepo) GetByIDs(_ context.Context, userIDs []string) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]user.User, 0, len(userIDs))
	for _, id := range userIDs {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, userID string, update user.ProfileUpdate) (user.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return user.User{}, false, nil
	}
	u.FullName = update.FullName
	u.Username = update.Username
	u.Email = update.Email
	r.users[userID] = u
	return u, true, nil
}

func (r *stubUserRepo) CountWithMorePoints(_ context.Context, points int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, u := range r.users {
		if u.Points > points {
			count++
		}
	}
	return count, nil
}

type stubPredictionRepo struct {
	mu          sync.Mutex
	predictions map[string]prediction.Prediction
}

func newStubPredictionRepo(seed ...prediction.Prediction) *stubPredictionRepo {
	r := &stubPredictionRepo{predictions: make(map[string]prediction.Prediction)}
	for _, p := range seed {
		r.predictions[p.ID] = p
	}
	return r
}

func (r *stubPredictionRepo) Upsert(_ context.Context, p prediction.Prediction) (prediction.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.predictions {
		if existing.UserID == p.UserID && existing.MatchID == p.MatchID {
			if existing.Status == prediction.StatusProcessed {
				return prediction.Prediction{}, fmt.Errorf("prediction %s is processed", id)
			}
			existing.HomeScore = p.HomeScore
			existing.AwayScore = p.AwayScore
			r.predictions[id] = existing
			return existing, nil
		}
	}
	r.predictions[p.ID] = p
	return p, nil
}

func (r *stubPredictionRepo) GetByUserAndMatch(_ context.Context, userID string, matchID int64) (prediction.Prediction, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.predictions {
		if p.UserID == userID && p.MatchID == matchID {
			return p, true, nil
		}
	}
	return prediction.Prediction{}, false, nil
}

func (r *stubPredictionRepo) ListByUser(_ context.Context, userID string) ([]prediction.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []prediction.Prediction
	for _, p := range r.predictions {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubPredictionRepo) ListPending(_ context.Context) ([]prediction.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []prediction.Prediction
	for _, p := range r.predictions {
		if p.Status == prediction.StatusPending {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubPredictionRepo) ListRecentByUsers(_ context.Context, userIDs []string, limit int) ([]prediction.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = struct{}{}
	}
	var out []prediction.Prediction
	for _, p := range r.predictions {
		if _, ok := wanted[p.UserID]; ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubPredictionRepo) StatsByUser(_ context.Context, userID string) (prediction.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
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

type stubLeagueRepo struct {
	mu      sync.Mutex
	leagues map[string]league.League
}

func newStubLeagueRepo(seed ...league.League) *stubLeagueRepo {
	r := &stubLeagueRepo{leagues: make(map[string]league.League)}
	for _, l := range seed {
		r.leagues[l.ID] = l
	}
	return r
}

func (r *stubLeagueRepo) Create(_ context.Context, l league.League) (league.League, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leagues[l.ID] = l
	return l, nil
}

func (r *stubLeagueRepo) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.leagues[leagueID]
	return l, ok, nil
}

func (r *stubLeagueRepo) GetByCode(_ context.Context, code string) (league.League, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.leagues {
		if l.Code == code {
			return l, true, nil
		}
	}
	return league.League{}, false, nil
}

func (r *stubLeagueRepo) ListByMember(_ context.Context, userID string) ([]league.League, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []league.League
	for _, l := range r.leagues {
		if l.HasMember(userID) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubLeagueRepo) ListFeatured(_ context.Context, limit int) ([]league.League, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]league.League, 0, len(r.leagues))
	for _, l := range r.leagues {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return len(out[i].MemberIDs) > len(out[j].MemberIDs) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubLeagueRepo) AddMember(_ context.Context, leagueID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.leagues[leagueID]
	if !ok {
		return fmt.Errorf("league %s not found", leagueID)
	}
	if !l.HasMember(userID) {
		l.MemberIDs = append(l.MemberIDs, userID)
		r.leagues[leagueID] = l
	}
	return nil
}

type stubProvider struct {
	live     []ExternalFixture
	byDate   map[string][]ExternalFixture
	byID     map[int64]ExternalFixture
	err      error
	liveHits int
}

func (p *stubProvider) FetchLiveFixtures(_ context.Context) ([]ExternalFixture, error) {
	p.liveHits++
	return p.live, p.err
}

func (p *stubProvider) FetchFixturesByDate(_ context.Context, date string) ([]ExternalFixture, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.byDate[date], nil
}

func (p *stubProvider) FetchFixturesByIDs(_ context.Context, matchIDs []int64) ([]ExternalFixture, error) {
	if p.err != nil {
		return nil, p.err
	}
	out := make([]ExternalFixture, 0, len(matchIDs))
	for _, id := range matchIDs {
		if f, ok := p.byID[id]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

type stubIssuer struct {
	token string
	err   error
}

func (i stubIssuer) IssueToken(user.Principal) (string, error) {
	return i.token, i.err
}

// fixedIDGen hands out sequential IDs and a fixed sequence of league
// codes so tests can assert on them.
type fixedIDGen struct {
	mu    sync.Mutex
	next  int
	codes []string
	code  int
}

func (g *fixedIDGen) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("id-%d", g.next)
}

func (g *fixedIDGen) NewLeagueCode() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.code < len(g.codes) {
		c := g.codes[g.code]
		g.code++
		return c, nil
	}
	g.code++
	return fmt.Sprintf("CODE%02d", g.code), nil
}
