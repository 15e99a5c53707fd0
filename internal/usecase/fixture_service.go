package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/topcornerhq/topcorner/internal/platform/cache"
)

// FixtureService proxies the fixtures provider with a short TTL cache
// so bursts of dashboard traffic do not burn provider quota.
type FixtureService struct {
	provider FixturesProvider
	store    *cache.Store
}

func NewFixtureService(provider FixturesProvider, store *cache.Store) *FixtureService {
	return &FixtureService{
		provider: provider,
		store:    store,
	}
}

func (s *FixtureService) ListLive(ctx context.Context) ([]ExternalFixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.ListLive")
	defer span.End()

	return s.cached(ctx, "matches:live", func(ctx context.Context) ([]ExternalFixture, error) {
		return s.provider.FetchLiveFixtures(ctx)
	})
}

func (s *FixtureService) ListByDate(ctx context.Context, date string) ([]ExternalFixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.ListByDate")
	defer span.End()

	date = strings.TrimSpace(date)
	if date == "" {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("%w: date must be formatted YYYY-MM-DD", ErrInvalidInput)
	}

	return s.cached(ctx, "schedule:"+date, func(ctx context.Context) ([]ExternalFixture, error) {
		return s.provider.FetchFixturesByDate(ctx, date)
	})
}

func (s *FixtureService) cached(ctx context.Context, key string, load func(context.Context) ([]ExternalFixture, error)) ([]ExternalFixture, error) {
	if s.store == nil {
		return load(ctx)
	}

	value, err := s.store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	if err != nil {
		return nil, err
	}

	fixtures, ok := value.([]ExternalFixture)
	if !ok {
		return nil, fmt.Errorf("unexpected cache payload type %T for key %s", value, key)
	}
	return fixtures, nil
}
