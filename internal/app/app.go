package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/topcornerhq/topcorner/external/apifootball"
	"github.com/topcornerhq/topcorner/internal/config"
	"github.com/topcornerhq/topcorner/internal/domain/league"
	"github.com/topcornerhq/topcorner/internal/domain/prediction"
	"github.com/topcornerhq/topcorner/internal/domain/user"
	"github.com/topcornerhq/topcorner/internal/infrastructure/repository/memory"
	"github.com/topcornerhq/topcorner/internal/infrastructure/repository/postgres"
	"github.com/topcornerhq/topcorner/internal/infrastructure/token"
	"github.com/topcornerhq/topcorner/internal/interfaces/httpapi"
	"github.com/topcornerhq/topcorner/internal/platform/cache"
	idgen "github.com/topcornerhq/topcorner/internal/platform/id"
	"github.com/topcornerhq/topcorner/internal/platform/logging"
	"github.com/topcornerhq/topcorner/internal/platform/resilience"
	"github.com/topcornerhq/topcorner/internal/usecase"
)

// NewHTTPServer assembles the full service: storage, token manager,
// fixtures provider, use cases, and the HTTP router. The returned
// cleanup releases storage handles and must run after the server
// stops.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *slog.Logger) (*http.Server, func(context.Context) error, error) {
	appLogger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(appLogger)

	var (
		userRepo       user.Repository
		predictionRepo prediction.Repository
		leagueRepo     league.Repository
		settler        prediction.Settler
		cleanup        = func(context.Context) error { return nil }
	)

	if cfg.UseMemoryStorage() {
		users := memory.NewUserRepository()
		predictions := memory.NewPredictionRepository()
		leagues := memory.NewLeagueRepository()

		if cfg.SeedDemoData {
			if err := memory.Seed(ctx, users, leagues); err != nil {
				return nil, nil, fmt.Errorf("seed demo data: %w", err)
			}
			logger.Info("demo data seeded")
		}

		userRepo = users
		predictionRepo = predictions
		leagueRepo = leagues
		settler = memory.NewPredictionSettler(predictions, users)
		logger.Info("storage backend", "kind", "memory")
	} else {
		db, err := openDB(cfg)
		if err != nil {
			return nil, nil, err
		}

		userRepo = postgres.NewUserRepository(db)
		predictionRepo = postgres.NewPredictionRepository(db)
		leagueRepo = postgres.NewLeagueRepository(db)
		settler = postgres.NewPredictionSettler(db)
		cleanup = func(context.Context) error { return db.Close() }
		logger.Info("storage backend", "kind", "postgres", "db", dbNameFromURL(cfg.DBURL))
	}

	tokens, err := token.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("build token manager: %w", err)
	}

	provider := apifootball.NewClient(apifootball.ClientConfig{
		BaseURL:    cfg.FootballAPIBaseURL,
		APIKey:     cfg.FootballAPIKey,
		Timeout:    cfg.FootballAPITimeout,
		MaxRetries: cfg.FootballAPIMaxRetries,
		Logger:     appLogger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FootballAPICircuitEnabled,
			FailureThreshold: cfg.FootballAPICircuitFailureCount,
			OpenTimeout:      cfg.FootballAPICircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FootballAPICircuitHalfOpenMaxReq,
		},
	})

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
	}

	ids := idgen.NewRandomGenerator()

	handler := httpapi.NewHandler(
		usecase.NewAuthService(userRepo, tokens, ids),
		usecase.NewFixtureService(provider, store),
		usecase.NewPredictionService(predictionRepo, userRepo, ids),
		usecase.NewLeagueService(leagueRepo, userRepo, ids),
		usecase.NewActivityService(leagueRepo, predictionRepo, userRepo),
		usecase.NewProfileService(userRepo, predictionRepo),
		usecase.NewSettlementService(predictionRepo, settler, provider, cfg.CalcMaxWorkers, logger),
		appLogger,
	)

	router := httpapi.NewRouter(handler, tokens, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}
