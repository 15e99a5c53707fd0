package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/topcornerhq/topcorner/internal/domain/prediction"
	"github.com/topcornerhq/topcorner/internal/domain/user"
	"github.com/topcornerhq/topcorner/internal/platform/id"
)

type PredictionService struct {
	predictionRepo prediction.Repository
	userRepo       user.Repository
	idgen          id.Generator
}

func NewPredictionService(predictionRepo prediction.Repository, userRepo user.Repository, idgen id.Generator) *PredictionService {
	return &PredictionService{
		predictionRepo: predictionRepo,
		userRepo:       userRepo,
		idgen:          idgen,
	}
}

type SavePredictionInput struct {
	UserID    string
	MatchID   int64
	HomeTeam  string
	AwayTeam  string
	HomeScore int
	AwayScore int
}

// Save upserts the caller's guess for one match: a second submission
// before the match is settled overwrites the first, never duplicates
// it. Once settled the guess is frozen.
func (s *PredictionService) Save(ctx context.Context, input SavePredictionInput) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Save")
	defer span.End()

	candidate := prediction.Prediction{
		ID:        s.idgen.NewID(),
		UserID:    strings.TrimSpace(input.UserID),
		MatchID:   input.MatchID,
		HomeTeam:  strings.TrimSpace(input.HomeTeam),
		AwayTeam:  strings.TrimSpace(input.AwayTeam),
		HomeScore: input.HomeScore,
		AwayScore: input.AwayScore,
		Status:    prediction.StatusPending,
	}
	if err := candidate.Validate(); err != nil {
		return prediction.Prediction{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if _, exists, err := s.userRepo.GetByID(ctx, candidate.UserID); err != nil {
		return prediction.Prediction{}, fmt.Errorf("get user: %w", err)
	} else if !exists {
		return prediction.Prediction{}, fmt.Errorf("%w: user=%s", ErrNotFound, candidate.UserID)
	}

	existing, exists, err := s.predictionRepo.GetByUserAndMatch(ctx, candidate.UserID, candidate.MatchID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("get prediction: %w", err)
	}
	if exists && existing.Status == prediction.StatusProcessed {
		return prediction.Prediction{}, fmt.Errorf("%w: prediction for match %d is already settled", ErrInvalidInput, candidate.MatchID)
	}

	saved, err := s.predictionRepo.Upsert(ctx, candidate)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("upsert prediction: %w", err)
	}

	return saved, nil
}

func (s *PredictionService) ListByUser(ctx context.Context, userID string) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.ListByUser")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	items, err := s.predictionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list predictions by user: %w", err)
	}

	return items, nil
}
