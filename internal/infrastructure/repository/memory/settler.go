package memory

import (
	"context"
	"fmt"

	"github.com/topcornerhq/topcorner/internal/domain/prediction"
	"github.com/topcornerhq/topcorner/internal/domain/user"
)

// PredictionSettler mirrors the transactional settler on top of the
// in-memory repositories. The claim call is the compare-and-swap.
type PredictionSettler struct {
	predictions *PredictionRepository
	users       *UserRepository
}

func NewPredictionSettler(predictions *PredictionRepository, users *UserRepository) *PredictionSettler {
	return &PredictionSettler{
		predictions: predictions,
		users:       users,
	}
}

func (s *PredictionSettler) Settle(ctx context.Context, predictionID string, award int) (prediction.SettlementOutcome, error) {
	pending, ok := s.predictions.get(predictionID)
	if !ok {
		return prediction.SettlementOutcome{Applied: false}, nil
	}
	// Verify the owner before claiming, so a failed settle leaves the
	// row pending instead of frozen without its points applied.
	if _, exists, err := s.users.GetByID(ctx, pending.UserID); err != nil {
		return prediction.SettlementOutcome{}, err
	} else if !exists {
		return prediction.SettlementOutcome{}, fmt.Errorf("settle prediction: user %s not found", pending.UserID)
	}

	claimed, ok := s.predictions.claim(predictionID, award)
	if !ok {
		return prediction.SettlementOutcome{Applied: false}, nil
	}

	var earned []string
	updated, found := s.users.apply(claimed.UserID, func(u user.User) user.User {
		u.Points += award
		earned = user.EarnedBadges(u.Badges, award, u.Points)
		u.Badges = append(u.Badges, earned...)
		return u
	})
	if !found {
		return prediction.SettlementOutcome{}, fmt.Errorf("settle prediction: user %s not found", claimed.UserID)
	}

	return prediction.SettlementOutcome{
		Applied:       true,
		UserPoints:    updated.Points,
		BadgesAwarded: earned,
	}, nil
}
