package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/topcornerhq/topcorner/internal/domain/league"
	"github.com/topcornerhq/topcorner/internal/domain/prediction"
	"github.com/topcornerhq/topcorner/internal/domain/user"
)

const activityFeedLimit = 10

type ActivityService struct {
	leagueRepo     league.Repository
	predictionRepo prediction.Repository
	userRepo       user.Repository
}

func NewActivityService(leagueRepo league.Repository, predictionRepo prediction.Repository, userRepo user.Repository) *ActivityService {
	return &ActivityService{
		leagueRepo:     leagueRepo,
		predictionRepo: predictionRepo,
		userRepo:       userRepo,
	}
}

// ActivityEntry is one co-league member's recent prediction.
type ActivityEntry struct {
	Prediction prediction.Prediction
	Username   string
	FullName   string
}

// Feed returns the newest predictions made by people sharing a league
// with the user, newest first, capped at ten. The user's own
// predictions are not part of their feed.
func (s *ActivityService) Feed(ctx context.Context, userID string) ([]ActivityEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ActivityService.Feed")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	leagues, err := s.leagueRepo.ListByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list leagues by member: %w", err)
	}

	seen := make(map[string]struct{})
	coMembers := make([]string, 0)
	for _, l := range leagues {
		for _, memberID := range l.MemberIDs {
			if memberID == userID {
				continue
			}
			if _, ok := seen[memberID]; ok {
				continue
			}
			seen[memberID] = struct{}{}
			coMembers = append(coMembers, memberID)
		}
	}
	if len(coMembers) == 0 {
		return nil, nil
	}
	sort.Strings(coMembers)

	recent, err := s.predictionRepo.ListRecentByUsers(ctx, coMembers, activityFeedLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent predictions: %w", err)
	}
	if len(recent) == 0 {
		return nil, nil
	}

	authors, err := s.userRepo.GetByIDs(ctx, coMembers)
	if err != nil {
		return nil, fmt.Errorf("load prediction authors: %w", err)
	}
	authorByID := make(map[string]user.User, len(authors))
	for _, a := range authors {
		authorByID[a.ID] = a
	}

	out := make([]ActivityEntry, 0, len(recent))
	for _, p := range recent {
		author := authorByID[p.UserID]
		out = append(out, ActivityEntry{
			Prediction: p,
			Username:   author.Username,
			FullName:   author.FullName,
		})
	}

	return out, nil
}
