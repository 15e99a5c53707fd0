package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/topcornerhq/topcorner/internal/domain/prediction"
	"github.com/topcornerhq/topcorner/internal/domain/user"
)

type ProfileService struct {
	userRepo       user.Repository
	predictionRepo prediction.Repository
}

func NewProfileService(userRepo user.Repository, predictionRepo prediction.Repository) *ProfileService {
	return &ProfileService{
		userRepo:       userRepo,
		predictionRepo: predictionRepo,
	}
}

// UserStats summarizes a user's standing for the profile page.
type UserStats struct {
	UserID      string
	Points      int
	Badges      []string
	Rank        int
	Total       int
	Processed   int
	Correct     int
	AccuracyPct int
}

// Stats computes the leaderboard rank (users with strictly more
// points, plus one) and the prediction accuracy, rounded to a whole
// percentage. A user with nothing processed has accuracy zero.
func (s *ProfileService) Stats(ctx context.Context, userID string) (UserStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.Stats")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return UserStats{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	found, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return UserStats{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return UserStats{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}

	ahead, err := s.userRepo.CountWithMorePoints(ctx, found.Points)
	if err != nil {
		return UserStats{}, fmt.Errorf("count users with more points: %w", err)
	}

	history, err := s.predictionRepo.StatsByUser(ctx, userID)
	if err != nil {
		return UserStats{}, fmt.Errorf("load prediction stats: %w", err)
	}

	accuracy := 0
	if history.Processed > 0 {
		accuracy = int(math.Round(100 * float64(history.Correct) / float64(history.Processed)))
	}

	return UserStats{
		UserID:      found.ID,
		Points:      found.Points,
		Badges:      found.Badges,
		Rank:        ahead + 1,
		Total:       history.Total,
		Processed:   history.Processed,
		Correct:     history.Correct,
		AccuracyPct: accuracy,
	}, nil
}

type UpdateProfileInput struct {
	FullName string
	Username string
	Email    string
}

// UpdateProfile edits the identity fields; username and email stay
// unique across users.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.UpdateProfile")
	defer span.End()

	userID = strings.TrimSpace(userID)
	update := user.ProfileUpdate{
		FullName: strings.TrimSpace(input.FullName),
		Username: strings.TrimSpace(input.Username),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
	}
	if userID == "" {
		return user.User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if update.FullName == "" || update.Username == "" || update.Email == "" {
		return user.User{}, fmt.Errorf("%w: full name, username and email are required", ErrInvalidInput)
	}

	if other, exists, err := s.userRepo.GetByUsername(ctx, update.Username); err != nil {
		return user.User{}, fmt.Errorf("check username uniqueness: %w", err)
	} else if exists && other.ID != userID {
		return user.User{}, fmt.Errorf("%w: username is already taken", ErrInvalidInput)
	}
	if other, exists, err := s.userRepo.GetByEmail(ctx, update.Email); err != nil {
		return user.User{}, fmt.Errorf("check email uniqueness: %w", err)
	} else if exists && other.ID != userID {
		return user.User{}, fmt.Errorf("%w: a user already exists with this email", ErrInvalidInput)
	}

	updated, exists, err := s.userRepo.UpdateProfile(ctx, userID, update)
	if err != nil {
		return user.User{}, fmt.Errorf("update profile: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}

	return updated, nil
}
