package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/topcornerhq/topcorner/internal/domain/league"
	"github.com/topcornerhq/topcorner/internal/domain/user"
	"github.com/topcornerhq/topcorner/internal/platform/id"
)

const featuredLeagueLimit = 3

// codeAttempts bounds retries when a freshly generated join code
// collides with an existing league.
const codeAttempts = 5

type LeagueService struct {
	leagueRepo league.Repository
	userRepo   user.Repository
	idgen      id.Generator
}

func NewLeagueService(leagueRepo league.Repository, userRepo user.Repository, idgen id.Generator) *LeagueService {
	return &LeagueService{
		leagueRepo: leagueRepo,
		userRepo:   userRepo,
		idgen:      idgen,
	}
}

// MemberSummary is one row of a league leaderboard.
type MemberSummary struct {
	UserID   string
	FullName string
	Username string
	Points   int
}

type LeagueDetail struct {
	League  league.League
	Members []MemberSummary
}

// Create registers a league with a fresh shareable code; the creator
// joins automatically.
func (s *LeagueService) Create(ctx context.Context, name, creatorID string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Create")
	defer span.End()

	name = strings.TrimSpace(name)
	creatorID = strings.TrimSpace(creatorID)
	if name == "" {
		return league.League{}, fmt.Errorf("%w: league name is required", ErrInvalidInput)
	}
	if creatorID == "" {
		return league.League{}, fmt.Errorf("%w: creator id is required", ErrInvalidInput)
	}

	if _, exists, err := s.userRepo.GetByID(ctx, creatorID); err != nil {
		return league.League{}, fmt.Errorf("get creator: %w", err)
	} else if !exists {
		return league.League{}, fmt.Errorf("%w: user=%s", ErrNotFound, creatorID)
	}

	code, err := s.freshCode(ctx)
	if err != nil {
		return league.League{}, err
	}

	candidate := league.League{
		ID:        s.idgen.NewID(),
		Name:      name,
		Code:      code,
		CreatedBy: creatorID,
		MemberIDs: []string{creatorID},
	}
	if err := candidate.Validate(); err != nil {
		return league.League{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.leagueRepo.Create(ctx, candidate)
	if err != nil {
		return league.League{}, fmt.Errorf("create league: %w", err)
	}

	return created, nil
}

// Join adds the user to the league behind the code. Joining a league
// the user already belongs to is a no-op.
func (s *LeagueService) Join(ctx context.Context, code, userID string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Join")
	defer span.End()

	code = strings.ToUpper(strings.TrimSpace(code))
	userID = strings.TrimSpace(userID)
	if code == "" || userID == "" {
		return league.League{}, fmt.Errorf("%w: league code and user id are required", ErrInvalidInput)
	}

	if _, exists, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return league.League{}, fmt.Errorf("get user: %w", err)
	} else if !exists {
		return league.League{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}

	found, exists, err := s.leagueRepo.GetByCode(ctx, code)
	if err != nil {
		return league.League{}, fmt.Errorf("get league by code: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league code=%s", ErrNotFound, code)
	}

	if !found.HasMember(userID) {
		if err := s.leagueRepo.AddMember(ctx, found.ID, userID); err != nil {
			return league.League{}, fmt.Errorf("add league member: %w", err)
		}
	}

	joined, _, err := s.leagueRepo.GetByID(ctx, found.ID)
	if err != nil {
		return league.League{}, fmt.Errorf("reload league: %w", err)
	}

	return joined, nil
}

func (s *LeagueService) ListByUser(ctx context.Context, userID string) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListByUser")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	leagues, err := s.leagueRepo.ListByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list leagues by member: %w", err)
	}

	return leagues, nil
}

// Featured returns at most three leagues ordered by member count.
func (s *LeagueService) Featured(ctx context.Context) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Featured")
	defer span.End()

	leagues, err := s.leagueRepo.ListFeatured(ctx, featuredLeagueLimit)
	if err != nil {
		return nil, fmt.Errorf("list featured leagues: %w", err)
	}

	return leagues, nil
}

// Detail returns the league with its member leaderboard, highest
// points first.
func (s *LeagueService) Detail(ctx context.Context, leagueID string) (LeagueDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Detail")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return LeagueDetail{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	found, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return LeagueDetail{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return LeagueDetail{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	members, err := s.userRepo.GetByIDs(ctx, found.MemberIDs)
	if err != nil {
		return LeagueDetail{}, fmt.Errorf("load league members: %w", err)
	}

	summaries := make([]MemberSummary, 0, len(members))
	for _, m := range members {
		summaries = append(summaries, MemberSummary{
			UserID:   m.ID,
			FullName: m.FullName,
			Username: m.Username,
			Points:   m.Points,
		})
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].Points != summaries[j].Points {
			return summaries[i].Points > summaries[j].Points
		}
		return summaries[i].Username < summaries[j].Username
	})

	return LeagueDetail{League: found, Members: summaries}, nil
}

func (s *LeagueService) freshCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code, err := s.idgen.NewLeagueCode()
		if err != nil {
			return "", fmt.Errorf("generate league code: %w", err)
		}
		_, exists, err := s.leagueRepo.GetByCode(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check league code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique league code after %d attempts", codeAttempts)
}
