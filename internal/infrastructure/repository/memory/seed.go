package memory

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/topcornerhq/topcorner/internal/domain/league"
	"github.com/topcornerhq/topcorner/internal/domain/user"
)

// Seed loads demo accounts and a demo league so the API is usable
// right after boot in development mode. All demo accounts share the
// password "kickoff123".
func Seed(ctx context.Context, users *UserRepository, leagues *LeagueRepository) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("kickoff123"), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	demoUsers := []user.User{
		{ID: "seed-user-ada", FullName: "Ada Okafor", Username: "ada", Email: "ada@example.com", Points: 1150, Badges: []string{user.BadgeSniper, user.BadgeHighRoller}},
		{ID: "seed-user-ben", FullName: "Ben Carter", Username: "ben", Email: "ben@example.com", Points: 1020},
		{ID: "seed-user-cleo", FullName: "Cleo Martins", Username: "cleo", Email: "cleo@example.com", Points: 985},
	}
	for _, u := range demoUsers {
		u.PasswordHash = string(hash)
		if _, err := users.Create(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
	}

	demoLeague := league.League{
		ID:        "seed-league-kickoff",
		Name:      "Kickoff Club",
		Code:      "KICK23",
		CreatedBy: "seed-user-ada",
		MemberIDs: []string{"seed-user-ada", "seed-user-ben", "seed-user-cleo"},
	}
	if _, err := leagues.Create(ctx, demoLeague); err != nil {
		return fmt.Errorf("seed league %s: %w", demoLeague.Name, err)
	}

	return nil
}
