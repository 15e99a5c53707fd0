package memory

import (
	"context"
	"testing"

	"github.com/topcornerhq/topcorner/internal/domain/prediction"
	"github.com/topcornerhq/topcorner/internal/domain/user"
)

func TestSettleAwardsPointsAndBadgesOnce(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository()
	predictions := NewPredictionRepository()

	if _, err := users.Create(ctx, user.User{
		ID: "u1", FullName: "A", Username: "a", Email: "a@b.c",
		PasswordHash: "x", Points: 1060,
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := predictions.Upsert(ctx, prediction.Prediction{
		ID: "p1", UserID: "u1", MatchID: 9, HomeTeam: "A", AwayTeam: "B",
		HomeScore: 2, AwayScore: 1, Status: prediction.StatusPending,
	}); err != nil {
		t.Fatalf("upsert prediction: %v", err)
	}

	settler := NewPredictionSettler(predictions, users)

	outcome, err := settler.Settle(ctx, "p1", 50)
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if !outcome.Applied {
		t.Fatal("first settle must apply")
	}
	if outcome.UserPoints != 1110 {
		t.Fatalf("points = %d, want 1110", outcome.UserPoints)
	}

	// An exact score at 50 points crossing 1100 earns both badges.
	earned := map[string]bool{}
	for _, b := range outcome.BadgesAwarded {
		earned[b] = true
	}
	if !earned[user.BadgeSniper] || !earned[user.BadgeHighRoller] {
		t.Fatalf("badges awarded = %v", outcome.BadgesAwarded)
	}

	// Second settle of the same row is a no-op, never a double award.
	again, err := settler.Settle(ctx, "p1", 50)
	if err != nil {
		t.Fatalf("Settle again: %v", err)
	}
	if again.Applied {
		t.Fatal("second settle must not apply")
	}

	owner, _, err := users.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if owner.Points != 1110 {
		t.Fatalf("points after double settle = %d, want 1110", owner.Points)
	}
	if len(owner.Badges) != 2 {
		t.Fatalf("badges = %v, want exactly two", owner.Badges)
	}
}

func TestSettleWithoutOwnerLeavesRowPending(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository()
	predictions := NewPredictionRepository()

	if _, err := predictions.Upsert(ctx, prediction.Prediction{
		ID: "p1", UserID: "ghost", MatchID: 9, HomeTeam: "A", AwayTeam: "B",
		HomeScore: 2, AwayScore: 1, Status: prediction.StatusPending,
	}); err != nil {
		t.Fatalf("upsert prediction: %v", err)
	}

	settler := NewPredictionSettler(predictions, users)

	if _, err := settler.Settle(ctx, "p1", 50); err == nil {
		t.Fatal("settle without an owning user must fail")
	}

	// The failed settle must not claim the row; it stays pending so a
	// later run can retry once the owner exists.
	p, found, err := predictions.GetByUserAndMatch(ctx, "ghost", 9)
	if err != nil {
		t.Fatalf("get prediction: %v", err)
	}
	if !found {
		t.Fatal("prediction must still exist")
	}
	if p.Status != prediction.StatusPending {
		t.Fatalf("status = %q, want pending", p.Status)
	}
	if p.Points != 0 {
		t.Fatalf("points = %d, want 0", p.Points)
	}
}

func TestUpsertRefusesProcessedRow(t *testing.T) {
	ctx := context.Background()
	predictions := NewPredictionRepository()

	if _, err := predictions.Upsert(ctx, prediction.Prediction{
		ID: "p1", UserID: "u1", MatchID: 9, HomeTeam: "A", AwayTeam: "B",
		HomeScore: 2, AwayScore: 1, Status: prediction.StatusPending,
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, ok := predictions.claim("p1", 20); !ok {
		t.Fatal("claim must succeed on a pending row")
	}

	if _, err := predictions.Upsert(ctx, prediction.Prediction{
		ID: "p2", UserID: "u1", MatchID: 9, HomeTeam: "A", AwayTeam: "B",
		HomeScore: 0, AwayScore: 0, Status: prediction.StatusPending,
	}); err == nil {
		t.Fatal("upsert over a processed row must fail")
	}
}
