package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/topcornerhq/topcorner/internal/domain/prediction"
	"github.com/topcornerhq/topcorner/internal/domain/user"
)

func TestProfileStats(t *testing.T) {
	users := newStubUserRepo(
		user.User{ID: "u1", FullName: "A", Username: "a", Email: "a@b.c", Points: 1050, Badges: []string{user.BadgeSniper}},
		user.User{ID: "u2", FullName: "B", Username: "b", Email: "b@b.c", Points: 1200},
		user.User{ID: "u3", FullName: "C", Username: "c", Email: "c@b.c", Points: 900},
	)
	predictions := newStubPredictionRepo(
		prediction.Prediction{ID: "p1", UserID: "u1", MatchID: 1, HomeTeam: "A", AwayTeam: "B", Points: 50, Status: prediction.StatusProcessed},
		prediction.Prediction{ID: "p2", UserID: "u1", MatchID: 2, HomeTeam: "A", AwayTeam: "B", Points: -5, Status: prediction.StatusProcessed},
		prediction.Prediction{ID: "p3", UserID: "u1", MatchID: 3, HomeTeam: "A", AwayTeam: "B", Points: 20, Status: prediction.StatusProcessed},
		prediction.Prediction{ID: "p4", UserID: "u1", MatchID: 4, HomeTeam: "A", AwayTeam: "B", Status: prediction.StatusPending},
	)
	svc := NewProfileService(users, predictions)

	stats, err := svc.Stats(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Rank != 2 {
		t.Fatalf("rank = %d, want 2", stats.Rank)
	}
	if stats.Total != 4 || stats.Processed != 3 || stats.Correct != 2 {
		t.Fatalf("history = total:%d processed:%d correct:%d, want 4/3/2", stats.Total, stats.Processed, stats.Correct)
	}
	if stats.AccuracyPct != 67 {
		t.Fatalf("accuracy = %d%%, want 67%%", stats.AccuracyPct)
	}
	if len(stats.Badges) != 1 || stats.Badges[0] != user.BadgeSniper {
		t.Fatalf("badges = %v", stats.Badges)
	}
}

func TestProfileStatsWithNoHistory(t *testing.T) {
	users := newStubUserRepo(user.User{ID: "u1", FullName: "A", Username: "a", Email: "a@b.c", Points: 1000})
	svc := NewProfileService(users, newStubPredictionRepo())

	stats, err := svc.Stats(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.AccuracyPct != 0 {
		t.Fatalf("accuracy = %d%%, want 0%% when nothing is processed", stats.AccuracyPct)
	}
	if stats.Rank != 1 {
		t.Fatalf("rank = %d, want 1", stats.Rank)
	}
}

func TestUpdateProfile(t *testing.T) {
	users := newStubUserRepo(
		user.User{ID: "u1", FullName: "A", Username: "a", Email: "a@b.c", Points: 1000},
		user.User{ID: "u2", FullName: "B", Username: "taken", Email: "taken@b.c", Points: 1000},
	)
	predictions := newStubPredictionRepo()
	svc := NewProfileService(users, predictions)

	t.Run("ok", func(t *testing.T) {
		updated, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileInput{
			FullName: "Alpha", Username: "alpha", Email: "Alpha@B.C",
		})
		if err != nil {
			t.Fatalf("UpdateProfile: %v", err)
		}
		if updated.Username != "alpha" || updated.Email != "alpha@b.c" {
			t.Fatalf("updated = %+v", updated)
		}
	})

	t.Run("keeping own username is allowed", func(t *testing.T) {
		if _, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileInput{
			FullName: "Alpha", Username: "alpha", Email: "alpha@b.c",
		}); err != nil {
			t.Fatalf("UpdateProfile: %v", err)
		}
	})

	t.Run("username collision", func(t *testing.T) {
		if _, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileInput{
			FullName: "Alpha", Username: "taken", Email: "alpha@b.c",
		}); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("email collision", func(t *testing.T) {
		if _, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileInput{
			FullName: "Alpha", Username: "alpha", Email: "taken@b.c",
		}); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		if _, err := svc.UpdateProfile(context.Background(), "ghost", UpdateProfileInput{
			FullName: "G", Username: "ghost", Email: "g@b.c",
		}); !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})
}
