package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/topcornerhq/topcorner/internal/domain/prediction"
	"github.com/topcornerhq/topcorner/internal/domain/user"
	qb "github.com/topcornerhq/topcorner/internal/platform/querybuilder"
)

// PredictionSettler settles one prediction per transaction. The
// status flip is a compare-and-swap on status='pending', so two
// concurrent runs can never award the same prediction twice: the
// loser sees zero rows and reports Applied=false.
type PredictionSettler struct {
	db *sqlx.DB
}

func NewPredictionSettler(db *sqlx.DB) *PredictionSettler {
	return &PredictionSettler{db: db}
}

func (s *PredictionSettler) Settle(ctx context.Context, predictionID string, award int) (prediction.SettlementOutcome, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return prediction.SettlementOutcome{}, fmt.Errorf("begin tx settle prediction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	casQuery, casArgs, err := qb.Update("predictions").
		Set("status", string(prediction.StatusProcessed)).
		Set("points", award).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("id", predictionID),
			qb.Eq("status", string(prediction.StatusPending)),
		).
		Suffix("RETURNING user_id").
		ToSQL()
	if err != nil {
		return prediction.SettlementOutcome{}, fmt.Errorf("build settle prediction query: %w", err)
	}

	var userID string
	if err := tx.GetContext(ctx, &userID, casQuery, casArgs...); err != nil {
		if isNotFound(err) {
			return prediction.SettlementOutcome{Applied: false}, nil
		}
		return prediction.SettlementOutcome{}, fmt.Errorf("settle prediction: %w", err)
	}

	userQuery, userArgs, err := qb.Select("*").From("users").
		Where(qb.Eq("id", userID)).
		ToSQL()
	if err != nil {
		return prediction.SettlementOutcome{}, fmt.Errorf("build lock user query: %w", err)
	}

	var owner userTableModel
	if err := tx.GetContext(ctx, &owner, userQuery+" FOR UPDATE", userArgs...); err != nil {
		return prediction.SettlementOutcome{}, fmt.Errorf("lock user for settlement: %w", err)
	}

	newPoints := owner.Points + award
	earned := user.EarnedBadges([]string(owner.Badges), award, newPoints)
	badges := append([]string(owner.Badges), earned...)

	updateQuery, updateArgs, err := qb.Update("users").
		Set("points", newPoints).
		Set("badges", pq.StringArray(badges)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", userID)).
		ToSQL()
	if err != nil {
		return prediction.SettlementOutcome{}, fmt.Errorf("build award points query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, updateQuery, updateArgs...); err != nil {
		return prediction.SettlementOutcome{}, fmt.Errorf("award points: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return prediction.SettlementOutcome{}, fmt.Errorf("commit settle prediction tx: %w", err)
	}

	return prediction.SettlementOutcome{
		Applied:       true,
		UserPoints:    newPoints,
		BadgesAwarded: earned,
	}, nil
}
