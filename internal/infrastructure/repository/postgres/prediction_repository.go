package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/topcornerhq/topcorner/internal/domain/prediction"
	qb "github.com/topcornerhq/topcorner/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// Upsert relies on the UNIQUE (user_id, match_id) constraint. The
// conflict update is guarded on status so a processed row never
// changes; in that case no row comes back and the call fails.
func (r *PredictionRepository) Upsert(ctx context.Context, p prediction.Prediction) (prediction.Prediction, error) {
	query, args, err := qb.InsertInto("predictions").
		Columns("id", "user_id", "match_id", "home_team", "away_team", "home_score", "away_score", "points", "status").
		Values(p.ID, p.UserID, p.MatchID, p.HomeTeam, p.AwayTeam, p.HomeScore, p.AwayScore, p.Points, string(p.Status)).
		Suffix(`ON CONFLICT (user_id, match_id) DO UPDATE SET
    home_team = EXCLUDED.home_team,
    away_team = EXCLUDED.away_team,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    updated_at = NOW()
WHERE predictions.status = 'pending'
RETURNING *`).
		ToSQL()
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("build upsert prediction query: %w", err)
	}

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return prediction.Prediction{}, fmt.Errorf("upsert prediction: row is already processed")
		}
		return prediction.Prediction{}, fmt.Errorf("upsert prediction: %w", err)
	}

	return predictionFromRow(row), nil
}

func (r *PredictionRepository) GetByUserAndMatch(ctx context.Context, userID string, matchID int64) (prediction.Prediction, bool, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("match_id", matchID),
		).
		ToSQL()
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("build get prediction query: %w", err)
	}

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return prediction.Prediction{}, false, nil
		}
		return prediction.Prediction{}, false, fmt.Errorf("get prediction: %w", err)
	}

	return predictionFromRow(row), true, nil
}

func (r *PredictionRepository) ListByUser(ctx context.Context, userID string) ([]prediction.Prediction, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(qb.Eq("user_id", userID)).
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions by user query: %w", err)
	}

	return r.list(ctx, query, args, "list predictions by user")
}

func (r *PredictionRepository) ListPending(ctx context.Context) ([]prediction.Prediction, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(qb.Eq("status", string(prediction.StatusPending))).
		OrderBy("match_id ASC", "id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list pending predictions query: %w", err)
	}

	return r.list(ctx, query, args, "list pending predictions")
}

func (r *PredictionRepository) ListRecentByUsers(ctx context.Context, userIDs []string, limit int) ([]prediction.Prediction, error) {
	if len(userIDs) == 0 || limit < 1 {
		return nil, nil
	}

	values := make([]any, 0, len(userIDs))
	for _, id := range userIDs {
		values = append(values, id)
	}

	query, args, err := qb.Select("*").From("predictions").
		Where(qb.In("user_id", values)).
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list recent predictions query: %w", err)
	}

	return r.list(ctx, query, args, "list recent predictions")
}

func (r *PredictionRepository) StatsByUser(ctx context.Context, userID string) (prediction.Stats, error) {
	query, args, err := qb.Select(
		"COUNT(*) AS total",
		"COUNT(*) FILTER (WHERE status = 'processed') AS processed",
		"COUNT(*) FILTER (WHERE status = 'processed' AND points > 0) AS correct",
	).
		From("predictions").
		Where(qb.Eq("user_id", userID)).
		ToSQL()
	if err != nil {
		return prediction.Stats{}, fmt.Errorf("build prediction stats query: %w", err)
	}

	var row predictionStatsModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return prediction.Stats{}, fmt.Errorf("prediction stats: %w", err)
	}

	return prediction.Stats{
		Total:     row.Total,
		Processed: row.Processed,
		Correct:   row.Correct,
	}, nil
}

func (r *PredictionRepository) list(ctx context.Context, query string, args []any, op string) ([]prediction.Prediction, error) {
	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, predictionFromRow(row))
	}
	return out, nil
}
