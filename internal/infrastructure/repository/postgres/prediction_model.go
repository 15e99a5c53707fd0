package postgres

import (
	"time"

	"github.com/topcornerhq/topcorner/internal/domain/prediction"
)

type predictionTableModel struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	MatchID   int64     `db:"match_id"`
	HomeTeam  string    `db:"home_team"`
	AwayTeam  string    `db:"away_team"`
	HomeScore int       `db:"home_score"`
	AwayScore int       `db:"away_score"`
	Points    int       `db:"points"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type predictionStatsModel struct {
	Total     int `db:"total"`
	Processed int `db:"processed"`
	Correct   int `db:"correct"`
}

func predictionFromRow(row predictionTableModel) prediction.Prediction {
	return prediction.Prediction{
		ID:        row.ID,
		UserID:    row.UserID,
		MatchID:   row.MatchID,
		HomeTeam:  row.HomeTeam,
		AwayTeam:  row.AwayTeam,
		HomeScore: row.HomeScore,
		AwayScore: row.AwayScore,
		Points:    row.Points,
		Status:    prediction.Status(row.Status),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
