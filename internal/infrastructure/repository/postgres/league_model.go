package postgres

import (
	"time"

	"github.com/topcornerhq/topcorner/internal/domain/league"
)

type leagueTableModel struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Code      string    `db:"code"`
	CreatedBy string    `db:"created_by"`
	CreatedAt time.Time `db:"created_at"`
}

type leagueMemberTableModel struct {
	LeagueID string    `db:"league_id"`
	UserID   string    `db:"user_id"`
	JoinedAt time.Time `db:"joined_at"`
}

func leagueFromRow(row leagueTableModel, memberIDs []string) league.League {
	return league.League{
		ID:        row.ID,
		Name:      row.Name,
		Code:      row.Code,
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt,
		MemberIDs: memberIDs,
	}
}
