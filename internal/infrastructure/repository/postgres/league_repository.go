package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/topcornerhq/topcorner/internal/domain/league"
	qb "github.com/topcornerhq/topcorner/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) Create(ctx context.Context, l league.League) (league.League, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return league.League{}, fmt.Errorf("begin tx create league: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	leagueQuery, leagueArgs, err := qb.InsertInto("leagues").
		Columns("id", "name", "code", "created_by").
		Values(l.ID, l.Name, l.Code, l.CreatedBy).
		Suffix("RETURNING *").
		ToSQL()
	if err != nil {
		return league.League{}, fmt.Errorf("build create league query: %w", err)
	}

	var row leagueTableModel
	if err := tx.GetContext(ctx, &row, leagueQuery, leagueArgs...); err != nil {
		return league.League{}, fmt.Errorf("create league: %w", err)
	}

	for _, memberID := range l.MemberIDs {
		memberQuery, memberArgs, err := qb.InsertInto("league_members").
			Columns("league_id", "user_id").
			Values(l.ID, memberID).
			Suffix("ON CONFLICT (league_id, user_id) DO NOTHING").
			ToSQL()
		if err != nil {
			return league.League{}, fmt.Errorf("build create league member query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, memberQuery, memberArgs...); err != nil {
			return league.League{}, fmt.Errorf("create league member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return league.League{}, fmt.Errorf("commit create league tx: %w", err)
	}

	return leagueFromRow(row, l.MemberIDs), nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	return r.getOne(ctx, qb.Eq("id", leagueID), "get league by id")
}

func (r *LeagueRepository) GetByCode(ctx context.Context, code string) (league.League, bool, error) {
	return r.getOne(ctx, qb.Eq("code", code), "get league by code")
}

func (r *LeagueRepository) ListByMember(ctx context.Context, userID string) ([]league.League, error) {
	query, args, err := qb.Select("l.*").
		From("leagues l JOIN league_members m ON m.league_id = l.id").
		Where(qb.Eq("m.user_id", userID)).
		OrderBy("l.created_at DESC", "l.id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list leagues by member query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list leagues by member: %w", err)
	}

	return r.hydrateMembers(ctx, rows)
}

func (r *LeagueRepository) ListFeatured(ctx context.Context, limit int) ([]league.League, error) {
	if limit < 1 {
		return nil, nil
	}

	query, args, err := qb.Select("l.*").
		From("(SELECT league_id, COUNT(*) AS member_count FROM league_members GROUP BY league_id) mc JOIN leagues l ON l.id = mc.league_id").
		OrderBy("mc.member_count DESC", "l.created_at ASC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list featured leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list featured leagues: %w", err)
	}

	return r.hydrateMembers(ctx, rows)
}

func (r *LeagueRepository) AddMember(ctx context.Context, leagueID, userID string) error {
	query, args, err := qb.InsertInto("league_members").
		Columns("league_id", "user_id").
		Values(leagueID, userID).
		Suffix("ON CONFLICT (league_id, user_id) DO NOTHING").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build add league member query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("add league member: %w", err)
	}

	return nil
}

func (r *LeagueRepository) getOne(ctx context.Context, cond qb.Condition, op string) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").Where(cond).ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build %s query: %w", op, err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("%s: %w", op, err)
	}

	memberIDs, err := r.memberIDs(ctx, []string{row.ID})
	if err != nil {
		return league.League{}, false, err
	}

	return leagueFromRow(row, memberIDs[row.ID]), true, nil
}

func (r *LeagueRepository) hydrateMembers(ctx context.Context, rows []leagueTableModel) ([]league.League, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	leagueIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		leagueIDs = append(leagueIDs, row.ID)
	}

	membersByLeague, err := r.memberIDs(ctx, leagueIDs)
	if err != nil {
		return nil, err
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, leagueFromRow(row, membersByLeague[row.ID]))
	}
	return out, nil
}

// memberIDs loads membership in join order so the creator stays first.
func (r *LeagueRepository) memberIDs(ctx context.Context, leagueIDs []string) (map[string][]string, error) {
	values := make([]any, 0, len(leagueIDs))
	for _, id := range leagueIDs {
		values = append(values, id)
	}

	query, args, err := qb.Select("*").From("league_members").
		Where(qb.In("league_id", values)).
		OrderBy("joined_at ASC", "user_id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list league members query: %w", err)
	}

	var rows []leagueMemberTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list league members: %w", err)
	}

	out := make(map[string][]string, len(leagueIDs))
	for _, row := range rows {
		out[row.LeagueID] = append(out[row.LeagueID], row.UserID)
	}
	return out, nil
}
