package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/topcornerhq/topcorner/internal/domain/user"
	qb "github.com/topcornerhq/topcorner/internal/platform/querybuilder"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	query, args, err := qb.InsertInto("users").
		Columns("id", "full_name", "username", "email", "password_hash", "points", "badges", "is_admin").
		Values(u.ID, u.FullName, u.Username, u.Email, u.PasswordHash, u.Points, pq.StringArray(u.Badges), u.IsAdmin).
		Suffix("RETURNING *").
		ToSQL()
	if err != nil {
		return user.User{}, fmt.Errorf("build create user query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return user.User{}, fmt.Errorf("create user: %w", err)
	}

	return userFromRow(row), nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	return r.getOne(ctx, qb.Eq("id", userID), "get user by id")
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, bool, error) {
	return r.getOne(ctx, qb.Eq("email", email), "get user by email")
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (user.User, bool, error) {
	return r.getOne(ctx, qb.Eq("username", username), "get user by username")
}

func (r *UserRepository) GetByIDs(ctx context.Context, userIDs []string) ([]user.User, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	values := make([]any, 0, len(userIDs))
	for _, id := range userIDs {
		values = append(values, id)
	}

	query, args, err := qb.Select("*").From("users").
		Where(qb.In("id", values)).
		OrderBy("username ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get users by ids query: %w", err)
	}

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get users by ids: %w", err)
	}

	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, userFromRow(row))
	}
	return out, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, userID string, update user.ProfileUpdate) (user.User, bool, error) {
	query, args, err := qb.Update("users").
		Set("full_name", update.FullName).
		Set("username", update.Username).
		Set("email", update.Email).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", userID)).
		Suffix("RETURNING *").
		ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build update profile query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("update profile: %w", err)
	}

	return userFromRow(row), true, nil
}

func (r *UserRepository) CountWithMorePoints(ctx context.Context, points int) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("users").
		Where(qb.Expr("points > ?", points)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count users with more points query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count users with more points: %w", err)
	}

	return count, nil
}

func (r *UserRepository) getOne(ctx context.Context, cond qb.Condition, op string) (user.User, bool, error) {
	query, args, err := qb.Select("*").From("users").Where(cond).ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build %s query: %w", op, err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("%s: %w", op, err)
	}

	return userFromRow(row), true, nil
}
