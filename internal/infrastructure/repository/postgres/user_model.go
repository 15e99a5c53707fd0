package postgres

import (
	"time"

	"github.com/lib/pq"

	"github.com/topcornerhq/topcorner/internal/domain/user"
)

type userTableModel struct {
	ID           string         `db:"id"`
	FullName     string         `db:"full_name"`
	Username     string         `db:"username"`
	Email        string         `db:"email"`
	PasswordHash string         `db:"password_hash"`
	Points       int            `db:"points"`
	Badges       pq.StringArray `db:"badges"`
	IsAdmin      bool           `db:"is_admin"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func userFromRow(row userTableModel) user.User {
	return user.User{
		ID:           row.ID,
		FullName:     row.FullName,
		Username:     row.Username,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Points:       row.Points,
		Badges:       []string(row.Badges),
		IsAdmin:      row.IsAdmin,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
