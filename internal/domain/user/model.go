package user

import (
	"fmt"
	"strings"
	"time"
)

const DefaultPoints = 1000

// Badge names awarded by the settlement engine. Badges are permanent:
// once earned they are never revoked.
const (
	BadgeSniper     = "Sniper"
	BadgeHighRoller = "High Roller"
)

// HighRollerThreshold is evaluated against total points after each
// settled prediction.
const HighRollerThreshold = 1100

// User is a registered predictor.
type User struct {
	ID           string
	FullName     string
	Username     string
	Email        string
	PasswordHash string
	Points       int
	Badges       []string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u User) Validate() error {
	if strings.TrimSpace(u.FullName) == "" {
		return fmt.Errorf("full name is required")
	}
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("username is required")
	}
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if u.PasswordHash == "" {
		return fmt.Errorf("password hash is required")
	}
	return nil
}

// HasBadge reports whether the badge is already present; badge order
// is insertion order and carries no meaning.
func (u User) HasBadge(name string) bool {
	for _, b := range u.Badges {
		if b == name {
			return true
		}
	}
	return false
}

// Principal identifies the authenticated caller of a request.
type Principal struct {
	UserID   string
	Username string
	IsAdmin  bool
}
