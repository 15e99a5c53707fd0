package league

import (
	"fmt"
	"strings"
	"time"
)

// League is a private group of users competing on prediction points,
// joined by a shareable code. Leagues are never deleted.
type League struct {
	ID        string
	Name      string
	Code      string
	CreatedBy string
	CreatedAt time.Time
	// MemberIDs in join order; the creator is always first.
	MemberIDs []string
}

func (l League) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("league name is required")
	}
	if strings.TrimSpace(l.Code) == "" {
		return fmt.Errorf("league code is required")
	}
	if strings.TrimSpace(l.CreatedBy) == "" {
		return fmt.Errorf("league creator is required")
	}
	return nil
}

func (l League) HasMember(userID string) bool {
	for _, id := range l.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
