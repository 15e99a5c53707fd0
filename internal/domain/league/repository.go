package league

import "context"

// Repository describes league persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, l League) (League, error)
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	GetByCode(ctx context.Context, code string) (League, bool, error)
	ListByMember(ctx context.Context, userID string) ([]League, error)
	// ListFeatured returns up to limit leagues ordered by member count
	// descending.
	ListFeatured(ctx context.Context, limit int) ([]League, error)
	// AddMember is idempotent: adding an existing member is a no-op.
	AddMember(ctx context.Context, leagueID, userID string) error
}
