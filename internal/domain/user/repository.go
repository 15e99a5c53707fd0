package user

import "context"

// ProfileUpdate carries the editable identity fields.
type ProfileUpdate struct {
	FullName string
	Username string
	Email    string
}

// Repository describes user persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, userID string) (User, bool, error)
	GetByEmail(ctx context.Context, email string) (User, bool, error)
	GetByUsername(ctx context.Context, username string) (User, bool, error)
	GetByIDs(ctx context.Context, userIDs []string) ([]User, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (User, bool, error)
	// CountWithMorePoints backs leaderboard rank: rank = count + 1.
	CountWithMorePoints(ctx context.Context, points int) (int, error)
}
