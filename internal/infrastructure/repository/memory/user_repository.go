// Package memory backs the repositories with process-local maps. It
// serves development and tests when no database is configured; data
// does not survive a restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/topcornerhq/topcorner/internal/domain/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]user.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]user.User)}
}

func (r *UserRepository) Create(_ context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.users[u.ID] = u
	return u, nil
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[userID]
	return u, ok, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return u, true, nil
		}
	}
	return user.User{}, false, nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			return u, true, nil
		}
	}
	return user.User{}, false, nil
}

func (r *UserRepository) GetByIDs(_ context.Context, userIDs []string) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]user.User, 0, len(userIDs))
	for _, id := range userIDs {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *UserRepository) UpdateProfile(_ context.Context, userID string, update user.ProfileUpdate) (user.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return user.User{}, false, nil
	}
	u.FullName = update.FullName
	u.Username = update.Username
	u.Email = update.Email
	u.UpdatedAt = time.Now().UTC()
	r.users[userID] = u
	return u, true, nil
}

func (r *UserRepository) CountWithMorePoints(_ context.Context, points int) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, u := range r.users {
		if u.Points > points {
			count++
		}
	}
	return count, nil
}

// apply mutates one user under the write lock; the settler uses it to
// keep point and badge updates atomic.
func (r *UserRepository) apply(userID string, mutate func(user.User) user.User) (user.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return user.User{}, false
	}
	u = mutate(u)
	u.UpdatedAt = time.Now().UTC()
	r.users[userID] = u
	return u, true
}
