// Package memory provides mutex-guarded, process-local repositories. They are
// used by tests and by the "memory" store driver for local runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/carlot/inventory-api/internal/core/domain"
)

// IdentityRepository is an in-memory ports.IdentityRepository.
type IdentityRepository struct {
	mu     sync.RWMutex
	users  map[int64]*domain.User
	nextID int64
	now    func() time.Time
}

func NewIdentityRepository() *IdentityRepository {
	return &IdentityRepository{
		users: make(map[int64]*domain.User),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func (r *IdentityRepository) List(_ context.Context, filter domain.UserFilter) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *IdentityRepository) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneUser(r.users[id]), nil
}

func (r *IdentityRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *IdentityRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

// uniqueness must be called with mu held. selfID is skipped so that an update
// may keep its own username and email.
func (r *IdentityRepository) uniqueness(selfID int64, username, email string) error {
	for _, u := range r.users {
		if u.ID != selfID && u.Username == username {
			return domain.Conflict(domain.MsgUsernameTaken)
		}
	}
	for _, u := range r.users {
		if u.ID != selfID && u.Email == email {
			return domain.Conflict(domain.MsgEmailTaken)
		}
	}
	return nil
}

func (r *IdentityRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.uniqueness(0, user.Username, user.Email); err != nil {
		return nil, err
	}

	r.nextID++
	stored := cloneUser(user)
	stored.ID = r.nextID
	stored.CreatedAt = r.now()
	stored.UpdatedAt = stored.CreatedAt
	r.users[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *IdentityRepository) Update(_ context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.users[id]
	if !ok {
		return nil, nil
	}

	next := cloneUser(current)
	patch.Apply(next)
	if err := r.uniqueness(id, next.Username, next.Email); err != nil {
		return nil, err
	}

	next.UpdatedAt = r.now()
	r.users[id] = next
	return cloneUser(next), nil
}

func (r *IdentityRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return false, nil
	}
	delete(r.users, id)
	return true, nil
}
