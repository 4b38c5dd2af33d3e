package users

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository keeps accounts in process memory; everything is lost on
// restart.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int
	byName map[string]*User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1, byName: make(map[string]*User)}
}

func (r *MemoryRepository) Create(ctx context.Context, user *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[user.Username]; ok {
		return nil, ErrAlreadyExists
	}

	u := *user
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	r.nextID++
	r.byName[u.Username] = &u

	out := u
	return &out, nil
}

func (r *MemoryRepository) GetUserByLogin(ctx context.Context, username string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byName[username]
	if !ok {
		return nil, ErrNotFound
	}
	out := *u
	return &out, nil
}

func (r *MemoryRepository) Update(ctx context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[user.Username]; !ok {
		return ErrNotFound
	}
	u := *user
	r.byName[u.Username] = &u
	return nil
}

// List returns every account ordered by ID.
func (r *MemoryRepository) List(ctx context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]User, 0, len(r.byName))
	for _, u := range r.byName {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
