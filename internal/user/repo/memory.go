package repo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ovaphlow/pitchfork/service-goods/internal/user/entity"
)

// MemoryRepo keeps users in process memory. Safe for concurrent use.
type MemoryRepo struct {
	mu      sync.RWMutex
	nextID  int64
	users   map[int64]*entity.User
	byEmail map[string]int64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{users: map[int64]*entity.User{}, byEmail: map[string]int64{}}
}

func clone(u *entity.User) *entity.User {
	c := *u
	c.Roles = append([]string(nil), u.Roles...)
	return &c
}

func (r *MemoryRepo) Create(_ context.Context, u *entity.User) (int64, error) {
	key := strings.ToLower(u.Email)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[key]; ok {
		return 0, ErrDuplicateEmail
	}
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now().UTC()
	r.users[u.ID] = clone(u)
	r.byEmail[key] = u.ID
	return u.ID, nil
}

func (r *MemoryRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(u), nil
}

func (r *MemoryRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(r.users[id]), nil
}

func (r *MemoryRepo) List(_ context.Context) ([]*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, clone(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
