package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ovaphlow/pitchfork/service-goods/internal/good/entity"
)

// MemoryRepo keeps goods in process memory. Mutations hold the write lock for
// the whole read-check-write sequence.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	goods  map[int64]*entity.Good
	now    func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{goods: map[int64]*entity.Good{}, now: func() time.Time { return time.Now().UTC() }}
}

func (r *MemoryRepo) List(_ context.Context) ([]*entity.Good, error) {
	return r.filter(func(*entity.Good) bool { return true }), nil
}

func (r *MemoryRepo) ListByOwner(_ context.Context, ownerID int64) ([]*entity.Good, error) {
	return r.filter(func(g *entity.Good) bool { return g.OwnerID == ownerID }), nil
}

func (r *MemoryRepo) filter(keep func(*entity.Good) bool) []*entity.Good {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Good, 0, len(r.goods))
	for _, g := range r.goods {
		if keep(g) {
			out = append(out, g.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *MemoryRepo) Get(_ context.Context, id int64) (*entity.Good, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.goods[id]
	if !ok {
		return nil, ErrNotFound
	}
	return g.Clone(), nil
}

func (r *MemoryRepo) Create(_ context.Context, g *entity.Good) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	g.ID = r.nextID
	g.CreatedAt = r.now()
	g.UpdatedAt = g.CreatedAt
	r.goods[g.ID] = g.Clone()
	return nil
}

func (r *MemoryRepo) Update(_ context.Context, id int64, fn MutateFunc) (*entity.Good, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.goods[id]
	if !ok {
		return nil, ErrNotFound
	}
	g := cur.Clone()
	if err := fn(g); err != nil {
		return nil, err
	}
	g.ID, g.OwnerID, g.CreatedAt = cur.ID, cur.OwnerID, cur.CreatedAt
	g.UpdatedAt = r.now()
	r.goods[id] = g.Clone()
	return g, nil
}

func (r *MemoryRepo) Delete(_ context.Context, id int64, fn MutateFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.goods[id]
	if !ok {
		return ErrNotFound
	}
	if err := fn(cur.Clone()); err != nil {
		return err
	}
	delete(r.goods, id)
	return nil
}
