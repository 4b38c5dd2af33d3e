package documents

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var ErrNotFound = errors.New("document not found")

type Repository interface {
	Create(ctx context.Context, doc *Document) (*Document, error)
	Get(ctx context.Context, id int) (*Document, error)
	List(ctx context.Context) ([]Document, error)
	Delete(ctx context.Context, id int) error
}

// MemoryRepository keeps documents in process memory.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int
	docs   map[int]*Document
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1, docs: make(map[int]*Document)}
}

func (r *MemoryRepository) Create(ctx context.Context, doc *Document) (*Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := *doc
	d.ID = r.nextID
	if d.UploadedAt.IsZero() {
		d.UploadedAt = time.Now()
	}
	r.nextID++
	r.docs[d.ID] = &d

	out := d
	return &out, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id int) (*Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *d
	return &out, nil
}

// List returns every document ordered by ID.
func (r *MemoryRepository) List(ctx context.Context) ([]Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Document, 0, len(r.docs))
	for _, d := range r.docs {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[id]; !ok {
		return ErrNotFound
	}
	delete(r.docs, id)
	return nil
}
