package gallery

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository is the in-memory Repository used in dev mode and tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	images map[string]*Image
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{images: make(map[string]*Image)}
}

func (r *MemoryRepository) Create(ctx context.Context, img *Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *img
	r.images[img.ID] = &cp
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	img, ok := r.images[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *img
	return &cp, nil
}

func (r *MemoryRepository) ListByTrip(ctx context.Context, tripID string) ([]*Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var images []*Image
	for _, img := range r.images {
		if img.TripID != tripID {
			continue
		}
		cp := *img
		images = append(images, &cp)
	}

	sort.Slice(images, func(i, j int) bool {
		return images[i].CreatedAt.Before(images[j].CreatedAt)
	})
	return images, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.images[id]; !ok {
		return ErrNotFound
	}
	delete(r.images, id)
	return nil
}
