package trip

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is the in-memory Repository used in dev mode and tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	trips map[string]*Trip
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{trips: make(map[string]*Trip)}
}

func (r *MemoryRepository) Create(ctx context.Context, t *Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	cp := *t
	r.trips[t.ID] = &cp
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.trips[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *MemoryRepository) List(ctx context.Context, filter Filter) ([]*Trip, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*Trip
	for _, t := range r.trips {
		if filter.Status != "" && string(t.Status) != filter.Status {
			continue
		}
		if filter.Country != "" && t.Country != filter.Country {
			continue
		}
		cp := *t
		matched = append(matched, &cp)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].StartDate.Before(matched[j].StartDate)
	})

	total := len(matched)

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	start := (filter.Page - 1) * filter.PageSize
	if start > total {
		start = total
	}
	end := start + filter.PageSize
	if end > total {
		end = total
	}

	return matched[start:end], total, nil
}

func (r *MemoryRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.trips[id]
	if !ok {
		return ErrNotFound
	}
	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryRepository) MarkDeparted(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, t := range r.trips {
		if t.Status == StatusScheduled && !t.StartDate.After(cutoff) {
			t.Status = StatusDeparted
			t.UpdatedAt = time.Now().UTC()
			count++
		}
	}
	return count, nil
}
