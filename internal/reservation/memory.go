package reservation

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is the in-memory Repository used in dev mode and tests.
// One mutex guards the whole map; TransitionState's check-and-set runs under
// it, which gives the same single-winner guarantee as the conditional UPDATE
// in the Postgres implementation.
type MemoryRepository struct {
	mu           sync.Mutex
	reservations map[string]*Reservation
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{reservations: make(map[string]*Reservation)}
}

func (r *MemoryRepository) Create(ctx context.Context, res *Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	res.CreatedAt = now
	res.UpdatedAt = now

	cp := *res
	r.reservations[res.ID] = &cp
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.reservations[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *res
	return &cp, nil
}

func (r *MemoryRepository) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*Reservation
	for _, res := range r.reservations {
		if filter.TripID != "" && res.TripID != filter.TripID {
			continue
		}
		if filter.Status != "" && string(res.Status) != filter.Status {
			continue
		}
		cp := *res
		matched = append(matched, &cp)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
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

func (r *MemoryRepository) TransitionState(ctx context.Context, id string, from, to Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.reservations[id]
	if !ok {
		return false, nil
	}
	if res.Status != from {
		return false, nil
	}
	res.Status = to
	res.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *MemoryRepository) ListExpiredHolds(ctx context.Context, cutoff time.Time, limit int) ([]*Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var expired []*Reservation
	for _, res := range r.reservations {
		if res.Status != StatusHeld || res.ExpiresAt.After(cutoff) {
			continue
		}
		cp := *res
		expired = append(expired, &cp)
	}

	sort.Slice(expired, func(i, j int) bool {
		return expired[i].ExpiresAt.Before(expired[j].ExpiresAt)
	})

	if len(expired) > limit {
		expired = expired[:limit]
	}
	return expired, nil
}
