package ledger

import (
	"context"
	"sync"
)

// memoryEntry guards one trip's counters with its own mutex so unrelated
// trips never contend.
type memoryEntry struct {
	mu        sync.Mutex
	total     int
	confirmed int
	held      int
}

// MemoryLedger is the in-memory Ledger used in dev mode and tests.
type MemoryLedger struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{entries: make(map[string]*memoryEntry)}
}

func (l *MemoryLedger) CreateEntry(ctx context.Context, tripID string, totalSlots int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.entries[tripID]; ok {
		return ErrAlreadyExists
	}
	l.entries[tripID] = &memoryEntry{total: totalSlots}
	return nil
}

func (l *MemoryLedger) Entry(ctx context.Context, tripID string) (Entry, error) {
	e, err := l.entry(tripID)
	if err != nil {
		return Entry{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return Entry{
		TripID:         tripID,
		TotalSlots:     e.total,
		ConfirmedCount: e.confirmed,
		HeldCount:      e.held,
	}, nil
}

func (l *MemoryLedger) TryHold(ctx context.Context, tripID string, partySize int) error {
	e, err := l.entry(tripID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.total-e.confirmed-e.held < partySize {
		return ErrInsufficientCapacity
	}
	e.held += partySize
	return nil
}

func (l *MemoryLedger) Confirm(ctx context.Context, tripID string, partySize int) error {
	e, err := l.entry(tripID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.held < partySize {
		return ErrInvalidState
	}
	e.held -= partySize
	e.confirmed += partySize
	return nil
}

func (l *MemoryLedger) Release(ctx context.Context, tripID string, partySize int) error {
	e, err := l.entry(tripID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.held < partySize {
		return ErrInvalidState
	}
	e.held -= partySize
	return nil
}

func (l *MemoryLedger) ReleaseConfirmed(ctx context.Context, tripID string, partySize int) error {
	e, err := l.entry(tripID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.confirmed < partySize {
		return ErrInvalidState
	}
	e.confirmed -= partySize
	return nil
}

func (l *MemoryLedger) entry(tripID string) (*memoryEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	e, ok := l.entries[tripID]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}
