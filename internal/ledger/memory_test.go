package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLedgerTryHold(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()
	require.NoError(t, l.CreateEntry(ctx, "trip-1", 5))

	require.NoError(t, l.TryHold(ctx, "trip-1", 3))

	e, err := l.Entry(ctx, "trip-1")
	require.NoError(t, err)
	assert.Equal(t, 3, e.HeldCount)
	assert.Equal(t, 2, e.Available())

	// Rejection leaves the entry untouched.
	err = l.TryHold(ctx, "trip-1", 3)
	require.ErrorIs(t, err, ErrInsufficientCapacity)

	e, err = l.Entry(ctx, "trip-1")
	require.NoError(t, err)
	assert.Equal(t, 3, e.HeldCount)
	assert.Equal(t, 0, e.ConfirmedCount)

	// Exactly filling the remaining capacity is allowed.
	require.NoError(t, l.TryHold(ctx, "trip-1", 2))

	e, err = l.Entry(ctx, "trip-1")
	require.NoError(t, err)
	assert.Equal(t, 0, e.Available())
}

func TestMemoryLedgerUnknownTrip(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()

	_, err := l.Entry(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, l.TryHold(ctx, "nope", 1), ErrNotFound)
	assert.ErrorIs(t, l.Confirm(ctx, "nope", 1), ErrNotFound)
	assert.ErrorIs(t, l.Release(ctx, "nope", 1), ErrNotFound)
	assert.ErrorIs(t, l.ReleaseConfirmed(ctx, "nope", 1), ErrNotFound)
}

func TestMemoryLedgerDuplicateEntry(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()
	require.NoError(t, l.CreateEntry(ctx, "trip-1", 5))
	assert.ErrorIs(t, l.CreateEntry(ctx, "trip-1", 5), ErrAlreadyExists)
}

func TestMemoryLedgerConfirmAndRelease(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()
	require.NoError(t, l.CreateEntry(ctx, "trip-1", 4))

	require.NoError(t, l.TryHold(ctx, "trip-1", 2))
	require.NoError(t, l.Confirm(ctx, "trip-1", 2))

	e, err := l.Entry(ctx, "trip-1")
	require.NoError(t, err)
	assert.Equal(t, 2, e.ConfirmedCount)
	assert.Equal(t, 0, e.HeldCount)
	assert.Equal(t, 2, e.Available())

	// No held units remain, so another release is a contract violation.
	assert.ErrorIs(t, l.Release(ctx, "trip-1", 1), ErrInvalidState)
	assert.ErrorIs(t, l.Confirm(ctx, "trip-1", 1), ErrInvalidState)

	// Cancelling a confirmed reservation frees its capacity.
	require.NoError(t, l.ReleaseConfirmed(ctx, "trip-1", 2))

	e, err = l.Entry(ctx, "trip-1")
	require.NoError(t, err)
	assert.Equal(t, 0, e.ConfirmedCount)
	assert.Equal(t, 4, e.Available())

	assert.ErrorIs(t, l.ReleaseConfirmed(ctx, "trip-1", 1), ErrInvalidState)
}

func TestMemoryLedgerNeverOversells(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()

	const totalSlots = 10
	const attempts = 100
	require.NoError(t, l.CreateEntry(ctx, "trip-1", totalSlots))

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.TryHold(ctx, "trip-1", 1); err == nil {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, totalSlots, admitted)

	e, err := l.Entry(ctx, "trip-1")
	require.NoError(t, err)
	assert.Equal(t, totalSlots, e.HeldCount)
	assert.Equal(t, 0, e.Available())
	assert.LessOrEqual(t, e.ConfirmedCount+e.HeldCount, e.TotalSlots)
}

func TestMemoryLedgerConservation(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()

	const totalSlots = 20
	require.NoError(t, l.CreateEntry(ctx, "trip-1", totalSlots))

	// Every admitted hold is either confirmed or released; nothing may be
	// lost or double-counted.
	var wg sync.WaitGroup
	var mu sync.Mutex
	confirmed := 0

	for i := 0; i < 60; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := l.TryHold(ctx, "trip-1", 1); err != nil {
				return
			}
			if i%2 == 0 {
				if err := l.Confirm(ctx, "trip-1", 1); err == nil {
					mu.Lock()
					confirmed++
					mu.Unlock()
				}
			} else {
				_ = l.Release(ctx, "trip-1", 1)
			}
		}(i)
	}
	wg.Wait()

	e, err := l.Entry(ctx, "trip-1")
	require.NoError(t, err)
	assert.Equal(t, confirmed, e.ConfirmedCount)
	assert.Equal(t, 0, e.HeldCount)
	assert.Equal(t, totalSlots-confirmed, e.Available())
}

func TestMemoryLedgerIndependentTrips(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()
	require.NoError(t, l.CreateEntry(ctx, "trip-1", 1))
	require.NoError(t, l.CreateEntry(ctx, "trip-2", 1))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tripID := "trip-1"
			if i%2 == 0 {
				tripID = "trip-2"
			}
			if err := l.TryHold(ctx, tripID, 1); err == nil {
				_ = l.Release(ctx, tripID, 1)
			}
		}(i)
	}
	wg.Wait()

	for _, tripID := range []string{"trip-1", "trip-2"} {
		e, err := l.Entry(ctx, tripID)
		require.NoError(t, err)
		assert.Equal(t, 1, e.Available(), "trip %s should be fully available again", tripID)
	}
}
