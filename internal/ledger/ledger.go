package ledger

import (
	"context"
	"net/http"

	"github.com/tripwripp/booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound             = apperror.New(http.StatusNotFound, "trip not found")
	ErrAlreadyExists        = apperror.New(http.StatusConflict, "ledger entry already exists for trip")
	ErrInsufficientCapacity = apperror.New(http.StatusConflict, "not enough slots available")

	// ErrInvalidState means a counter would go negative. That only happens
	// when a caller breaks the reservation lifecycle contract, so it maps
	// to 500 and must be surfaced to operators, never retried.
	ErrInvalidState = apperror.New(http.StatusInternalServerError, "slot accounting violation")
)

// Entry is the per-trip capacity account. ConfirmedCount + HeldCount never
// exceeds TotalSlots.
type Entry struct {
	TripID         string
	TotalSlots     int
	ConfirmedCount int
	HeldCount      int
}

// Available returns the number of slots open for new holds.
func (e Entry) Available() int {
	return e.TotalSlots - e.ConfirmedCount - e.HeldCount
}

// Ledger is the capacity-accounting core. Every mutating operation is atomic
// and linearizable with respect to other operations on the same trip;
// operations on different trips proceed independently.
//
// Only the reservation service may call the mutators. The HTTP layer reads
// entries through the reservation service as well.
type Ledger interface {
	// CreateEntry provisions the account for a new trip.
	CreateEntry(ctx context.Context, tripID string, totalSlots int) error

	// Entry returns the current account for a trip.
	Entry(ctx context.Context, tripID string) (Entry, error)

	// TryHold atomically checks Available() >= partySize and increments
	// HeldCount. On ErrInsufficientCapacity the entry is unchanged.
	TryHold(ctx context.Context, tripID string, partySize int) error

	// Confirm moves partySize units from HeldCount to ConfirmedCount. The
	// sum is unchanged, so capacity is never re-checked.
	Confirm(ctx context.Context, tripID string, partySize int) error

	// Release returns partySize held units to availability (cancellation
	// or expiry of a hold).
	Release(ctx context.Context, tripID string, partySize int) error

	// ReleaseConfirmed returns partySize confirmed units to availability
	// (cancellation of a confirmed reservation).
	ReleaseConfirmed(ctx context.Context, tripID string, partySize int) error
}
