package reservation

import (
	"net/http"
	"time"

	"github.com/tripwripp/booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "reservation not found")
	ErrAlreadyTerminal  = apperror.New(http.StatusConflict, "reservation is already finalized")
	ErrExpired          = apperror.New(http.StatusGone, "reservation hold has expired")
	ErrInvalidPartySize = apperror.New(http.StatusBadRequest, "party size must be at least 1")
	ErrInvalidDuration  = apperror.New(http.StatusBadRequest, "invalid hold duration")
)

type Status string

const (
	StatusHeld      Status = "held"
	StatusConfirmed Status = "confirmed"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s != StatusHeld
}

// Contact is the holder's contact payload. The core does not validate it
// beyond presence; notification delivery is someone else's job.
type Contact struct {
	Name  string
	Email string
	Phone string
}

// Reservation is one party's claim against a trip. PartySize is the unit
// debited and credited against the trip's ledger. ExpiresAt is meaningful
// only while Status is held.
type Reservation struct {
	ID        string
	TripID    string
	PartySize int
	Holder    Contact
	Status    Status
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Filter struct {
	TripID   string
	Status   string
	Page     int
	PageSize int
}
