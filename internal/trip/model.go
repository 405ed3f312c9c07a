package trip

import (
	"net/http"
	"time"

	"github.com/tripwripp/booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound      = apperror.New(http.StatusNotFound, "trip not found")
	ErrNotBookable   = apperror.New(http.StatusConflict, "trip is not open for booking")
	ErrInvalidStatus = apperror.New(http.StatusBadRequest, "invalid trip status")
	ErrInvalidDates  = apperror.New(http.StatusBadRequest, "departure must be before return and in the future")
	ErrInvalidSlots  = apperror.New(http.StatusBadRequest, "total slots must be at least 1")
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusDeparted  Status = "departed"
	StatusCancelled Status = "cancelled"
)

// Trip is a fixed-date departure with finite capacity. TotalSlots is
// immutable after creation; capacity accounting lives in the ledger.
type Trip struct {
	ID             string
	Name           string
	Country        string
	Region         string
	Description    string
	StartDate      time.Time
	EndDate        time.Time
	TotalSlots     int
	PricePerPerson float64
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Bookable reports whether new holds are accepted for the trip at the given
// instant.
func (t *Trip) Bookable(now time.Time) bool {
	return t.Status == StatusScheduled && now.Before(t.StartDate)
}

type Filter struct {
	Status   string
	Country  string
	Page     int
	PageSize int
}
