package sweeper

import (
	"context"
	"log"
	"time"

	"github.com/tripwripp/booking-backend/internal/reservation"
	"github.com/tripwripp/booking-backend/internal/trip"
)

// Sweeper periodically reclaims expired holds and marks overdue departures.
// It runs on its own goroutine, decoupled from request handling, and goes
// through the same atomic operations as the user-facing paths.
type Sweeper struct {
	reservations reservation.Service
	trips        trip.Service
	interval     time.Duration
}

// New creates a Sweeper with the given scan interval.
func New(reservations reservation.Service, trips trip.Service, interval time.Duration) *Sweeper {
	return &Sweeper{
		reservations: reservations,
		trips:        trips,
		interval:     interval,
	}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	expired, err := s.reservations.SweepExpired(ctx)
	if err != nil {
		log.Printf("sweeper: expiring holds failed: %v", err)
	}
	if expired > 0 {
		log.Printf("sweeper: expired %d overdue hold(s)", expired)
	}

	departed, err := s.trips.MarkDepartedDue(ctx, time.Now().UTC())
	if err != nil {
		log.Printf("sweeper: marking departed trips failed: %v", err)
	}
	if departed > 0 {
		log.Printf("sweeper: marked %d trip(s) departed", departed)
	}
}
