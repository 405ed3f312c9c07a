package reservation

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/tripwripp/booking-backend/internal/ledger"
	"github.com/tripwripp/booking-backend/internal/trip"
)

// sweepBatchSize bounds how many expired holds one sweep pass loads at once.
const sweepBatchSize = 100

type HoldRequest struct {
	TripID       string
	PartySize    int
	Holder       Contact
	HoldDuration time.Duration
}

type Service interface {
	// CreateHold places a provisional claim on trip capacity. The hold
	// must be confirmed before it expires or the slots return to
	// availability.
	CreateHold(ctx context.Context, req HoldRequest) (*Reservation, error)

	// Confirm makes a held reservation permanent. A hold at or past its
	// expiry is expired on the spot and ErrExpired returned; the caller
	// must re-hold.
	Confirm(ctx context.Context, id string) (*Reservation, error)

	// Cancel finalizes a held or confirmed reservation and returns its
	// slots to availability.
	Cancel(ctx context.Context, id string) (*Reservation, error)

	GetByID(ctx context.Context, id string) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)

	// Availability returns the trip's current capacity account.
	Availability(ctx context.Context, tripID string) (ledger.Entry, error)

	// SweepExpired expires overdue holds and reclaims their slots.
	// Returns how many reservations were expired.
	SweepExpired(ctx context.Context) (int, error)
}

type service struct {
	repo   Repository
	ledger ledger.Ledger
	trips  trip.Service
	now    func() time.Time
}

// Option configures the service.
type Option func(*service)

// WithClock overrides the time source. Lazy expiry on confirm and the
// sweeper both compare against this clock, so there is a single definition
// of "expired".
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

func NewService(repo Repository, l ledger.Ledger, trips trip.Service, opts ...Option) Service {
	s := &service{
		repo:   repo,
		ledger: l,
		trips:  trips,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) CreateHold(ctx context.Context, req HoldRequest) (*Reservation, error) {
	if req.PartySize < 1 {
		return nil, ErrInvalidPartySize
	}
	if req.HoldDuration <= 0 {
		return nil, ErrInvalidDuration
	}

	t, err := s.trips.GetByID(ctx, req.TripID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !t.Bookable(now) {
		return nil, trip.ErrNotBookable
	}

	// The atomic check-and-increment. On rejection no reservation record
	// is created.
	if err := s.ledger.TryHold(ctx, req.TripID, req.PartySize); err != nil {
		return nil, err
	}

	res := &Reservation{
		ID:        uuid.New().String(),
		TripID:    req.TripID,
		PartySize: req.PartySize,
		Holder:    req.Holder,
		Status:    StatusHeld,
		ExpiresAt: now.Add(req.HoldDuration),
	}

	if err := s.repo.Create(ctx, res); err != nil {
		// Give the slots back; the hold was never recorded.
		if relErr := s.ledger.Release(ctx, req.TripID, req.PartySize); relErr != nil {
			log.Printf("failed to release slots after create failure for trip %s: %v", req.TripID, relErr)
		}
		return nil, err
	}

	return res, nil
}

func (s *service) Confirm(ctx context.Context, id string) (*Reservation, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if res.Status.Terminal() {
		if res.Status == StatusExpired {
			return nil, ErrExpired
		}
		return nil, ErrAlreadyTerminal
	}

	// Lazy expiry: an overdue hold can never be confirmed, whether or not
	// the sweeper has reached it yet.
	if !s.now().Before(res.ExpiresAt) {
		s.expire(ctx, res)
		return nil, ErrExpired
	}

	ok, err := s.repo.TransitionState(ctx, id, StatusHeld, StatusConfirmed)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race against a concurrent cancel or sweep.
		return nil, s.terminalError(ctx, id)
	}

	if err := s.ledger.Confirm(ctx, res.TripID, res.PartySize); err != nil {
		return nil, err
	}

	res.Status = StatusConfirmed
	return res, nil
}

func (s *service) Cancel(ctx context.Context, id string) (*Reservation, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch res.Status {
	case StatusHeld:
		ok, err := s.repo.TransitionState(ctx, id, StatusHeld, StatusCancelled)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, s.terminalError(ctx, id)
		}
		if err := s.ledger.Release(ctx, res.TripID, res.PartySize); err != nil {
			return nil, err
		}

	case StatusConfirmed:
		ok, err := s.repo.TransitionState(ctx, id, StatusConfirmed, StatusCancelled)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, s.terminalError(ctx, id)
		}
		if err := s.ledger.ReleaseConfirmed(ctx, res.TripID, res.PartySize); err != nil {
			return nil, err
		}

	default:
		return nil, ErrAlreadyTerminal
	}

	res.Status = StatusCancelled
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Reservation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Availability(ctx context.Context, tripID string) (ledger.Entry, error) {
	return s.ledger.Entry(ctx, tripID)
}

func (s *service) SweepExpired(ctx context.Context) (int, error) {
	count := 0
	for {
		overdue, err := s.repo.ListExpiredHolds(ctx, s.now(), sweepBatchSize)
		if err != nil {
			return count, err
		}

		for _, res := range overdue {
			if s.expire(ctx, res) {
				count++
			}
		}

		if len(overdue) < sweepBatchSize {
			return count, nil
		}
	}
}

// expire transitions a held reservation to expired and reclaims its slots.
// The state guard makes it safe against concurrent confirm/cancel: only the
// winner of the transition releases the ledger.
func (s *service) expire(ctx context.Context, res *Reservation) bool {
	ok, err := s.repo.TransitionState(ctx, res.ID, StatusHeld, StatusExpired)
	if err != nil {
		log.Printf("failed to expire reservation %s: %v", res.ID, err)
		return false
	}
	if !ok {
		return false
	}

	if err := s.ledger.Release(ctx, res.TripID, res.PartySize); err != nil {
		log.Printf("failed to release slots for expired reservation %s: %v", res.ID, err)
	}
	return true
}

// terminalError reports the right error for a reservation that turned
// terminal under a racing caller.
func (s *service) terminalError(ctx context.Context, id string) error {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if res.Status == StatusExpired {
		return ErrExpired
	}
	return ErrAlreadyTerminal
}
