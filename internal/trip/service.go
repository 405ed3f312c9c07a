package trip

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tripwripp/booking-backend/internal/ledger"
)

type CreateRequest struct {
	Name           string
	Country        string
	Region         string
	Description    string
	StartDate      time.Time
	EndDate        time.Time
	TotalSlots     int
	PricePerPerson float64
}

type Service interface {
	// Create registers a new departure and provisions its slot ledger
	// entry. Ops surface only.
	Create(ctx context.Context, req CreateRequest) (*Trip, error)
	GetByID(ctx context.Context, id string) (*Trip, error)
	List(ctx context.Context, filter Filter) ([]*Trip, int, error)

	// UpdateStatus cancels or departs a scheduled trip. Ops surface only;
	// terminal statuses never change again.
	UpdateStatus(ctx context.Context, id string, status Status) (*Trip, error)

	// MarkDepartedDue transitions scheduled trips whose departure has
	// passed. Called by the background sweeper.
	MarkDepartedDue(ctx context.Context, now time.Time) (int, error)
}

type service struct {
	repo   Repository
	ledger ledger.Ledger
}

func NewService(repo Repository, l ledger.Ledger) Service {
	return &service{
		repo:   repo,
		ledger: l,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Trip, error) {
	if req.TotalSlots < 1 {
		return nil, ErrInvalidSlots
	}
	if !req.StartDate.Before(req.EndDate) || req.StartDate.Before(time.Now().UTC()) {
		return nil, ErrInvalidDates
	}

	t := &Trip{
		ID:             uuid.New().String(),
		Name:           req.Name,
		Country:        req.Country,
		Region:         req.Region,
		Description:    req.Description,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		TotalSlots:     req.TotalSlots,
		PricePerPerson: req.PricePerPerson,
		Status:         StatusScheduled,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	if err := s.ledger.CreateEntry(ctx, t.ID, t.TotalSlots); err != nil {
		return nil, err
	}

	return t, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Trip, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Trip, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) UpdateStatus(ctx context.Context, id string, status Status) (*Trip, error) {
	if status != StatusCancelled && status != StatusDeparted {
		return nil, ErrInvalidStatus
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status != StatusScheduled {
		return nil, ErrInvalidStatus
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	t.Status = status
	return t, nil
}

func (s *service) MarkDepartedDue(ctx context.Context, now time.Time) (int, error) {
	return s.repo.MarkDeparted(ctx, now)
}
