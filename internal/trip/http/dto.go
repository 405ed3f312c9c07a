package http

import (
	"time"

	"github.com/tripwripp/booking-backend/internal/pkg/request"
	"github.com/tripwripp/booking-backend/internal/trip"
)

// ListTripsRequest defines query parameters for listing trips.
type ListTripsRequest struct {
	request.ListParams
	Status  string `form:"status" binding:"omitempty,oneof=scheduled departed cancelled"`
	Country string `form:"country"`
}

type TripResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Country        string    `json:"country"`
	Region         string    `json:"region"`
	Description    string    `json:"description"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	TotalSlots     int       `json:"total_slots"`
	PricePerPerson float64   `json:"price_per_person"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewTripResponse(t *trip.Trip) TripResponse {
	return TripResponse{
		ID:             t.ID,
		Name:           t.Name,
		Country:        t.Country,
		Region:         t.Region,
		Description:    t.Description,
		StartDate:      t.StartDate,
		EndDate:        t.EndDate,
		TotalSlots:     t.TotalSlots,
		PricePerPerson: t.PricePerPerson,
		Status:         string(t.Status),
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

type CreateTripBody struct {
	Name           string    `json:"name" binding:"required"`
	Country        string    `json:"country" binding:"required"`
	Region         string    `json:"region"`
	Description    string    `json:"description"`
	StartDate      time.Time `json:"start_date" binding:"required"`
	EndDate        time.Time `json:"end_date" binding:"required"`
	TotalSlots     int       `json:"total_slots" binding:"required,min=1"`
	PricePerPerson float64   `json:"price_per_person" binding:"required,gt=0"`
}

type UpdateTripStatusBody struct {
	Status string `json:"status" binding:"required,oneof=departed cancelled"`
}
