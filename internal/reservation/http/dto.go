package http

import (
	"time"

	"github.com/tripwripp/booking-backend/internal/ledger"
	"github.com/tripwripp/booking-backend/internal/pkg/request"
	"github.com/tripwripp/booking-backend/internal/reservation"
)

type ContactBody struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone"`
}

type CreateHoldBody struct {
	TripID              string      `json:"trip_id" binding:"required,uuid"`
	PartySize           int         `json:"party_size" binding:"required,min=1"`
	Holder              ContactBody `json:"holder" binding:"required"`
	HoldDurationSeconds int         `json:"hold_duration_seconds" binding:"omitempty,min=1"`
}

// ListReservationsRequest defines query parameters for the ops listing.
type ListReservationsRequest struct {
	request.ListParams
	TripID string `form:"trip_id" binding:"omitempty,uuid"`
	Status string `form:"status" binding:"omitempty,oneof=held confirmed expired cancelled"`
}

type ContactResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type ReservationResponse struct {
	ID        string          `json:"id"`
	TripID    string          `json:"trip_id"`
	PartySize int             `json:"party_size"`
	Holder    ContactResponse `json:"holder"`
	Status    string          `json:"status"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func NewReservationResponse(r *reservation.Reservation) ReservationResponse {
	resp := ReservationResponse{
		ID:        r.ID,
		TripID:    r.TripID,
		PartySize: r.PartySize,
		Holder: ContactResponse{
			Name:  r.Holder.Name,
			Email: r.Holder.Email,
			Phone: r.Holder.Phone,
		},
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}

	// The expiry deadline only means something while the hold is live.
	if r.Status == reservation.StatusHeld {
		expiresAt := r.ExpiresAt
		resp.ExpiresAt = &expiresAt
	}

	return resp
}

// AvailabilityResponse mirrors the site's "N/M slots" display.
type AvailabilityResponse struct {
	TripID         string `json:"trip_id"`
	TotalSlots     int    `json:"total_slots"`
	AvailableSlots int    `json:"available_slots"`
}

func NewAvailabilityResponse(e ledger.Entry) AvailabilityResponse {
	return AvailabilityResponse{
		TripID:         e.TripID,
		TotalSlots:     e.TotalSlots,
		AvailableSlots: e.Available(),
	}
}
