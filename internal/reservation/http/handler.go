package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tripwripp/booking-backend/internal/pkg/response"
	"github.com/tripwripp/booking-backend/internal/reservation"
)

type Handler struct {
	service        reservation.Service
	holdTTLDefault time.Duration
	holdTTLMax     time.Duration
}

func NewHandler(service reservation.Service, holdTTLDefault, holdTTLMax time.Duration) *Handler {
	return &Handler{
		service:        service,
		holdTTLDefault: holdTTLDefault,
		holdTTLMax:     holdTTLMax,
	}
}

// holdDuration resolves the requested hold lifetime, clamped to the
// configured maximum.
func (h *Handler) holdDuration(requestedSeconds int) time.Duration {
	if requestedSeconds <= 0 {
		return h.holdTTLDefault
	}
	d := time.Duration(requestedSeconds) * time.Second
	if d > h.holdTTLMax {
		return h.holdTTLMax
	}
	return d
}

func (h *Handler) CreateHold(c *gin.Context) {
	var body CreateHoldBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	req := reservation.HoldRequest{
		TripID:    body.TripID,
		PartySize: body.PartySize,
		Holder: reservation.Contact{
			Name:  body.Holder.Name,
			Email: body.Holder.Email,
			Phone: body.Holder.Phone,
		},
		HoldDuration: h.holdDuration(body.HoldDurationSeconds),
	}

	res, err := h.service.CreateHold(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewReservationResponse(res))
}

func (h *Handler) Confirm(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	res, err := h.service.Confirm(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(res))
}

func (h *Handler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	res, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(res))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	res, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(res))
}

func (h *Handler) List(c *gin.Context) {
	var req ListReservationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := reservation.Filter{
		TripID:   req.TripID,
		Status:   req.Status,
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	reservations, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ReservationResponse, len(reservations))
	for i, r := range reservations {
		items[i] = NewReservationResponse(r)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Availability(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	entry, err := h.service.Availability(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewAvailabilityResponse(entry))
}
