package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tripwripp/booking-backend/internal/pkg/response"
	"github.com/tripwripp/booking-backend/internal/trip"
)

type Handler struct {
	service trip.Service
}

func NewHandler(service trip.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var req ListTripsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := trip.Filter{
		Status:   req.Status,
		Country:  req.Country,
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	trips, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]TripResponse, len(trips))
	for i, t := range trips {
		items[i] = NewTripResponse(t)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	t, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewTripResponse(t))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateTripBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	req := trip.CreateRequest{
		Name:           body.Name,
		Country:        body.Country,
		Region:         body.Region,
		Description:    body.Description,
		StartDate:      body.StartDate,
		EndDate:        body.EndDate,
		TotalSlots:     body.TotalSlots,
		PricePerPerson: body.PricePerPerson,
	}

	t, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewTripResponse(t))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateTripStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	t, err := h.service.UpdateStatus(c.Request.Context(), id, trip.Status(body.Status))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewTripResponse(t))
}
