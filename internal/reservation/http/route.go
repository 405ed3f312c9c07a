package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, opsMiddleware, writeLimiter gin.HandlerFunc) {
	// Availability lives under the trip path to match how clients browse.
	g.GET("/trips/:id/availability", h.Availability)

	group := g.Group("/reservations")

	// === Public Routes ===
	group.POST("", writeLimiter, h.CreateHold)
	group.POST("/:id/confirm", writeLimiter, h.Confirm)
	group.POST("/:id/cancel", writeLimiter, h.Cancel)
	group.GET("/:id", h.Get)

	// === Ops Routes ===
	group.GET("", opsMiddleware, h.List)
}
