package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, opsMiddleware gin.HandlerFunc) {
	group := g.Group("/trips")

	// === Public Routes ===
	group.GET("", h.List)
	group.GET("/:id", h.Get)

	// === Ops Routes ===
	group.POST("", opsMiddleware, h.Create)
	group.PATCH("/:id/status", opsMiddleware, h.UpdateStatus)
}
