package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, opsMiddleware gin.HandlerFunc) {
	// Trip-scoped routes.
	g.GET("/trips/:id/gallery", h.ListByTrip)
	g.POST("/trips/:id/gallery", opsMiddleware, h.Upload)

	group := g.Group("/gallery")

	// === Public Routes ===
	group.GET("/:id", h.Download)
	group.GET("/:id/thumbnail", h.DownloadThumbnail)

	// === Ops Routes ===
	group.DELETE("/:id", opsMiddleware, h.Delete)
}
