package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/export")
	group.Use(authMiddleware, adminMiddleware)

	group.GET("/bookings.csv", h.CSV)
	group.GET("/bookings.ics", h.ICS)
}
