package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")
	group.Use(authMiddleware)

	group.POST("", h.Create)
	group.GET("/me", h.ListMine)
	group.GET("/:id", h.Get)
	group.PATCH("/:id/status", h.UpdateStatus)
	group.DELETE("/:id", h.Cancel)

	admin := group.Group("")
	admin.Use(adminMiddleware)
	{
		admin.GET("", h.List)
	}
}
