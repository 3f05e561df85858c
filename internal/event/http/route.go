package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/events")

	// === Public Catalog ===
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.GET("/:id/resources", h.GetResources)

	// === Admin Routes ===
	admin := group.Group("")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("", h.Create)
		admin.PATCH("/:id", h.Update)
		admin.DELETE("/:id", h.Deactivate)
		admin.PUT("/:id/resources", h.SetResources)
	}
}
