package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/calendar/feeds")

	// Token-keyed; no session required.
	group.GET("/:token", h.Serve)

	admin := group.Group("")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("", h.Create)
		admin.GET("", h.List)
		admin.DELETE("/:id", h.Delete)
	}
}
