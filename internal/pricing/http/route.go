package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/pricing")

	group.POST("/quote", h.Quote)

	rules := group.Group("/rules", authMiddleware, adminMiddleware)
	rules.GET("/:scope", h.GetRules)
	rules.PUT("/:scope", h.SetRules)
}
