package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	bookings := g.Group("/bookings")
	bookings.Use(authMiddleware)
	{
		bookings.POST("/:id/checkin-token", h.Issue)
		bookings.GET("/:id/checkin-token", h.Status)
		bookings.GET("/:id/checkin-token/qr", h.QR)
	}

	// Redemption is done by venue staff scanning the customer's code.
	redeem := g.Group("/checkin")
	redeem.Use(authMiddleware, adminMiddleware)
	{
		redeem.POST("/:token", h.Redeem)
	}
}
