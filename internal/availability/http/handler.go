package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eventsfp/booking-backend/internal/availability"
	"github.com/eventsfp/booking-backend/internal/pkg/response"
)

type CheckRequest struct {
	EventID     string    `form:"event_id" binding:"required,uuid"`
	StartTime   time.Time `form:"start_time" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	ResourceIDs []string  `form:"resource_ids" binding:"omitempty,dive,uuid"`
}

type Handler struct {
	checker *availability.Checker
}

func NewHandler(checker *availability.Checker) *Handler {
	return &Handler{checker: checker}
}

// Check answers whether an event slot can be booked. The verdict is
// advisory; the booking flow re-checks atomically before reserving.
func (h *Handler) Check(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	result, err := h.checker.Check(c.Request.Context(), req.EventID, req.StartTime, req.ResourceIDs)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
