package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eventsfp/booking-backend/internal/auth"
	"github.com/eventsfp/booking-backend/internal/cart"
	"github.com/eventsfp/booking-backend/internal/pkg/response"
)

type QuoteItemBody struct {
	EventID      string    `json:"event_id" binding:"required,uuid"`
	StartTime    time.Time `json:"start_time" binding:"required"`
	Participants int       `json:"participants" binding:"required,min=1"`
}

type QuoteBody struct {
	Items []QuoteItemBody `json:"items" binding:"required,min=1,dive"`
}

type Handler struct {
	service cart.Service
}

func NewHandler(service cart.Service) *Handler {
	return &Handler{service: service}
}

// Quote prices a prospective cart without reserving anything. Works for
// anonymous visitors; authenticated customers get loyalty pricing.
func (h *Handler) Quote(c *gin.Context) {
	var body QuoteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	items := make([]cart.Item, len(body.Items))
	for i, it := range body.Items {
		items[i] = cart.Item{
			EventID:      it.EventID,
			StartTime:    it.StartTime,
			Participants: it.Participants,
		}
	}

	quote, err := h.service.Quote(c.Request.Context(), auth.GetUserID(c), items)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}
