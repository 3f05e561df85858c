package http

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eventsfp/booking-backend/internal/booking"
	"github.com/eventsfp/booking-backend/internal/export"
	"github.com/eventsfp/booking-backend/internal/pkg/response"
)

type ExportRequest struct {
	EventID string     `form:"event_id" binding:"omitempty,uuid"`
	Status  string     `form:"status" binding:"omitempty,oneof=pending confirmed checked_in no_show cancelled"`
	From    *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To      *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}

type Handler struct {
	bookings booking.Service
}

func NewHandler(bookings booking.Service) *Handler {
	return &Handler{bookings: bookings}
}

func (h *Handler) load(c *gin.Context) ([]*booking.Booking, bool) {
	var req ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return nil, false
	}

	// PageSize 0 disables pagination; exports cover the whole range.
	bookings, _, err := h.bookings.List(c.Request.Context(), booking.Filter{
		EventID:   req.EventID,
		Status:    booking.Status(req.Status),
		From:      req.From,
		To:        req.To,
		SortOrder: "asc",
	})
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return bookings, true
}

func (h *Handler) CSV(c *gin.Context) {
	bookings, ok := h.load(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteBookingsCSV(&buf, bookings); err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="bookings.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *Handler) ICS(c *gin.Context) {
	bookings, ok := h.load(c)
	if !ok {
		return
	}

	events := make([]export.ICSEvent, 0, len(bookings))
	for _, b := range bookings {
		if b.Status == booking.StatusCancelled {
			continue
		}
		events = append(events, export.ICSEvent{
			UID:         b.ID + "@eventsfp",
			Summary:     b.EventName,
			Description: b.Notes,
			Start:       b.StartTime,
			End:         b.EndTime,
		})
	}

	var buf bytes.Buffer
	if err := export.WriteICS(&buf, "Bookings", events, time.Now()); err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="bookings.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
}
