package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eventsfp/booking-backend/internal/calendarfeed"
	"github.com/eventsfp/booking-backend/internal/pkg/response"
)

type CreateBody struct {
	Name       string     `json:"name" binding:"required"`
	Scope      string     `json:"scope" binding:"required,oneof=public event customer"`
	EventID    *string    `json:"event_id" binding:"omitempty,uuid"`
	CustomerID *string    `json:"customer_id" binding:"omitempty,uuid"`
	ExpiresAt  *time.Time `json:"expires_at"`
}

type Response struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Token      string     `json:"token"`
	Scope      string     `json:"scope"`
	EventID    *string    `json:"event_id,omitempty"`
	CustomerID *string    `json:"customer_id,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func NewResponse(f *calendarfeed.Feed) Response {
	return Response{
		ID:         f.ID,
		Name:       f.Name,
		Token:      f.Token,
		Scope:      string(f.Scope),
		EventID:    f.EventID,
		CustomerID: f.CustomerID,
		ExpiresAt:  f.ExpiresAt,
		CreatedAt:  f.CreatedAt,
	}
}

type Handler struct {
	service calendarfeed.Service
}

func NewHandler(service calendarfeed.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	f, err := h.service.Create(c.Request.Context(), calendarfeed.CreateRequest{
		Name:       body.Name,
		Scope:      calendarfeed.Scope(body.Scope),
		EventID:    body.EventID,
		CustomerID: body.CustomerID,
		ExpiresAt:  body.ExpiresAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewResponse(f))
}

func (h *Handler) List(c *gin.Context) {
	feeds, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]Response, len(feeds))
	for i, f := range feeds {
		items[i] = NewResponse(f)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Serve renders the public feed. The token path segment may carry an .ics
// suffix so calendar clients accept the URL.
func (h *Handler) Serve(c *gin.Context) {
	token := strings.TrimSuffix(c.Param("token"), ".ics")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	name, ics, err := h.service.Render(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+name+`.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", ics)
}
