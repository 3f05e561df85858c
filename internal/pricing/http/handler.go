package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eventsfp/booking-backend/internal/auth"
	"github.com/eventsfp/booking-backend/internal/event"
	"github.com/eventsfp/booking-backend/internal/pkg/response"
	"github.com/eventsfp/booking-backend/internal/pricing"
)

// EventSource resolves the event a quote is priced against.
type EventSource interface {
	GetByID(ctx context.Context, id string) (*event.Event, error)
}

type QuoteBody struct {
	EventID      string    `json:"event_id" binding:"required,uuid"`
	StartTime    time.Time `json:"start_time" binding:"required"`
	Participants int       `json:"participants" binding:"required,min=1"`
}

type Handler struct {
	service pricing.Service
	events  EventSource
}

func NewHandler(service pricing.Service, events EventSource) *Handler {
	return &Handler{service: service, events: events}
}

// Quote prices one participant seat for an event slot and returns the full
// adjustment breakdown. Anonymous quotes skip the loyalty step.
func (h *Handler) Quote(c *gin.Context) {
	var body QuoteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	ev, err := h.events.GetByID(c.Request.Context(), body.EventID)
	if err != nil {
		response.Error(c, err)
		return
	}

	quote, err := h.service.QuoteUnit(c.Request.Context(), ev, body.StartTime, body.Participants, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

// validScope accepts the global scope or an event UUID.
func validScope(scope string) bool {
	if scope == pricing.GlobalScope {
		return true
	}
	_, err := uuid.Parse(scope)
	return err == nil
}

// GetRules returns the effective rule set for the scope, including the
// fallback to global and built-in defaults.
func (h *Handler) GetRules(c *gin.Context) {
	scope := c.Param("scope")
	if !validScope(scope) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scope must be 'global' or an event UUID"})
		return
	}

	rules, err := h.service.RulesForEvent(c.Request.Context(), scope)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, rules)
}

func (h *Handler) SetRules(c *gin.Context) {
	scope := c.Param("scope")
	if !validScope(scope) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scope must be 'global' or an event UUID"})
		return
	}

	var rules pricing.Rules
	if err := c.ShouldBindJSON(&rules); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := h.service.SetRules(c.Request.Context(), scope, rules); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
