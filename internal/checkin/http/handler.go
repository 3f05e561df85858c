package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eventsfp/booking-backend/internal/auth"
	"github.com/eventsfp/booking-backend/internal/checkin"
	"github.com/eventsfp/booking-backend/internal/pkg/response"
)

type TokenResponse struct {
	BookingID string    `json:"booking_id"`
	Token     string    `json:"token"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expires_at"`
}

type RedeemResponse struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}

type Handler struct {
	service checkin.Service
	qr      *checkin.QRProvider
}

func NewHandler(service checkin.Service, qr *checkin.QRProvider) *Handler {
	return &Handler{service: service, qr: qr}
}

func (h *Handler) Issue(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	t, err := h.service.Issue(c.Request.Context(), auth.GetUserID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, TokenResponse{
		BookingID: t.BookingID,
		Token:     t.Token,
		Status:    string(t.Status),
		ExpiresAt: t.ExpiresAt,
	})
}

func (h *Handler) Status(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	status, err := h.service.StatusFor(c.Request.Context(), auth.GetUserID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// QR renders the booking's active token as a PNG for scanning at the venue.
func (h *Handler) QR(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	t, err := h.service.TokenFor(c.Request.Context(), auth.GetUserID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	png, err := h.qr.PNG(c.Request.Context(), t.Token)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

func (h *Handler) Redeem(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	b, err := h.service.Redeem(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, RedeemResponse{
		BookingID: b.ID,
		Status:    string(b.Status),
	})
}
