package http

import (
	"time"

	"github.com/eventsfp/booking-backend/internal/booking"
	"github.com/eventsfp/booking-backend/internal/pkg/request"
)

type CreateBody struct {
	EventID      string    `json:"event_id" binding:"required,uuid"`
	StartTime    time.Time `json:"start_time" binding:"required"`
	Participants int       `json:"participants" binding:"required,min=1"`
	ResourceIDs  []string  `json:"resource_ids" binding:"omitempty,dive,uuid"`
	Notes        string    `json:"notes" binding:"max=1000"`
}

type UpdateStatusBody struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed checked_in no_show cancelled"`
}

type ListBookingsRequest struct {
	request.ListParams
	EventID    string     `form:"event_id" binding:"omitempty,uuid"`
	CustomerID string     `form:"customer_id" binding:"omitempty,uuid"`
	Status     string     `form:"status" binding:"omitempty,oneof=pending confirmed checked_in no_show cancelled"`
	From       *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To         *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}

type Response struct {
	ID            string    `json:"id"`
	EventID       string    `json:"event_id"`
	EventName     string    `json:"event_name,omitempty"`
	CustomerID    string    `json:"customer_id"`
	CustomerEmail string    `json:"customer_email,omitempty"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Participants  int       `json:"participants"`
	UnitPrice     float64   `json:"unit_price"`
	TotalPrice    float64   `json:"total_price"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewResponse(b *booking.Booking) Response {
	return Response{
		ID:            b.ID,
		EventID:       b.EventID,
		EventName:     b.EventName,
		CustomerID:    b.CustomerID,
		CustomerEmail: b.CustomerEmail,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		Participants:  b.Participants,
		UnitPrice:     b.UnitPrice,
		TotalPrice:    b.TotalPrice,
		Status:        string(b.Status),
		Notes:         b.Notes,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
