package booking

import (
	"net/http"
	"time"

	"github.com/eventsfp/booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound                = apperror.New(http.StatusNotFound, "booking not found")
	ErrTimeConflict            = apperror.New(http.StatusConflict, "requested time is no longer available")
	ErrCapacityExceeded        = apperror.New(http.StatusConflict, "event capacity exceeded for this date")
	ErrInvalidStatusTransition = apperror.New(http.StatusBadRequest, "invalid status transition")
	ErrInvalidParticipants     = apperror.New(http.StatusBadRequest, "participants must be positive")
	ErrPastStartTime           = apperror.New(http.StatusBadRequest, "start time must be in the future")
	ErrOutsideHours            = apperror.New(http.StatusBadRequest, "requested time is outside resource availability hours")
	ErrEventInactive           = apperror.New(http.StatusBadRequest, "event is not open for booking")
	ErrForbidden               = apperror.New(http.StatusForbidden, "not allowed to access this booking")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCheckedIn Status = "checked_in"
	StatusNoShow    Status = "no_show"
	StatusCancelled Status = "cancelled"
)

// transitions is the allowed status graph. Terminal states have no entry.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCheckedIn, StatusNoShow, StatusCancelled},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known booking status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedIn, StatusNoShow, StatusCancelled:
		return true
	}
	return false
}

// Booking is a customer's reservation of an event slot. Bookings are never
// hard-deleted; cancellation is a status change so history survives.
type Booking struct {
	ID           string
	EventID      string
	CustomerID   string
	StartTime    time.Time
	EndTime      time.Time
	Participants int
	UnitPrice    float64
	TotalPrice   float64
	Status       Status
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined for display and export.
	EventName     string
	CustomerEmail string
}

// Filter defines parameters for listing bookings.
type Filter struct {
	EventID    string
	CustomerID string
	Status     Status
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
	SortOrder  string
}
