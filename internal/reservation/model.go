package reservation

import (
	"time"
)

// Status mirrors the owning booking's lifecycle. Only active rows block
// other reservations.
type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
)

// Reservation links a resource to a booking for a half-open [start, end)
// time window. No two active rows for the same resource may overlap; the
// booking reserve transaction enforces this under an advisory lock, and a
// database exclusion constraint backstops it.
type Reservation struct {
	ID         string
	ResourceID string
	BookingID  string
	StartTime  time.Time
	EndTime    time.Time
	Status     Status
	CreatedAt  time.Time
}
