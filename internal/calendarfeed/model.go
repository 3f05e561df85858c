package calendarfeed

import (
	"net/http"
	"time"

	"github.com/eventsfp/booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound     = apperror.New(http.StatusNotFound, "calendar feed not found")
	ErrExpired      = apperror.New(http.StatusGone, "calendar feed has expired")
	ErrInvalidScope = apperror.New(http.StatusBadRequest, "invalid feed scope")
	ErrMissingRef   = apperror.New(http.StatusBadRequest, "feed scope requires a reference id")
)

type Scope string

const (
	// ScopePublic exposes all confirmed upcoming bookings.
	ScopePublic Scope = "public"
	// ScopeEvent narrows the feed to one event's bookings.
	ScopeEvent Scope = "event"
	// ScopeCustomer is a personal feed of one customer's bookings.
	ScopeCustomer Scope = "customer"
)

var ValidScopes = []Scope{ScopePublic, ScopeEvent, ScopeCustomer}

// Feed is a tokenized iCalendar subscription. The token is the only
// credential; feeds can carry an expiry after which they serve 410.
type Feed struct {
	ID         string
	Name       string
	Token      string
	Scope      Scope
	EventID    *string
	CustomerID *string
	ExpiresAt  *time.Time
	CreatedAt  time.Time
}

// Expired reports whether the feed is past its optional expiry.
func (f *Feed) Expired(now time.Time) bool {
	return f.ExpiresAt != nil && now.After(*f.ExpiresAt)
}
