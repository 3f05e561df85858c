package event

import (
	"net/http"
	"time"

	"github.com/eventsfp/booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, "event not found")
	ErrEmptyName       = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrInvalidPrice    = apperror.New(http.StatusBadRequest, "base price must be positive")
	ErrInvalidCapacity = apperror.New(http.StatusBadRequest, "max capacity must be positive")
	ErrInvalidDuration = apperror.New(http.StatusBadRequest, "duration must be positive")
	ErrInvalidBounds   = apperror.New(http.StatusBadRequest, "min price cannot exceed max price")
	ErrInvalidTimezone = apperror.New(http.StatusBadRequest, "invalid timezone")
)

// DefaultDurationMinutes is used when an event does not configure a duration.
const DefaultDurationMinutes = 60

// Price clamp defaults relative to the base price.
const (
	DefaultMinPriceFactor = 0.5
	DefaultMaxPriceFactor = 2.0
)

// Event is a bookable experience product.
type Event struct {
	ID              string
	Name            string
	Description     string
	Location        string
	Timezone        string
	DurationMinutes int
	BasePrice       float64
	MinPrice        *float64 // nil means DefaultMinPriceFactor × BasePrice
	MaxPrice        *float64 // nil means DefaultMaxPriceFactor × BasePrice
	MaxCapacity     int
	ImageID         *string
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Duration returns the configured slot length.
func (e *Event) Duration() time.Duration {
	minutes := e.DurationMinutes
	if minutes <= 0 {
		minutes = DefaultDurationMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// PriceBounds resolves the clamp range for dynamic pricing.
func (e *Event) PriceBounds() (min, max float64) {
	min = e.BasePrice * DefaultMinPriceFactor
	max = e.BasePrice * DefaultMaxPriceFactor
	if e.MinPrice != nil {
		min = *e.MinPrice
	}
	if e.MaxPrice != nil {
		max = *e.MaxPrice
	}
	return min, max
}

// Filter defines parameters for listing events.
type Filter struct {
	ActiveOnly bool
	Search     string
	Page       int
	PageSize   int
}
