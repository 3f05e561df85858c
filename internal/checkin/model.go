package checkin

import (
	"net/http"
	"time"

	"github.com/eventsfp/booking-backend/internal/pkg/apperror"
)

var (
	ErrTokenNotFound       = apperror.New(http.StatusNotFound, "check-in token not found")
	ErrTokenExpired        = apperror.New(http.StatusGone, "check-in token has expired")
	ErrTokenUsed           = apperror.New(http.StatusConflict, "check-in token already used")
	ErrBookingNotConfirmed = apperror.New(http.StatusBadRequest, "booking is not confirmed")
	ErrForbidden           = apperror.New(http.StatusForbidden, "not allowed to manage this booking's check-in")
)

type Status string

const (
	// StatusNoToken is the derived state for bookings without a token.
	StatusNoToken Status = "no_token"
	StatusActive  Status = "active"
	StatusUsed    Status = "used"
	StatusExpired Status = "expired"
)

// Token is a single-use check-in credential for a booking. Issuing a new
// token replaces any previous one.
type Token struct {
	ID        string
	BookingID string
	Token     string
	Status    Status
	ExpiresAt time.Time
	CreatedAt time.Time
	UsedAt    *time.Time
}

// Expired reports whether the token is past its expiry, regardless of
// whether the sweeper has flipped the stored status yet.
func (t *Token) Expired(now time.Time) bool {
	return t.Status == StatusExpired || now.After(t.ExpiresAt)
}
