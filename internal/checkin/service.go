package checkin

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eventsfp/booking-backend/internal/booking"
	"github.com/eventsfp/booking-backend/internal/user"
)

// tokenBytes yields a 32-character hex token.
const tokenBytes = 16

// Bookings is the slice of the booking module the check-in flow needs.
// Redemption authorizes by token possession, not by actor.
type Bookings interface {
	GetByID(ctx context.Context, id string) (*booking.Booking, error)
	MarkCheckedIn(ctx context.Context, id string) error
}

// Notifier enqueues the post-check-in notification. Best-effort; redemption
// never fails on a notification error.
type Notifier interface {
	CheckinCompleted(ctx context.Context, bookingID string) error
}

// TokenStatus is the derived check-in state exposed to clients.
type TokenStatus struct {
	BookingID string     `json:"booking_id"`
	Status    Status     `json:"status"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
}

type Service interface {
	// Issue creates a fresh token for a confirmed booking, replacing any
	// previous one. Only the booking owner or an admin may issue.
	Issue(ctx context.Context, actorID, bookingID string) (*Token, error)
	// Redeem validates the token and flips the booking to checked_in.
	Redeem(ctx context.Context, token string) (*booking.Booking, error)
	StatusFor(ctx context.Context, actorID, bookingID string) (*TokenStatus, error)
	// TokenFor returns the booking's active token for rendering.
	TokenFor(ctx context.Context, actorID, bookingID string) (*Token, error)
	// ExpireStale sweeps active tokens past their expiry.
	ExpireStale(ctx context.Context) (int64, error)
}

type service struct {
	repo     Repository
	bookings Bookings
	users    user.Service
	notifier Notifier
	tokenTTL time.Duration
	logger   *zap.Logger
}

func NewService(
	repo Repository,
	bookings Bookings,
	users user.Service,
	notifier Notifier,
	tokenTTL time.Duration,
	logger *zap.Logger,
) Service {
	return &service{
		repo:     repo,
		bookings: bookings,
		users:    users,
		notifier: notifier,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate check-in token failed: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func (s *service) Issue(ctx context.Context, actorID, bookingID string) (*Token, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actorID, b); err != nil {
		return nil, err
	}
	if b.Status != booking.StatusConfirmed {
		return nil, ErrBookingNotConfirmed
	}

	value, err := generateToken()
	if err != nil {
		return nil, err
	}

	t := &Token{
		BookingID: b.ID,
		Token:     value,
		Status:    StatusActive,
		ExpiresAt: time.Now().Add(s.tokenTTL),
	}
	if err := s.repo.Replace(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("check-in token issued",
		zap.String("booking_id", b.ID),
		zap.Time("expires_at", t.ExpiresAt),
	)
	return t, nil
}

func (s *service) Redeem(ctx context.Context, token string) (*booking.Booking, error) {
	t, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if t.Expired(now) {
		return nil, ErrTokenExpired
	}
	if t.Status == StatusUsed {
		return nil, ErrTokenUsed
	}

	b, err := s.bookings.GetByID(ctx, t.BookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != booking.StatusConfirmed {
		return nil, ErrBookingNotConfirmed
	}

	if err := s.bookings.MarkCheckedIn(ctx, b.ID); err != nil {
		return nil, err
	}
	if err := s.repo.MarkUsed(ctx, t.ID, now); err != nil {
		return nil, err
	}
	b.Status = booking.StatusCheckedIn

	if err := s.notifier.CheckinCompleted(ctx, b.ID); err != nil {
		s.logger.Warn("failed to enqueue check-in notification",
			zap.String("booking_id", b.ID), zap.Error(err))
	}

	s.logger.Info("booking checked in", zap.String("booking_id", b.ID))
	return b, nil
}

func (s *service) StatusFor(ctx context.Context, actorID, bookingID string) (*TokenStatus, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actorID, b); err != nil {
		return nil, err
	}

	t, err := s.repo.GetByBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return &TokenStatus{BookingID: bookingID, Status: StatusNoToken}, nil
		}
		return nil, err
	}

	status := t.Status
	if t.Expired(time.Now()) {
		status = StatusExpired
	}
	return &TokenStatus{
		BookingID: bookingID,
		Status:    status,
		ExpiresAt: &t.ExpiresAt,
		UsedAt:    t.UsedAt,
	}, nil
}

func (s *service) TokenFor(ctx context.Context, actorID, bookingID string) (*Token, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actorID, b); err != nil {
		return nil, err
	}

	t, err := s.repo.GetByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if t.Expired(time.Now()) {
		return nil, ErrTokenExpired
	}
	if t.Status == StatusUsed {
		return nil, ErrTokenUsed
	}
	return t, nil
}

func (s *service) ExpireStale(ctx context.Context) (int64, error) {
	return s.repo.ExpireOlderThan(ctx, time.Now())
}

func (s *service) authorize(ctx context.Context, actorID string, b *booking.Booking) error {
	if b.CustomerID == actorID {
		return nil
	}
	u, err := s.users.GetByID(ctx, actorID)
	if err != nil || !u.IsAdmin {
		return ErrForbidden
	}
	return nil
}
