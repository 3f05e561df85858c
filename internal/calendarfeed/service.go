package calendarfeed

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eventsfp/booking-backend/internal/booking"
	"github.com/eventsfp/booking-backend/internal/export"
)

const tokenBytes = 16

type CreateRequest struct {
	Name       string
	Scope      Scope
	EventID    *string
	CustomerID *string
	ExpiresAt  *time.Time
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Feed, error)
	List(ctx context.Context) ([]*Feed, error)
	Delete(ctx context.Context, id string) error
	// Render resolves the token and writes the feed's iCalendar document.
	Render(ctx context.Context, token string) (name string, ics []byte, err error)
	// PurgeExpired removes feeds past their expiry. Run by the scheduler.
	PurgeExpired(ctx context.Context) (int64, error)
}

type service struct {
	repo     Repository
	bookings booking.Service
	logger   *zap.Logger
}

func NewService(repo Repository, bookings booking.Service, logger *zap.Logger) Service {
	return &service{
		repo:     repo,
		bookings: bookings,
		logger:   logger,
	}
}

func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate feed token failed: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func validScope(s Scope) bool {
	for _, v := range ValidScopes {
		if s == v {
			return true
		}
	}
	return false
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Feed, error) {
	if !validScope(req.Scope) {
		return nil, ErrInvalidScope
	}
	if req.Scope == ScopeEvent && req.EventID == nil {
		return nil, ErrMissingRef
	}
	if req.Scope == ScopeCustomer && req.CustomerID == nil {
		return nil, ErrMissingRef
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	f := &Feed{
		Name:       req.Name,
		Token:      token,
		Scope:      req.Scope,
		EventID:    req.EventID,
		CustomerID: req.CustomerID,
		ExpiresAt:  req.ExpiresAt,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}

	s.logger.Info("calendar feed created",
		zap.String("feed_id", f.ID),
		zap.String("scope", string(f.Scope)),
	)
	return f, nil
}

func (s *service) List(ctx context.Context) ([]*Feed, error) {
	return s.repo.List(ctx)
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) Render(ctx context.Context, token string) (string, []byte, error) {
	f, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return "", nil, err
	}
	if f.Expired(time.Now()) {
		return "", nil, ErrExpired
	}

	filter := booking.Filter{
		Status:    booking.StatusConfirmed,
		SortOrder: "asc",
	}
	if f.EventID != nil {
		filter.EventID = *f.EventID
	}
	if f.CustomerID != nil {
		filter.CustomerID = *f.CustomerID
	}

	bookings, _, err := s.bookings.List(ctx, filter)
	if err != nil {
		return "", nil, err
	}

	events := make([]export.ICSEvent, 0, len(bookings))
	for _, b := range bookings {
		events = append(events, export.ICSEvent{
			UID:         b.ID + "@eventsfp",
			Summary:     b.EventName,
			Description: b.Notes,
			Start:       b.StartTime,
			End:         b.EndTime,
		})
	}

	var buf bytes.Buffer
	if err := export.WriteICS(&buf, f.Name, events, time.Now()); err != nil {
		return "", nil, err
	}
	return f.Name, buf.Bytes(), nil
}

func (s *service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, time.Now())
}
