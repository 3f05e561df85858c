package booking

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/eventsfp/booking-backend/internal/event"
	"github.com/eventsfp/booking-backend/internal/pkg/timeutil"
	"github.com/eventsfp/booking-backend/internal/pricing"
	"github.com/eventsfp/booking-backend/internal/reservation"
	"github.com/eventsfp/booking-backend/internal/resource"
	"github.com/eventsfp/booking-backend/internal/user"
)

// Notifier enqueues customer notifications. Delivery is asynchronous and
// best-effort; a failed enqueue never fails the booking operation.
type Notifier interface {
	BookingConfirmed(ctx context.Context, bookingID string) error
}

type CreateRequest struct {
	EventID      string
	StartTime    time.Time
	Participants int
	ResourceIDs  []string
	Notes        string
}

type Service interface {
	// Create prices and atomically reserves a pending booking for the customer.
	Create(ctx context.Context, customerID string, req CreateRequest) (*Booking, error)
	// GetByID returns the booking if the actor owns it or is an admin.
	GetByID(ctx context.Context, actorID, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	ListForCustomer(ctx context.Context, customerID string, filter Filter) ([]*Booking, int, error)
	// UpdateStatus applies a status transition. Owners may only cancel;
	// admins may perform any valid transition.
	UpdateStatus(ctx context.Context, actorID, id string, status Status) error
	Cancel(ctx context.Context, actorID, id string) error
	// MarkCheckedIn flips a confirmed booking to checked_in. Used by the
	// check-in redemption flow, which authorizes by token instead of actor.
	MarkCheckedIn(ctx context.Context, id string) error
}

type service struct {
	repo      Repository
	events    event.Service
	resources resource.Service
	pricing   pricing.Service
	users     user.Service
	notifier  Notifier
	logger    *zap.Logger
}

func NewService(
	repo Repository,
	events event.Service,
	resources resource.Service,
	pricingService pricing.Service,
	users user.Service,
	notifier Notifier,
	logger *zap.Logger,
) Service {
	return &service{
		repo:      repo,
		events:    events,
		resources: resources,
		pricing:   pricingService,
		users:     users,
		notifier:  notifier,
		logger:    logger,
	}
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *service) Create(ctx context.Context, customerID string, req CreateRequest) (*Booking, error) {
	if req.Participants < 1 {
		return nil, ErrInvalidParticipants
	}
	if !req.StartTime.After(time.Now()) {
		return nil, ErrPastStartTime
	}

	ev, err := s.events.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	if !ev.IsActive {
		return nil, ErrEventInactive
	}
	if req.Participants > ev.MaxCapacity {
		return nil, ErrCapacityExceeded
	}

	end := req.StartTime.Add(ev.Duration())

	resourceIDs := req.ResourceIDs
	if len(resourceIDs) == 0 {
		resourceIDs, err = s.events.RequiredResourceIDs(ctx, ev.ID)
		if err != nil {
			return nil, err
		}
	}

	var resources []*resource.Resource
	if len(resourceIDs) > 0 {
		resources, err = s.resources.GetByIDs(ctx, resourceIDs)
		if err != nil {
			return nil, err
		}
		if len(resources) != len(resourceIDs) {
			return nil, resource.ErrNotFound
		}
	}

	for _, res := range resources {
		inHours, err := timeutil.WithinBusinessHours(req.StartTime, end, res.OpenTime, res.CloseTime)
		if err != nil {
			return nil, err
		}
		if !inHours {
			return nil, ErrOutsideHours
		}
	}

	quote, err := s.pricing.QuoteUnit(ctx, ev, req.StartTime, req.Participants, customerID)
	if err != nil {
		return nil, err
	}

	b := &Booking{
		EventID:      ev.ID,
		CustomerID:   customerID,
		StartTime:    req.StartTime,
		EndTime:      end,
		Participants: req.Participants,
		UnitPrice:    roundMoney(quote.UnitPrice),
		TotalPrice:   roundMoney(quote.UnitPrice * float64(req.Participants)),
		Status:       StatusPending,
		Notes:        req.Notes,
		EventName:    ev.Name,
	}

	reservations := make([]*reservation.Reservation, 0, len(resources))
	for _, res := range resources {
		reservations = append(reservations, &reservation.Reservation{
			ResourceID: res.ID,
			StartTime:  req.StartTime,
			EndTime:    end,
			Status:     reservation.StatusActive,
		})
	}

	if err := s.repo.Reserve(ctx, b, reservations, ev.MaxCapacity); err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("booking_id", b.ID),
		zap.String("event_id", b.EventID),
		zap.Int("participants", b.Participants),
		zap.Float64("total_price", b.TotalPrice),
	)
	return b, nil
}

func (s *service) GetByID(ctx context.Context, actorID, id string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != actorID {
		if err := s.requireAdmin(ctx, actorID); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) ListForCustomer(ctx context.Context, customerID string, filter Filter) ([]*Booking, int, error) {
	filter.CustomerID = customerID
	return s.repo.List(ctx, filter)
}

func (s *service) UpdateStatus(ctx context.Context, actorID, id string, status Status) error {
	if !ValidStatus(status) {
		return ErrInvalidStatusTransition
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// Owners can only cancel their own bookings; everything else is admin.
	if b.CustomerID != actorID || status != StatusCancelled {
		if err := s.requireAdmin(ctx, actorID); err != nil {
			return err
		}
	}

	return s.applyTransition(ctx, b, status)
}

func (s *service) Cancel(ctx context.Context, actorID, id string) error {
	return s.UpdateStatus(ctx, actorID, id, StatusCancelled)
}

func (s *service) MarkCheckedIn(ctx context.Context, id string) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.applyTransition(ctx, b, StatusCheckedIn)
}

func (s *service) applyTransition(ctx context.Context, b *Booking, status Status) error {
	if !CanTransition(b.Status, status) {
		return ErrInvalidStatusTransition
	}

	if status == StatusCancelled {
		if err := s.repo.Cancel(ctx, b.ID); err != nil {
			return err
		}
	} else {
		if err := s.repo.UpdateStatus(ctx, b.ID, status); err != nil {
			return err
		}
	}

	s.logger.Info("booking status changed",
		zap.String("booking_id", b.ID),
		zap.String("from", string(b.Status)),
		zap.String("to", string(status)),
	)

	if status == StatusConfirmed {
		if err := s.notifier.BookingConfirmed(ctx, b.ID); err != nil {
			s.logger.Warn("failed to enqueue confirmation notification",
				zap.String("booking_id", b.ID), zap.Error(err))
		}
	}
	return nil
}

func (s *service) requireAdmin(ctx context.Context, actorID string) error {
	u, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return ErrForbidden
	}
	if !u.IsAdmin {
		return ErrForbidden
	}
	return nil
}
