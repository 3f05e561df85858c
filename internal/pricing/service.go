package pricing

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/eventsfp/booking-backend/internal/event"
)

// StatsProvider supplies the demand and customer signals consumed by the
// evaluator. Implemented over the booking repository and the event view
// counter; the indirection keeps this package free of a booking dependency.
type StatsProvider interface {
	BookingsCreatedSince(ctx context.Context, eventID string, since time.Time) (int, error)
	ParticipantsForDay(ctx context.Context, eventID string, day time.Time) (int, error)
	CustomerBookingCount(ctx context.Context, userID string) (int, error)
	ViewsLastDays(ctx context.Context, eventID string, days int) (int, error)
}

// Quote is a priced unit with its adjustment breakdown.
type Quote struct {
	EventID     string       `json:"event_id"`
	BasePrice   float64      `json:"base_price"`
	UnitPrice   float64      `json:"unit_price"`
	MinPrice    float64      `json:"min_price"`
	MaxPrice    float64      `json:"max_price"`
	Adjustments []Adjustment `json:"adjustments"`
}

type Service interface {
	// QuoteUnit prices one participant seat for the event at the given start
	// time. customerID may be empty for anonymous quotes.
	QuoteUnit(ctx context.Context, ev *event.Event, start time.Time, participants int, customerID string) (*Quote, error)
	RulesForEvent(ctx context.Context, eventID string) (Rules, error)
	SetRules(ctx context.Context, scope string, rules Rules) error
}

type service struct {
	repo   Repository
	stats  StatsProvider
	logger *zap.Logger
}

func NewService(repo Repository, stats StatsProvider, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		stats:  stats,
		logger: logger,
	}
}

func (s *service) QuoteUnit(ctx context.Context, ev *event.Event, start time.Time, participants int, customerID string) (*Quote, error) {
	rules, err := s.repo.GetForEvent(ctx, ev.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	bookings30d, err := s.stats.BookingsCreatedSince(ctx, ev.ID, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	// Views live in Redis; a counter outage degrades the demand signal
	// instead of failing the quote.
	views7d, err := s.stats.ViewsLastDays(ctx, ev.ID, 7)
	if err != nil {
		s.logger.Warn("view counter unavailable, demand signal degraded",
			zap.String("event_id", ev.ID), zap.Error(err))
		views7d = 0
	}

	booked, err := s.stats.ParticipantsForDay(ctx, ev.ID, start)
	if err != nil {
		return nil, err
	}
	utilization := 0.0
	if ev.MaxCapacity > 0 {
		utilization = float64(booked) / float64(ev.MaxCapacity) * 100
	}

	customerBookings := 0
	if customerID != "" {
		customerBookings, err = s.stats.CustomerBookingCount(ctx, customerID)
		if err != nil {
			return nil, err
		}
	}

	min, max := ev.PriceBounds()
	price, adjustments := Evaluate(ev.BasePrice, min, max, rules, Context{
		Now:              now,
		EventStart:       start,
		Participants:     participants,
		Bookings30d:      bookings30d,
		Views7d:          views7d,
		CustomerBookings: customerBookings,
		UtilizationPct:   utilization,
	})

	if adjustments == nil {
		adjustments = []Adjustment{}
	}

	return &Quote{
		EventID:     ev.ID,
		BasePrice:   ev.BasePrice,
		UnitPrice:   price,
		MinPrice:    min,
		MaxPrice:    max,
		Adjustments: adjustments,
	}, nil
}

func (s *service) RulesForEvent(ctx context.Context, eventID string) (Rules, error) {
	return s.repo.GetForEvent(ctx, eventID)
}

func (s *service) SetRules(ctx context.Context, scope string, rules Rules) error {
	return s.repo.Set(ctx, scope, rules)
}
