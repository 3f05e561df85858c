package cart

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/eventsfp/booking-backend/internal/event"
	"github.com/eventsfp/booking-backend/internal/pkg/apperror"
	"github.com/eventsfp/booking-backend/internal/pricing"
)

var (
	ErrEmptyCart    = apperror.New(http.StatusBadRequest, "cart is empty")
	ErrTooManyItems = apperror.New(http.StatusBadRequest, "too many cart items")
)

// maxItems bounds a single quote request.
const maxItems = 20

// Item is one requested event slot in a cart quote.
type Item struct {
	EventID      string
	StartTime    time.Time
	Participants int
}

// QuotedItem is a priced cart line with its share of the cart-level discount.
type QuotedItem struct {
	EventID      string               `json:"event_id"`
	EventName    string               `json:"event_name"`
	StartTime    time.Time            `json:"start_time"`
	Participants int                  `json:"participants"`
	UnitPrice    float64              `json:"unit_price"`
	LineTotal    float64              `json:"line_total"`
	Discount     float64              `json:"discount"`
	FinalTotal   float64              `json:"final_total"`
	Adjustments  []pricing.Adjustment `json:"adjustments"`
}

// Quote is the full cart pricing result. Quotes are stateless; nothing is
// reserved until the items are booked.
type Quote struct {
	Items                 []QuotedItem `json:"items"`
	Subtotal              float64      `json:"subtotal"`
	MultiEventDiscountPct float64      `json:"multi_event_discount_pct"`
	DiscountTotal         float64      `json:"discount_total"`
	Total                 float64      `json:"total"`
}

type Service interface {
	// Quote prices every item with dynamic pricing, then applies the
	// multi-event discount tier for the cart size across all lines.
	Quote(ctx context.Context, customerID string, items []Item) (*Quote, error)
}

type service struct {
	events  event.Service
	pricing pricing.Service
}

func NewService(events event.Service, pricingService pricing.Service) Service {
	return &service{
		events:  events,
		pricing: pricingService,
	}
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *service) Quote(ctx context.Context, customerID string, items []Item) (*Quote, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	if len(items) > maxItems {
		return nil, ErrTooManyItems
	}

	quoted := make([]QuotedItem, 0, len(items))
	subtotal := 0.0
	for _, item := range items {
		ev, err := s.events.GetByID(ctx, item.EventID)
		if err != nil {
			return nil, err
		}

		unit, err := s.pricing.QuoteUnit(ctx, ev, item.StartTime, item.Participants, customerID)
		if err != nil {
			return nil, err
		}

		lineTotal := roundMoney(unit.UnitPrice * float64(item.Participants))
		subtotal += lineTotal
		quoted = append(quoted, QuotedItem{
			EventID:      ev.ID,
			EventName:    ev.Name,
			StartTime:    item.StartTime,
			Participants: item.Participants,
			UnitPrice:    roundMoney(unit.UnitPrice),
			LineTotal:    lineTotal,
			Adjustments:  unit.Adjustments,
		})
	}
	subtotal = roundMoney(subtotal)

	rules, err := s.pricing.RulesForEvent(ctx, pricing.GlobalScope)
	if err != nil {
		return nil, err
	}
	discountPct := pricing.MultiEventDiscountPct(rules, len(items))
	discountTotal := roundMoney(subtotal * discountPct / 100)

	// Allocate the discount across lines by their share of the subtotal; the
	// last line absorbs the rounding remainder so the sum stays exact.
	allocated := 0.0
	for i := range quoted {
		var share float64
		if i == len(quoted)-1 {
			share = roundMoney(discountTotal - allocated)
		} else if subtotal > 0 {
			share = roundMoney(discountTotal * quoted[i].LineTotal / subtotal)
			allocated += share
		}
		quoted[i].Discount = share
		quoted[i].FinalTotal = roundMoney(quoted[i].LineTotal - share)
	}

	return &Quote{
		Items:                 quoted,
		Subtotal:              subtotal,
		MultiEventDiscountPct: discountPct,
		DiscountTotal:         discountTotal,
		Total:                 roundMoney(subtotal - discountTotal),
	}, nil
}
