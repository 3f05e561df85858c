package cart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventsfp/booking-backend/internal/event"
	"github.com/eventsfp/booking-backend/internal/pricing"
)

type fakeEvents struct {
	events map[string]*event.Event
}

func (f *fakeEvents) Create(context.Context, event.CreateRequest) (*event.Event, error) {
	return nil, nil
}

func (f *fakeEvents) GetByID(_ context.Context, id string) (*event.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, event.ErrNotFound
	}
	return e, nil
}

func (f *fakeEvents) View(ctx context.Context, id string) (*event.Event, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeEvents) List(context.Context, event.Filter) ([]*event.Event, int, error) {
	return nil, 0, nil
}

func (f *fakeEvents) Update(context.Context, string, event.UpdateRequest) (*event.Event, error) {
	return nil, nil
}

func (f *fakeEvents) Deactivate(context.Context, string) error { return nil }

func (f *fakeEvents) RequiredResourceIDs(context.Context, string) ([]string, error) {
	return nil, nil
}

func (f *fakeEvents) SetRequiredResources(context.Context, string, []string) error { return nil }

// fakePricing quotes every unit at the event base price so cart math is easy
// to assert.
type fakePricing struct {
	rules pricing.Rules
}

func (f *fakePricing) QuoteUnit(_ context.Context, ev *event.Event, _ time.Time, _ int, _ string) (*pricing.Quote, error) {
	min, max := ev.PriceBounds()
	return &pricing.Quote{
		EventID:     ev.ID,
		BasePrice:   ev.BasePrice,
		UnitPrice:   ev.BasePrice,
		MinPrice:    min,
		MaxPrice:    max,
		Adjustments: []pricing.Adjustment{},
	}, nil
}

func (f *fakePricing) RulesForEvent(context.Context, string) (pricing.Rules, error) {
	return f.rules, nil
}

func (f *fakePricing) SetRules(context.Context, string, pricing.Rules) error { return nil }

func newCartService() Service {
	events := &fakeEvents{events: map[string]*event.Event{
		"ev-1": {ID: "ev-1", Name: "Kayak Tour", BasePrice: 100, MaxCapacity: 10, IsActive: true},
		"ev-2": {ID: "ev-2", Name: "Wine Tasting", BasePrice: 60, MaxCapacity: 10, IsActive: true},
		"ev-3": {ID: "ev-3", Name: "City Walk", BasePrice: 40, MaxCapacity: 10, IsActive: true},
	}}
	return NewService(events, &fakePricing{rules: pricing.DefaultRules()})
}

func cartStart() time.Time {
	return time.Date(2026, 6, 20, 10, 0, 0, 0, time.UTC)
}

func TestQuoteSingleItemHasNoMultiEventDiscount(t *testing.T) {
	svc := newCartService()

	q, err := svc.Quote(context.Background(), "", []Item{
		{EventID: "ev-1", StartTime: cartStart(), Participants: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, q.MultiEventDiscountPct)
	assert.Equal(t, 200.0, q.Subtotal)
	assert.Equal(t, 200.0, q.Total)
}

func TestQuoteMultiEventDiscountTiers(t *testing.T) {
	svc := newCartService()

	// Two events: 5% tier.
	q, err := svc.Quote(context.Background(), "", []Item{
		{EventID: "ev-1", StartTime: cartStart(), Participants: 1},
		{EventID: "ev-2", StartTime: cartStart(), Participants: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 5.0, q.MultiEventDiscountPct)
	assert.Equal(t, 160.0, q.Subtotal)
	assert.Equal(t, 8.0, q.DiscountTotal)
	assert.Equal(t, 152.0, q.Total)

	// Three events: 10% tier.
	q, err = svc.Quote(context.Background(), "", []Item{
		{EventID: "ev-1", StartTime: cartStart(), Participants: 1},
		{EventID: "ev-2", StartTime: cartStart(), Participants: 1},
		{EventID: "ev-3", StartTime: cartStart(), Participants: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, q.MultiEventDiscountPct)
	assert.Equal(t, 200.0, q.Subtotal)
	assert.Equal(t, 20.0, q.DiscountTotal)
	assert.Equal(t, 180.0, q.Total)
}

func TestQuoteDiscountAllocationSumsExactly(t *testing.T) {
	svc := newCartService()

	q, err := svc.Quote(context.Background(), "", []Item{
		{EventID: "ev-1", StartTime: cartStart(), Participants: 1},
		{EventID: "ev-2", StartTime: cartStart(), Participants: 1},
		{EventID: "ev-3", StartTime: cartStart(), Participants: 1},
	})
	require.NoError(t, err)

	sum := 0.0
	finalSum := 0.0
	for _, item := range q.Items {
		sum += item.Discount
		finalSum += item.FinalTotal
		assert.Equal(t, item.LineTotal-item.Discount, item.FinalTotal)
	}
	assert.InDelta(t, q.DiscountTotal, sum, 1e-9)
	assert.InDelta(t, q.Total, finalSum, 1e-9)

	// Larger lines absorb a larger share.
	assert.Greater(t, q.Items[0].Discount, q.Items[2].Discount)
}

func TestQuoteEmptyAndOversizedCarts(t *testing.T) {
	svc := newCartService()

	_, err := svc.Quote(context.Background(), "", nil)
	assert.ErrorIs(t, err, ErrEmptyCart)

	items := make([]Item, maxItems+1)
	for i := range items {
		items[i] = Item{EventID: "ev-1", StartTime: cartStart(), Participants: 1}
	}
	_, err = svc.Quote(context.Background(), "", items)
	assert.ErrorIs(t, err, ErrTooManyItems)
}

func TestQuoteUnknownEvent(t *testing.T) {
	svc := newCartService()

	_, err := svc.Quote(context.Background(), "", []Item{
		{EventID: "ev-missing", StartTime: cartStart(), Participants: 1},
	})
	assert.ErrorIs(t, err, event.ErrNotFound)
}
