package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eventsfp/booking-backend/internal/event"
	"github.com/eventsfp/booking-backend/internal/pricing"
	"github.com/eventsfp/booking-backend/internal/reservation"
	"github.com/eventsfp/booking-backend/internal/resource"
	"github.com/eventsfp/booking-backend/internal/user"
)

type fakeRepo struct {
	bookings     map[string]*Booking
	reserveErr   error
	lastReserved *Booking
	lastRsvs     []*reservation.Reservation
	statusCalls  []Status
	cancelled    []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: map[string]*Booking{}}
}

func (f *fakeRepo) Reserve(_ context.Context, b *Booking, rsvs []*reservation.Reservation, _ int) error {
	if f.reserveErr != nil {
		return f.reserveErr
	}
	b.ID = "bk-1"
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	f.lastReserved = b
	f.lastRsvs = rsvs
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	copy := *b
	return &copy, nil
}

func (f *fakeRepo) List(context.Context, Filter) ([]*Booking, int, error) {
	return nil, 0, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id string, status Status) error {
	b, ok := f.bookings[id]
	if !ok {
		return ErrNotFound
	}
	b.Status = status
	f.statusCalls = append(f.statusCalls, status)
	return nil
}

func (f *fakeRepo) Cancel(_ context.Context, id string) error {
	b, ok := f.bookings[id]
	if !ok {
		return ErrNotFound
	}
	b.Status = StatusCancelled
	f.cancelled = append(f.cancelled, id)
	return nil
}

func (f *fakeRepo) BookingsCreatedSince(context.Context, string, time.Time) (int, error) {
	return 0, nil
}

func (f *fakeRepo) ParticipantsForDay(context.Context, string, time.Time) (int, error) {
	return 0, nil
}

func (f *fakeRepo) CustomerBookingCount(context.Context, string) (int, error) {
	return 0, nil
}

type fakeEventService struct {
	event       *event.Event
	requiredIDs []string
}

func (f *fakeEventService) Create(context.Context, event.CreateRequest) (*event.Event, error) {
	return nil, nil
}

func (f *fakeEventService) GetByID(_ context.Context, id string) (*event.Event, error) {
	if f.event == nil || f.event.ID != id {
		return nil, event.ErrNotFound
	}
	return f.event, nil
}

func (f *fakeEventService) View(ctx context.Context, id string) (*event.Event, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeEventService) List(context.Context, event.Filter) ([]*event.Event, int, error) {
	return nil, 0, nil
}

func (f *fakeEventService) Update(context.Context, string, event.UpdateRequest) (*event.Event, error) {
	return nil, nil
}

func (f *fakeEventService) Deactivate(context.Context, string) error { return nil }

func (f *fakeEventService) RequiredResourceIDs(context.Context, string) ([]string, error) {
	return f.requiredIDs, nil
}

func (f *fakeEventService) SetRequiredResources(context.Context, string, []string) error {
	return nil
}

type fakeResourceService struct {
	resources map[string]*resource.Resource
}

func (f *fakeResourceService) Create(context.Context, resource.CreateRequest) (*resource.Resource, error) {
	return nil, nil
}

func (f *fakeResourceService) GetByID(_ context.Context, id string) (*resource.Resource, error) {
	r, ok := f.resources[id]
	if !ok {
		return nil, resource.ErrNotFound
	}
	return r, nil
}

func (f *fakeResourceService) GetByIDs(_ context.Context, ids []string) ([]*resource.Resource, error) {
	var out []*resource.Resource
	for _, id := range ids {
		if r, ok := f.resources[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeResourceService) List(context.Context, resource.Filter) ([]*resource.Resource, int, error) {
	return nil, 0, nil
}

func (f *fakeResourceService) Update(context.Context, string, resource.UpdateRequest) (*resource.Resource, error) {
	return nil, nil
}

func (f *fakeResourceService) Delete(context.Context, string) error { return nil }

type fakePricingService struct {
	unitPrice float64
	err       error
}

func (f *fakePricingService) QuoteUnit(_ context.Context, ev *event.Event, _ time.Time, _ int, _ string) (*pricing.Quote, error) {
	if f.err != nil {
		return nil, f.err
	}
	min, max := ev.PriceBounds()
	return &pricing.Quote{
		EventID:     ev.ID,
		BasePrice:   ev.BasePrice,
		UnitPrice:   f.unitPrice,
		MinPrice:    min,
		MaxPrice:    max,
		Adjustments: []pricing.Adjustment{},
	}, nil
}

func (f *fakePricingService) RulesForEvent(context.Context, string) (pricing.Rules, error) {
	return pricing.DefaultRules(), nil
}

func (f *fakePricingService) SetRules(context.Context, string, pricing.Rules) error { return nil }

type fakeUserService struct {
	users map[string]*user.User
}

func (f *fakeUserService) Register(context.Context, user.RegisterRequest) (*user.User, error) {
	return nil, nil
}

func (f *fakeUserService) Authenticate(context.Context, string, string) (*user.User, error) {
	return nil, nil
}

func (f *fakeUserService) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserService) List(context.Context, user.Filter) ([]*user.User, int, error) {
	return nil, 0, nil
}

type fakeNotifier struct {
	confirmed []string
	err       error
}

func (f *fakeNotifier) BookingConfirmed(_ context.Context, bookingID string) error {
	if f.err != nil {
		return f.err
	}
	f.confirmed = append(f.confirmed, bookingID)
	return nil
}

type fixture struct {
	repo      *fakeRepo
	events    *fakeEventService
	resources *fakeResourceService
	pricing   *fakePricingService
	users     *fakeUserService
	notifier  *fakeNotifier
	service   Service
}

func newFixture() *fixture {
	f := &fixture{
		repo: newFakeRepo(),
		events: &fakeEventService{
			event: &event.Event{
				ID:              "ev-1",
				Name:            "Harbor Kayak Tour",
				DurationMinutes: 90,
				BasePrice:       100,
				MaxCapacity:     10,
				IsActive:        true,
			},
		},
		resources: &fakeResourceService{
			resources: map[string]*resource.Resource{
				"res-1": {
					ID:        "res-1",
					Name:      "Guide Anna",
					Type:      resource.TypeGuide,
					Capacity:  1,
					OpenTime:  "08:00:00",
					CloseTime: "20:00:00",
				},
			},
		},
		pricing: &fakePricingService{unitPrice: 95},
		users: &fakeUserService{
			users: map[string]*user.User{
				"cust-1":  {ID: "cust-1", Email: "cust@example.com", IsActive: true},
				"admin-1": {ID: "admin-1", Email: "admin@example.com", IsActive: true, IsAdmin: true},
			},
		},
		notifier: &fakeNotifier{},
	}
	f.service = NewService(f.repo, f.events, f.resources, f.pricing, f.users, f.notifier, zap.NewNop())
	return f
}

// futureSlot is 10:00 local time one week out, safely inside the default
// fixture resource hours.
func futureSlot() time.Time {
	d := time.Now().AddDate(0, 0, 7)
	return time.Date(d.Year(), d.Month(), d.Day(), 10, 0, 0, 0, time.Local)
}

func TestCreateReservesPendingBooking(t *testing.T) {
	f := newFixture()
	start := futureSlot()

	b, err := f.service.Create(context.Background(), "cust-1", CreateRequest{
		EventID:      "ev-1",
		StartTime:    start,
		Participants: 3,
		ResourceIDs:  []string{"res-1"},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, b.Status)
	assert.Equal(t, 95.0, b.UnitPrice)
	assert.Equal(t, 285.0, b.TotalPrice)
	assert.Equal(t, start.Add(90*time.Minute), b.EndTime)

	require.Len(t, f.repo.lastRsvs, 1)
	rsv := f.repo.lastRsvs[0]
	assert.Equal(t, "res-1", rsv.ResourceID)
	assert.Equal(t, reservation.StatusActive, rsv.Status)
	assert.Equal(t, b.EndTime, rsv.EndTime)
}

func TestCreateUsesRequiredResourcesWhenNoneGiven(t *testing.T) {
	f := newFixture()
	f.events.requiredIDs = []string{"res-1"}

	_, err := f.service.Create(context.Background(), "cust-1", CreateRequest{
		EventID:      "ev-1",
		StartTime:    futureSlot(),
		Participants: 1,
	})
	require.NoError(t, err)
	require.Len(t, f.repo.lastRsvs, 1)
	assert.Equal(t, "res-1", f.repo.lastRsvs[0].ResourceID)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture()
	start := futureSlot()

	_, err := f.service.Create(context.Background(), "cust-1", CreateRequest{
		EventID: "ev-1", StartTime: start, Participants: 0,
	})
	assert.ErrorIs(t, err, ErrInvalidParticipants)

	_, err = f.service.Create(context.Background(), "cust-1", CreateRequest{
		EventID: "ev-1", StartTime: time.Now().Add(-time.Hour), Participants: 1,
	})
	assert.ErrorIs(t, err, ErrPastStartTime)

	_, err = f.service.Create(context.Background(), "cust-1", CreateRequest{
		EventID: "ev-1", StartTime: start, Participants: 11,
	})
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	f.events.event.IsActive = false
	_, err = f.service.Create(context.Background(), "cust-1", CreateRequest{
		EventID: "ev-1", StartTime: start, Participants: 1,
	})
	assert.ErrorIs(t, err, ErrEventInactive)
}

func TestCreateRejectsSlotOutsideResourceHours(t *testing.T) {
	f := newFixture()
	f.resources.resources["res-1"].OpenTime = "09:00:00"
	f.resources.resources["res-1"].CloseTime = "10:00:00"

	// 10:00 start with a 90 minute duration overruns the close time.
	_, err := f.service.Create(context.Background(), "cust-1", CreateRequest{
		EventID:      "ev-1",
		StartTime:    futureSlot(),
		Participants: 1,
		ResourceIDs:  []string{"res-1"},
	})
	assert.ErrorIs(t, err, ErrOutsideHours)
}

func TestCreatePropagatesReserveConflict(t *testing.T) {
	f := newFixture()
	f.repo.reserveErr = ErrTimeConflict

	_, err := f.service.Create(context.Background(), "cust-1", CreateRequest{
		EventID:      "ev-1",
		StartTime:    futureSlot(),
		Participants: 1,
		ResourceIDs:  []string{"res-1"},
	})
	assert.ErrorIs(t, err, ErrTimeConflict)
}

func seedBooking(f *fixture, status Status) *Booking {
	b := &Booking{
		ID:         "bk-1",
		EventID:    "ev-1",
		CustomerID: "cust-1",
		Status:     status,
	}
	f.repo.bookings[b.ID] = b
	return b
}

func TestOwnerMayCancelButNotConfirm(t *testing.T) {
	f := newFixture()
	seedBooking(f, StatusPending)

	err := f.service.UpdateStatus(context.Background(), "cust-1", "bk-1", StatusConfirmed)
	assert.ErrorIs(t, err, ErrForbidden)

	err = f.service.Cancel(context.Background(), "cust-1", "bk-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"bk-1"}, f.repo.cancelled)
}

func TestAdminConfirmEnqueuesNotification(t *testing.T) {
	f := newFixture()
	seedBooking(f, StatusPending)

	err := f.service.UpdateStatus(context.Background(), "admin-1", "bk-1", StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, []string{"bk-1"}, f.notifier.confirmed)
}

func TestNotificationFailureDoesNotFailTransition(t *testing.T) {
	f := newFixture()
	f.notifier.err = errors.New("queue down")
	seedBooking(f, StatusPending)

	err := f.service.UpdateStatus(context.Background(), "admin-1", "bk-1", StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, f.repo.bookings["bk-1"].Status)
}

func TestStatusTransitionRules(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCheckedIn, false},
		{StatusPending, StatusNoShow, false},
		{StatusConfirmed, StatusCheckedIn, true},
		{StatusConfirmed, StatusNoShow, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCheckedIn, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusNoShow, StatusConfirmed, false},
	}

	for _, tt := range tests {
		f := newFixture()
		seedBooking(f, tt.from)

		err := f.service.UpdateStatus(context.Background(), "admin-1", "bk-1", tt.to)
		if tt.allowed {
			assert.NoError(t, err, "%s -> %s", tt.from, tt.to)
		} else {
			assert.ErrorIs(t, err, ErrInvalidStatusTransition, "%s -> %s", tt.from, tt.to)
		}
	}
}

func TestMarkCheckedIn(t *testing.T) {
	f := newFixture()
	seedBooking(f, StatusConfirmed)

	require.NoError(t, f.service.MarkCheckedIn(context.Background(), "bk-1"))
	assert.Equal(t, StatusCheckedIn, f.repo.bookings["bk-1"].Status)

	f = newFixture()
	seedBooking(f, StatusPending)
	assert.ErrorIs(t, f.service.MarkCheckedIn(context.Background(), "bk-1"), ErrInvalidStatusTransition)
}
