package checkin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eventsfp/booking-backend/internal/booking"
	"github.com/eventsfp/booking-backend/internal/user"
)

type fakeRepo struct {
	byBooking map[string]*Token
	byToken   map[string]*Token
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byBooking: map[string]*Token{}, byToken: map[string]*Token{}}
}

func (f *fakeRepo) Replace(_ context.Context, t *Token) error {
	if old, ok := f.byBooking[t.BookingID]; ok {
		delete(f.byToken, old.Token)
	}
	t.ID = "tok-" + t.BookingID
	t.CreatedAt = time.Now()
	f.byBooking[t.BookingID] = t
	f.byToken[t.Token] = t
	return nil
}

func (f *fakeRepo) GetByToken(_ context.Context, token string) (*Token, error) {
	t, ok := f.byToken[token]
	if !ok {
		return nil, ErrTokenNotFound
	}
	return t, nil
}

func (f *fakeRepo) GetByBooking(_ context.Context, bookingID string) (*Token, error) {
	t, ok := f.byBooking[bookingID]
	if !ok {
		return nil, ErrTokenNotFound
	}
	return t, nil
}

func (f *fakeRepo) MarkUsed(_ context.Context, id string, usedAt time.Time) error {
	for _, t := range f.byToken {
		if t.ID == id {
			t.Status = StatusUsed
			t.UsedAt = &usedAt
			return nil
		}
	}
	return ErrTokenNotFound
}

func (f *fakeRepo) ExpireOlderThan(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, t := range f.byToken {
		if t.Status == StatusActive && now.After(t.ExpiresAt) {
			t.Status = StatusExpired
			n++
		}
	}
	return n, nil
}

type fakeBookings struct {
	bookings  map[string]*booking.Booking
	checkedIn []string
}

func (f *fakeBookings) GetByID(_ context.Context, id string) (*booking.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return b, nil
}

func (f *fakeBookings) MarkCheckedIn(_ context.Context, id string) error {
	b, ok := f.bookings[id]
	if !ok {
		return booking.ErrNotFound
	}
	if !booking.CanTransition(b.Status, booking.StatusCheckedIn) {
		return booking.ErrInvalidStatusTransition
	}
	b.Status = booking.StatusCheckedIn
	f.checkedIn = append(f.checkedIn, id)
	return nil
}

type fakeUsers struct {
	users map[string]*user.User
}

func (f *fakeUsers) Register(context.Context, user.RegisterRequest) (*user.User, error) {
	return nil, nil
}

func (f *fakeUsers) Authenticate(context.Context, string, string) (*user.User, error) {
	return nil, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) List(context.Context, user.Filter) ([]*user.User, int, error) {
	return nil, 0, nil
}

type fakeNotifier struct {
	completed []string
}

func (f *fakeNotifier) CheckinCompleted(_ context.Context, bookingID string) error {
	f.completed = append(f.completed, bookingID)
	return nil
}

type fixture struct {
	repo     *fakeRepo
	bookings *fakeBookings
	notifier *fakeNotifier
	service  Service
}

func newFixture() *fixture {
	f := &fixture{
		repo: newFakeRepo(),
		bookings: &fakeBookings{bookings: map[string]*booking.Booking{
			"bk-1": {ID: "bk-1", CustomerID: "cust-1", Status: booking.StatusConfirmed},
			"bk-2": {ID: "bk-2", CustomerID: "cust-1", Status: booking.StatusPending},
		}},
		notifier: &fakeNotifier{},
	}
	users := &fakeUsers{users: map[string]*user.User{
		"cust-1":  {ID: "cust-1", IsActive: true},
		"admin-1": {ID: "admin-1", IsActive: true, IsAdmin: true},
	}}
	f.service = NewService(f.repo, f.bookings, users, f.notifier, 30*24*time.Hour, zap.NewNop())
	return f
}

func TestIssueCreatesActiveToken(t *testing.T) {
	f := newFixture()

	tok, err := f.service.Issue(context.Background(), "cust-1", "bk-1")
	require.NoError(t, err)

	assert.Len(t, tok.Token, 32)
	assert.Equal(t, StatusActive, tok.Status)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), tok.ExpiresAt, time.Minute)
}

func TestIssueReplacesPreviousToken(t *testing.T) {
	f := newFixture()

	first, err := f.service.Issue(context.Background(), "cust-1", "bk-1")
	require.NoError(t, err)
	second, err := f.service.Issue(context.Background(), "admin-1", "bk-1")
	require.NoError(t, err)

	assert.NotEqual(t, first.Token, second.Token)
	_, err = f.repo.GetByToken(context.Background(), first.Token)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestIssueRequiresConfirmedBooking(t *testing.T) {
	f := newFixture()

	_, err := f.service.Issue(context.Background(), "cust-1", "bk-2")
	assert.ErrorIs(t, err, ErrBookingNotConfirmed)
}

func TestIssueForbiddenForStrangers(t *testing.T) {
	f := newFixture()
	f.bookings.bookings["bk-1"].CustomerID = "someone-else"

	_, err := f.service.Issue(context.Background(), "cust-1", "bk-1")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRedeemHappyPath(t *testing.T) {
	f := newFixture()
	tok, err := f.service.Issue(context.Background(), "cust-1", "bk-1")
	require.NoError(t, err)

	b, err := f.service.Redeem(context.Background(), tok.Token)
	require.NoError(t, err)

	assert.Equal(t, booking.StatusCheckedIn, b.Status)
	assert.Equal(t, []string{"bk-1"}, f.bookings.checkedIn)
	assert.Equal(t, []string{"bk-1"}, f.notifier.completed)
}

func TestRedeemRejectsSecondUse(t *testing.T) {
	f := newFixture()
	tok, err := f.service.Issue(context.Background(), "cust-1", "bk-1")
	require.NoError(t, err)

	_, err = f.service.Redeem(context.Background(), tok.Token)
	require.NoError(t, err)

	_, err = f.service.Redeem(context.Background(), tok.Token)
	assert.ErrorIs(t, err, ErrTokenUsed)
}

func TestRedeemRejectsExpiredToken(t *testing.T) {
	f := newFixture()
	tok, err := f.service.Issue(context.Background(), "cust-1", "bk-1")
	require.NoError(t, err)
	f.repo.byToken[tok.Token].ExpiresAt = time.Now().Add(-time.Hour)

	_, err = f.service.Redeem(context.Background(), tok.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRedeemUnknownToken(t *testing.T) {
	f := newFixture()

	_, err := f.service.Redeem(context.Background(), "deadbeefdeadbeefdeadbeefdeadbeef")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestStatusForReportsLifecycle(t *testing.T) {
	f := newFixture()

	status, err := f.service.StatusFor(context.Background(), "cust-1", "bk-1")
	require.NoError(t, err)
	assert.Equal(t, StatusNoToken, status.Status)

	tok, err := f.service.Issue(context.Background(), "cust-1", "bk-1")
	require.NoError(t, err)

	status, err = f.service.StatusFor(context.Background(), "cust-1", "bk-1")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, status.Status)

	_, err = f.service.Redeem(context.Background(), tok.Token)
	require.NoError(t, err)

	status, err = f.service.StatusFor(context.Background(), "cust-1", "bk-1")
	require.NoError(t, err)
	assert.Equal(t, StatusUsed, status.Status)
	assert.NotNil(t, status.UsedAt)
}

func TestExpireStaleSweep(t *testing.T) {
	f := newFixture()
	tok, err := f.service.Issue(context.Background(), "cust-1", "bk-1")
	require.NoError(t, err)
	f.repo.byToken[tok.Token].ExpiresAt = time.Now().Add(-time.Hour)

	n, err := f.service.ExpireStale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	status, err := f.service.StatusFor(context.Background(), "cust-1", "bk-1")
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, status.Status)
}
