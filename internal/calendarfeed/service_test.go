package calendarfeed

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eventsfp/booking-backend/internal/booking"
)

type fakeRepo struct {
	feeds map[string]*Feed
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{feeds: map[string]*Feed{}}
}

func (f *fakeRepo) Create(_ context.Context, feed *Feed) error {
	feed.ID = "feed-" + feed.Token[:4]
	feed.CreatedAt = time.Now()
	f.feeds[feed.Token] = feed
	return nil
}

func (f *fakeRepo) GetByToken(_ context.Context, token string) (*Feed, error) {
	feed, ok := f.feeds[token]
	if !ok {
		return nil, ErrNotFound
	}
	return feed, nil
}

func (f *fakeRepo) List(context.Context) ([]*Feed, error) {
	var out []*Feed
	for _, feed := range f.feeds {
		out = append(out, feed)
	}
	return out, nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	for token, feed := range f.feeds {
		if feed.ID == id {
			delete(f.feeds, token)
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for token, feed := range f.feeds {
		if feed.Expired(now) {
			delete(f.feeds, token)
			n++
		}
	}
	return n, nil
}

type fakeBookings struct {
	bookings   []*booking.Booking
	lastFilter booking.Filter
}

func (f *fakeBookings) Create(context.Context, string, booking.CreateRequest) (*booking.Booking, error) {
	return nil, nil
}

func (f *fakeBookings) GetByID(context.Context, string, string) (*booking.Booking, error) {
	return nil, nil
}

func (f *fakeBookings) List(_ context.Context, filter booking.Filter) ([]*booking.Booking, int, error) {
	f.lastFilter = filter
	return f.bookings, len(f.bookings), nil
}

func (f *fakeBookings) ListForCustomer(context.Context, string, booking.Filter) ([]*booking.Booking, int, error) {
	return nil, 0, nil
}

func (f *fakeBookings) UpdateStatus(context.Context, string, string, booking.Status) error {
	return nil
}

func (f *fakeBookings) Cancel(context.Context, string, string) error { return nil }

func (f *fakeBookings) MarkCheckedIn(context.Context, string) error { return nil }

func newFeedService() (Service, *fakeRepo, *fakeBookings) {
	repo := newFakeRepo()
	start := time.Date(2026, 7, 4, 10, 0, 0, 0, time.UTC)
	bookings := &fakeBookings{bookings: []*booking.Booking{
		{
			ID:        "bk-1",
			EventName: "Harbor Kayak Tour",
			StartTime: start,
			EndTime:   start.Add(time.Hour),
			Status:    booking.StatusConfirmed,
		},
	}}
	return NewService(repo, bookings, zap.NewNop()), repo, bookings
}

func TestCreateFeedGeneratesToken(t *testing.T) {
	svc, _, _ := newFeedService()

	f, err := svc.Create(context.Background(), CreateRequest{Name: "All Bookings", Scope: ScopePublic})
	require.NoError(t, err)
	assert.Len(t, f.Token, 32)
	assert.Equal(t, ScopePublic, f.Scope)
}

func TestCreateFeedScopeValidation(t *testing.T) {
	svc, _, _ := newFeedService()

	_, err := svc.Create(context.Background(), CreateRequest{Name: "x", Scope: "weekly"})
	assert.ErrorIs(t, err, ErrInvalidScope)

	_, err = svc.Create(context.Background(), CreateRequest{Name: "x", Scope: ScopeEvent})
	assert.ErrorIs(t, err, ErrMissingRef)

	_, err = svc.Create(context.Background(), CreateRequest{Name: "x", Scope: ScopeCustomer})
	assert.ErrorIs(t, err, ErrMissingRef)
}

func TestRenderPublicFeed(t *testing.T) {
	svc, _, bookings := newFeedService()
	f, err := svc.Create(context.Background(), CreateRequest{Name: "All Bookings", Scope: ScopePublic})
	require.NoError(t, err)

	name, ics, err := svc.Render(context.Background(), f.Token)
	require.NoError(t, err)

	assert.Equal(t, "All Bookings", name)
	assert.Equal(t, booking.StatusConfirmed, bookings.lastFilter.Status)
	out := string(ics)
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n"))
	assert.Contains(t, out, "SUMMARY:Harbor Kayak Tour")
	assert.Contains(t, out, "UID:bk-1@eventsfp")
}

func TestRenderScopedFeedFilters(t *testing.T) {
	svc, _, bookings := newFeedService()
	eventID := "ev-1"
	f, err := svc.Create(context.Background(), CreateRequest{
		Name: "Kayak", Scope: ScopeEvent, EventID: &eventID,
	})
	require.NoError(t, err)

	_, _, err = svc.Render(context.Background(), f.Token)
	require.NoError(t, err)
	assert.Equal(t, "ev-1", bookings.lastFilter.EventID)
}

func TestRenderExpiredFeedIsGone(t *testing.T) {
	svc, repo, _ := newFeedService()
	past := time.Now().Add(-time.Hour)
	f, err := svc.Create(context.Background(), CreateRequest{
		Name: "Old", Scope: ScopePublic, ExpiresAt: &past,
	})
	require.NoError(t, err)

	_, _, err = svc.Render(context.Background(), f.Token)
	assert.ErrorIs(t, err, ErrExpired)

	n, err := svc.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Empty(t, repo.feeds)
}

func TestRenderUnknownToken(t *testing.T) {
	svc, _, _ := newFeedService()

	_, _, err := svc.Render(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
