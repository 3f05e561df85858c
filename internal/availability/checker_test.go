package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventsfp/booking-backend/internal/event"
	"github.com/eventsfp/booking-backend/internal/reservation"
	"github.com/eventsfp/booking-backend/internal/resource"
)

type fakeEvents struct {
	event       *event.Event
	requiredIDs []string
}

func (f *fakeEvents) GetByID(_ context.Context, id string) (*event.Event, error) {
	if f.event == nil || f.event.ID != id {
		return nil, event.ErrNotFound
	}
	return f.event, nil
}

func (f *fakeEvents) RequiredResourceIDs(context.Context, string) ([]string, error) {
	return f.requiredIDs, nil
}

type fakeResources struct {
	resources map[string]*resource.Resource
}

func (f *fakeResources) GetByIDs(_ context.Context, ids []string) ([]*resource.Resource, error) {
	var out []*resource.Resource
	for _, id := range ids {
		if r, ok := f.resources[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeReservations struct {
	byResource map[string][]*reservation.Reservation
}

func (f *fakeReservations) FindConflicts(_ context.Context, resourceID string, start, end time.Time) ([]*reservation.Reservation, error) {
	var out []*reservation.Reservation
	for _, r := range f.byResource[resourceID] {
		if r.StartTime.Before(end) && r.EndTime.After(start) {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeCapacity struct {
	booked int
}

func (f *fakeCapacity) ParticipantsForDay(context.Context, string, time.Time) (int, error) {
	return f.booked, nil
}

func day(hour, min int) time.Time {
	return time.Date(2026, 6, 15, hour, min, 0, 0, time.UTC)
}

func newTestChecker(reservations *fakeReservations, capacity *fakeCapacity) *Checker {
	events := &fakeEvents{
		event: &event.Event{
			ID:              "ev-1",
			Name:            "City Walking Tour",
			DurationMinutes: 60,
			MaxCapacity:     10,
			IsActive:        true,
		},
		requiredIDs: []string{"res-1"},
	}
	resources := &fakeResources{
		resources: map[string]*resource.Resource{
			"res-1": {
				ID:        "res-1",
				Name:      "Guide Marco",
				OpenTime:  "09:00:00",
				CloseTime: "18:00:00",
			},
		},
	}
	return NewChecker(events, resources, reservations, capacity)
}

func TestCheckAvailableSlot(t *testing.T) {
	checker := newTestChecker(&fakeReservations{}, &fakeCapacity{})

	result, err := checker.Check(context.Background(), "ev-1", day(10, 0), nil)
	require.NoError(t, err)

	assert.True(t, result.Available)
	assert.True(t, result.CapacityOK)
	assert.Empty(t, result.Conflicts)
	require.Len(t, result.ResourceStatus, 1)
	assert.True(t, result.ResourceStatus[0].Available)
}

func TestCheckDetectsPartialOverlap(t *testing.T) {
	// Existing reservation 10:00-11:00; request 10:30-11:30 must conflict.
	reservations := &fakeReservations{
		byResource: map[string][]*reservation.Reservation{
			"res-1": {{
				ID:         "rsv-1",
				ResourceID: "res-1",
				StartTime:  day(10, 0),
				EndTime:    day(11, 0),
				Status:     reservation.StatusActive,
			}},
		},
	}
	checker := newTestChecker(reservations, &fakeCapacity{})

	result, err := checker.Check(context.Background(), "ev-1", day(10, 30), nil)
	require.NoError(t, err)

	assert.False(t, result.Available)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, "res-1", result.Conflicts[0].ResourceID)
	assert.Equal(t, day(10, 0), result.Conflicts[0].StartTime)
	require.Len(t, result.ResourceStatus, 1)
	assert.Equal(t, "already reserved", result.ResourceStatus[0].Reason)
}

func TestCheckBackToBackSlotsDoNotConflict(t *testing.T) {
	reservations := &fakeReservations{
		byResource: map[string][]*reservation.Reservation{
			"res-1": {{
				ResourceID: "res-1",
				StartTime:  day(10, 0),
				EndTime:    day(11, 0),
				Status:     reservation.StatusActive,
			}},
		},
	}
	checker := newTestChecker(reservations, &fakeCapacity{})

	result, err := checker.Check(context.Background(), "ev-1", day(11, 0), nil)
	require.NoError(t, err)
	assert.True(t, result.Available)
}

func TestCheckOutsideResourceHours(t *testing.T) {
	checker := newTestChecker(&fakeReservations{}, &fakeCapacity{})

	// 17:30 start with a 60 minute event overruns the 18:00 close.
	result, err := checker.Check(context.Background(), "ev-1", day(17, 30), nil)
	require.NoError(t, err)

	assert.False(t, result.Available)
	require.Len(t, result.ResourceStatus, 1)
	assert.Equal(t, "outside availability hours", result.ResourceStatus[0].Reason)
}

func TestCheckCapacityExhausted(t *testing.T) {
	checker := newTestChecker(&fakeReservations{}, &fakeCapacity{booked: 10})

	result, err := checker.Check(context.Background(), "ev-1", day(10, 0), nil)
	require.NoError(t, err)

	assert.False(t, result.Available)
	assert.False(t, result.CapacityOK)
	assert.InDelta(t, 100.0, result.UtilizationPct, 1e-9)
}

func TestRecommendationsOnConflict(t *testing.T) {
	// Block 10:00-11:00 so the 10:30 request fails but nearby hourly slots
	// remain open.
	reservations := &fakeReservations{
		byResource: map[string][]*reservation.Reservation{
			"res-1": {{
				ResourceID: "res-1",
				StartTime:  day(10, 0),
				EndTime:    day(11, 0),
				Status:     reservation.StatusActive,
			}},
		},
	}
	checker := newTestChecker(reservations, &fakeCapacity{booked: 4})

	result, err := checker.Check(context.Background(), "ev-1", day(10, 30), nil)
	require.NoError(t, err)

	assert.False(t, result.Available)
	require.NotEmpty(t, result.Recommendations)
	assert.LessOrEqual(t, len(result.Recommendations), 5)

	// 40% utilization costs 20 points on every open slot.
	for _, rec := range result.Recommendations {
		assert.InDelta(t, 80.0, rec.Score, 1e-9)
		assert.False(t, rec.StartTime.Equal(day(10, 30)), "requested slot must not be recommended")
	}

	// Scores are sorted descending.
	for i := 1; i < len(result.Recommendations); i++ {
		assert.GreaterOrEqual(t, result.Recommendations[i-1].Score, result.Recommendations[i].Score)
	}
}

func TestCheckUnknownResourceFails(t *testing.T) {
	checker := newTestChecker(&fakeReservations{}, &fakeCapacity{})

	_, err := checker.Check(context.Background(), "ev-1", day(10, 0), []string{"res-1", "res-missing"})
	assert.ErrorIs(t, err, resource.ErrNotFound)
}
