package availability

import (
	"context"
	"sort"
	"time"

	"github.com/eventsfp/booking-backend/internal/event"
	"github.com/eventsfp/booking-backend/internal/pkg/timeutil"
	"github.com/eventsfp/booking-backend/internal/reservation"
	"github.com/eventsfp/booking-backend/internal/resource"
)

// Scan window and scoring weights for alternative-slot recommendations.
const (
	scanOpenClock       = "09:00"
	scanCloseClock      = "18:00"
	conflictPenalty     = 10.0
	utilizationPenalty  = 0.5
	maxRecommendations  = 5
	recommendationScore = 100.0
)

// CapacityCounter reports how many participants are already booked for an
// event on a given day, including pending bookings still inside the hold
// window. Implemented by the booking repository.
type CapacityCounter interface {
	ParticipantsForDay(ctx context.Context, eventID string, day time.Time) (int, error)
}

// ReservationFinder is the slice of the reservation repository the checker
// needs.
type ReservationFinder interface {
	FindConflicts(ctx context.Context, resourceID string, start, end time.Time) ([]*reservation.Reservation, error)
}

// EventSource is the slice of the event service the checker needs.
type EventSource interface {
	GetByID(ctx context.Context, id string) (*event.Event, error)
	RequiredResourceIDs(ctx context.Context, eventID string) ([]string, error)
}

// ResourceSource is the slice of the resource service the checker needs.
type ResourceSource interface {
	GetByIDs(ctx context.Context, ids []string) ([]*resource.Resource, error)
}

// Checker answers "can this event run at this time with these resources"
// as an advisory read. The booking reserve transaction repeats the same
// checks authoritatively before writing.
type Checker struct {
	events       EventSource
	resources    ResourceSource
	reservations ReservationFinder
	capacity     CapacityCounter
}

func NewChecker(
	events EventSource,
	resources ResourceSource,
	reservations ReservationFinder,
	capacity CapacityCounter,
) *Checker {
	return &Checker{
		events:       events,
		resources:    resources,
		reservations: reservations,
		capacity:     capacity,
	}
}

// Check evaluates the requested slot. When resourceIDs is empty the event's
// required resources are used. On an unavailable verdict the result carries
// ranked alternative slots.
func (c *Checker) Check(ctx context.Context, eventID string, start time.Time, resourceIDs []string) (*Result, error) {
	ev, err := c.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	resources, err := c.resolveResources(ctx, ev, resourceIDs)
	if err != nil {
		return nil, err
	}

	result, err := c.evaluate(ctx, ev, resources, start)
	if err != nil {
		return nil, err
	}

	if !result.Available {
		recs, err := c.recommend(ctx, ev, resources, start)
		if err != nil {
			return nil, err
		}
		result.Recommendations = recs
	}
	if result.Recommendations == nil {
		result.Recommendations = []Recommendation{}
	}

	return result, nil
}

func (c *Checker) resolveResources(ctx context.Context, ev *event.Event, resourceIDs []string) ([]*resource.Resource, error) {
	ids := resourceIDs
	if len(ids) == 0 {
		var err error
		ids, err = c.events.RequiredResourceIDs(ctx, ev.ID)
		if err != nil {
			return nil, err
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	resources, err := c.resources.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(resources) != len(ids) {
		return nil, resource.ErrNotFound
	}
	return resources, nil
}

// evaluate runs the per-resource overlap checks and the date-level capacity
// check for a single candidate slot.
func (c *Checker) evaluate(ctx context.Context, ev *event.Event, resources []*resource.Resource, start time.Time) (*Result, error) {
	end := start.Add(ev.Duration())

	result := &Result{
		EventID:        ev.ID,
		StartTime:      start,
		EndTime:        end,
		Available:      true,
		Conflicts:      []Conflict{},
		ResourceStatus: []ResourceStatus{},
	}

	for _, res := range resources {
		status := ResourceStatus{
			ResourceID: res.ID,
			Name:       res.Name,
			Available:  true,
		}

		inHours, err := timeutil.WithinBusinessHours(start, end, res.OpenTime, res.CloseTime)
		if err != nil {
			return nil, err
		}
		if !inHours {
			status.Available = false
			status.Reason = "outside availability hours"
		}

		conflicts, err := c.reservations.FindConflicts(ctx, res.ID, start, end)
		if err != nil {
			return nil, err
		}
		status.Conflicts = len(conflicts)
		if len(conflicts) > 0 {
			status.Available = false
			status.Reason = "already reserved"
		}

		for _, conflict := range conflicts {
			result.Conflicts = append(result.Conflicts, Conflict{
				ResourceID:   res.ID,
				ResourceName: res.Name,
				StartTime:    conflict.StartTime,
				EndTime:      conflict.EndTime,
			})
		}

		if !status.Available {
			result.Available = false
		}
		result.ResourceStatus = append(result.ResourceStatus, status)
	}

	booked, err := c.capacity.ParticipantsForDay(ctx, ev.ID, start)
	if err != nil {
		return nil, err
	}
	result.CapacityOK = booked < ev.MaxCapacity
	if ev.MaxCapacity > 0 {
		result.UtilizationPct = float64(booked) / float64(ev.MaxCapacity) * 100
	}
	if !result.CapacityOK {
		result.Available = false
	}

	return result, nil
}

// recommend scans same-day hourly slots (09:00-18:00) and the rest of the
// week at the requested wall-clock time, scoring each available candidate.
func (c *Checker) recommend(ctx context.Context, ev *event.Event, resources []*resource.Resource, start time.Time) ([]Recommendation, error) {
	var candidates []time.Time

	daySlots, err := timeutil.SlotsBetween(start, scanOpenClock, scanCloseClock, time.Hour)
	if err != nil {
		return nil, err
	}
	for _, slot := range daySlots {
		if !slot.Equal(start) {
			candidates = append(candidates, slot)
		}
	}

	weekStart, weekEnd := timeutil.WeekBounds(start)
	for day := weekStart; day.Before(weekEnd); day = day.AddDate(0, 0, 1) {
		slot := time.Date(day.Year(), day.Month(), day.Day(),
			start.Hour(), start.Minute(), 0, 0, start.Location())
		if slot.Equal(start) {
			continue
		}
		candidates = append(candidates, slot)
	}

	var recs []Recommendation
	for _, candidate := range candidates {
		res, err := c.evaluate(ctx, ev, resources, candidate)
		if err != nil {
			return nil, err
		}
		if !res.Available {
			continue
		}
		score := recommendationScore -
			conflictPenalty*float64(len(res.Conflicts)) -
			utilizationPenalty*res.UtilizationPct
		recs = append(recs, Recommendation{
			StartTime: candidate,
			EndTime:   res.EndTime,
			Score:     score,
		})
	}

	// Stable: equal scores keep scan order.
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs, nil
}
