package pricing

import (
	"time"
)

// DemandTier applies a base-price adjustment when recent demand meets both
// thresholds. Tiers are evaluated in order; the first match wins.
type DemandTier struct {
	MinBookings30d int     `json:"min_bookings_30d"`
	MinViews7d     int     `json:"min_views_7d"`
	AdjustPct      float64 `json:"adjust_pct"`
}

// SeasonalRule adjusts the base price when the event date matches a month,
// an annual MM-DD range, or a specific date.
type SeasonalRule struct {
	Months        []time.Month `json:"months,omitempty"`
	RangeStart    string       `json:"range_start,omitempty"` // "MM-DD", inclusive
	RangeEnd      string       `json:"range_end,omitempty"`   // "MM-DD", inclusive
	SpecificDates []string     `json:"specific_dates,omitempty"` // "2006-01-02"
	AdjustPct     float64      `json:"adjust_pct"`
}

// GroupTier grants a running-price discount once the participant count
// reaches the threshold. The highest threshold met wins.
type GroupTier struct {
	MinParticipants int     `json:"min_participants"`
	DiscountPct     float64 `json:"discount_pct"`
}

// EarlyBird discounts the running price when booking far enough ahead.
type EarlyBird struct {
	Enabled       bool    `json:"enabled"`
	MinDaysBefore int     `json:"min_days_before"`
	DiscountPct   float64 `json:"discount_pct"`
}

// LastMinute adjusts the running price close to the event. A negative
// percentage is a discount, a positive one a surcharge.
type LastMinute struct {
	Enabled        bool    `json:"enabled"`
	MaxHoursBefore int     `json:"max_hours_before"`
	AdjustPct      float64 `json:"adjust_pct"`
}

// LoyaltyTier grants a running-price discount keyed to the customer's
// historical booking count. The highest threshold met wins.
type LoyaltyTier struct {
	MinBookings int     `json:"min_bookings"`
	DiscountPct float64 `json:"discount_pct"`
}

// CapacityTier applies a base-price surcharge once date-level utilization
// reaches the threshold. Tiers are evaluated in order; the first match wins.
type CapacityTier struct {
	MinUtilizationPct float64 `json:"min_utilization_pct"`
	SurchargePct      float64 `json:"surcharge_pct"`
}

// MultiEventTier grants a cart-level discount keyed to the number of
// distinct event items. The highest threshold met wins.
type MultiEventTier struct {
	MinItems    int     `json:"min_items"`
	DiscountPct float64 `json:"discount_pct"`
}

// Rules is the full pricing configuration for an event (or the global
// default). Stored as a JSONB blob per scope.
type Rules struct {
	DemandTiers     []DemandTier     `json:"demand_tiers,omitempty"`
	SeasonalRules   []SeasonalRule   `json:"seasonal_rules,omitempty"`
	GroupTiers      []GroupTier      `json:"group_tiers,omitempty"`
	EarlyBird       EarlyBird        `json:"early_bird"`
	LastMinute      LastMinute       `json:"last_minute"`
	LoyaltyTiers    []LoyaltyTier    `json:"loyalty_tiers,omitempty"`
	CapacityTiers   []CapacityTier   `json:"capacity_tiers,omitempty"`
	MultiEventTiers []MultiEventTier `json:"multi_event_tiers,omitempty"`
}

// DefaultRules mirrors the stock configuration: modest demand and capacity
// pressure, common group/loyalty ladders, early-bird on, last-minute off.
func DefaultRules() Rules {
	return Rules{
		DemandTiers: []DemandTier{
			{MinBookings30d: 20, MinViews7d: 100, AdjustPct: 15},
			{MinBookings30d: 10, MinViews7d: 50, AdjustPct: 8},
		},
		GroupTiers: []GroupTier{
			{MinParticipants: 5, DiscountPct: 5},
			{MinParticipants: 10, DiscountPct: 10},
		},
		EarlyBird: EarlyBird{
			Enabled:       true,
			MinDaysBefore: 30,
			DiscountPct:   10,
		},
		LastMinute: LastMinute{
			Enabled: false,
		},
		LoyaltyTiers: []LoyaltyTier{
			{MinBookings: 3, DiscountPct: 3},
			{MinBookings: 10, DiscountPct: 7},
		},
		CapacityTiers: []CapacityTier{
			{MinUtilizationPct: 90, SurchargePct: 20},
			{MinUtilizationPct: 75, SurchargePct: 10},
			{MinUtilizationPct: 50, SurchargePct: 5},
		},
		MultiEventTiers: []MultiEventTier{
			{MinItems: 2, DiscountPct: 5},
			{MinItems: 3, DiscountPct: 10},
			{MinItems: 5, DiscountPct: 15},
		},
	}
}

// matchesSeason reports whether the rule covers the given event date.
func (r SeasonalRule) matches(eventDate time.Time) bool {
	for _, m := range r.Months {
		if eventDate.Month() == m {
			return true
		}
	}

	for _, d := range r.SpecificDates {
		if t, err := time.Parse("2006-01-02", d); err == nil {
			if t.Year() == eventDate.Year() && t.YearDay() == eventDate.YearDay() {
				return true
			}
		}
	}

	if r.RangeStart != "" && r.RangeEnd != "" {
		md := eventDate.Format("01-02")
		if r.RangeStart <= r.RangeEnd {
			return md >= r.RangeStart && md <= r.RangeEnd
		}
		// Range wraps the year boundary (e.g. 12-20 .. 01-06)
		return md >= r.RangeStart || md <= r.RangeEnd
	}

	return false
}
