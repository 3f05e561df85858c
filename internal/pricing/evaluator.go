package pricing

import (
	"time"
)

// Context carries the demand and customer signals gathered before evaluation.
// Given the same Context the evaluator is pure.
type Context struct {
	Now              time.Time
	EventStart       time.Time
	Participants     int
	Bookings30d      int
	Views7d          int
	CustomerBookings int
	UtilizationPct   float64
}

// Adjustment records one applied pipeline step for quote breakdowns.
type Adjustment struct {
	Step   string  `json:"step"`
	Pct    float64 `json:"pct"`
	Amount float64 `json:"amount"`
}

// Evaluate runs the dynamic pricing pipeline and returns the final unit
// price with the applied adjustments.
//
// The step order is load-bearing: demand, seasonal and capacity steps apply
// percentages of the BASE price while group, early-bird, last-minute and
// loyalty steps apply percentages of the RUNNING total, so reordering or
// merging steps changes the result.
func Evaluate(base, min, max float64, rules Rules, ctx Context) (float64, []Adjustment) {
	price := base
	var applied []Adjustment

	apply := func(step string, pct, amount float64) {
		if amount == 0 {
			return
		}
		price += amount
		applied = append(applied, Adjustment{Step: step, Pct: pct, Amount: amount})
	}

	// 1. Demand: first tier whose both thresholds are met, % of base.
	for _, t := range rules.DemandTiers {
		if ctx.Bookings30d >= t.MinBookings30d && ctx.Views7d >= t.MinViews7d {
			apply("demand", t.AdjustPct, base*t.AdjustPct/100)
			break
		}
	}

	// 2. Seasonal: first matching rule, % of base.
	for _, r := range rules.SeasonalRules {
		if r.matches(ctx.EventStart) {
			apply("seasonal", r.AdjustPct, base*r.AdjustPct/100)
			break
		}
	}

	// 3. Group discount: highest participant threshold met, % of running.
	if ctx.Participants > 1 {
		var best *GroupTier
		for i, t := range rules.GroupTiers {
			if ctx.Participants >= t.MinParticipants {
				if best == nil || t.MinParticipants > best.MinParticipants {
					best = &rules.GroupTiers[i]
				}
			}
		}
		if best != nil {
			apply("group", -best.DiscountPct, -price*best.DiscountPct/100)
		}
	}

	// 4. Early-bird: % of running when booked far enough ahead.
	if rules.EarlyBird.Enabled {
		daysUntil := ctx.EventStart.Sub(ctx.Now).Hours() / 24
		if daysUntil >= float64(rules.EarlyBird.MinDaysBefore) {
			apply("early_bird", -rules.EarlyBird.DiscountPct, -price*rules.EarlyBird.DiscountPct/100)
		}
	}

	// 5. Last-minute: % of running close to the event, sign allowed.
	if rules.LastMinute.Enabled {
		hoursUntil := ctx.EventStart.Sub(ctx.Now).Hours()
		if hoursUntil >= 0 && hoursUntil <= float64(rules.LastMinute.MaxHoursBefore) {
			apply("last_minute", rules.LastMinute.AdjustPct, price*rules.LastMinute.AdjustPct/100)
		}
	}

	// 6. Loyalty: highest booking-count threshold met, % of running.
	{
		var best *LoyaltyTier
		for i, t := range rules.LoyaltyTiers {
			if ctx.CustomerBookings >= t.MinBookings {
				if best == nil || t.MinBookings > best.MinBookings {
					best = &rules.LoyaltyTiers[i]
				}
			}
		}
		if best != nil {
			apply("loyalty", -best.DiscountPct, -price*best.DiscountPct/100)
		}
	}

	// 7. Capacity surcharge: first utilization threshold met, % of base.
	for _, t := range rules.CapacityTiers {
		if ctx.UtilizationPct >= t.MinUtilizationPct {
			apply("capacity", t.SurchargePct, base*t.SurchargePct/100)
			break
		}
	}

	// 8. Clamp to the configured bounds.
	if price < min {
		price = min
	}
	if price > max {
		price = max
	}

	return price, applied
}

// MultiEventDiscountPct returns the cart discount for the given number of
// distinct event items. Zero when fewer than two items.
func MultiEventDiscountPct(rules Rules, itemCount int) float64 {
	if itemCount < 2 {
		return 0
	}
	var best float64
	bestMin := 0
	for _, t := range rules.MultiEventTiers {
		if itemCount >= t.MinItems && t.MinItems > bestMin {
			best = t.DiscountPct
			bestMin = t.MinItems
		}
	}
	return best
}
