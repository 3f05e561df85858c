package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyContext() Context {
	// Far enough in the future to dodge last-minute rules, close enough to
	// dodge early-bird defaults.
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	return Context{
		Now:          now,
		EventStart:   now.AddDate(0, 0, 10),
		Participants: 1,
	}
}

func TestEvaluateEmptyContextStaysWithinBounds(t *testing.T) {
	bases := []float64{1, 10, 99.99, 100, 2500}

	for _, base := range bases {
		price, _ := Evaluate(base, base*0.5, base*2, DefaultRules(), emptyContext())
		assert.GreaterOrEqual(t, price, base*0.5, "base %v", base)
		assert.LessOrEqual(t, price, base*2, "base %v", base)
	}
}

func TestEvaluateClampsExtremes(t *testing.T) {
	rules := Rules{
		CapacityTiers: []CapacityTier{{MinUtilizationPct: 50, SurchargePct: 500}},
	}
	ctx := emptyContext()
	ctx.UtilizationPct = 95

	price, _ := Evaluate(100, 50, 200, rules, ctx)
	assert.Equal(t, 200.0, price, "surcharge beyond max must clamp to max")

	rules = Rules{
		GroupTiers: []GroupTier{{MinParticipants: 2, DiscountPct: 99}},
	}
	ctx = emptyContext()
	ctx.Participants = 4

	price, _ = Evaluate(100, 50, 200, rules, ctx)
	assert.Equal(t, 50.0, price, "discount below min must clamp to min")
}

func TestGroupDiscountTierSelection(t *testing.T) {
	rules := Rules{
		GroupTiers: []GroupTier{
			{MinParticipants: 5, DiscountPct: 5},
			{MinParticipants: 10, DiscountPct: 10},
		},
	}

	tests := []struct {
		participants int
		want         float64
	}{
		{1, 100},  // no tier
		{4, 100},  // below first tier
		{5, 95},   // 5% off 100
		{6, 95},   // base 100, 6 participants, tiers {5:5,10:10}
		{9, 95},   // still first tier
		{10, 90},  // highest tier met
		{25, 90},  // tiers do not stack
	}

	for _, tt := range tests {
		ctx := emptyContext()
		ctx.Participants = tt.participants
		price, _ := Evaluate(100, 50, 200, rules, ctx)
		assert.InDelta(t, tt.want, price, 1e-9, "participants=%d", tt.participants)
	}
}

func TestGroupDiscountMonotonicInParticipants(t *testing.T) {
	rules := DefaultRules()

	prev := -1.0
	for p := 1; p <= 30; p++ {
		ctx := emptyContext()
		ctx.Participants = p
		price, _ := Evaluate(100, 50, 200, rules, ctx)

		discount := 100 - price
		require.GreaterOrEqual(t, discount, prev,
			"discount must be non-decreasing in participants (p=%d)", p)
		prev = discount
	}
}

func TestStepOrderIsRunningTotalDependent(t *testing.T) {
	// Group (of running) after demand (of base): 100 +15 = 115, then -10%
	// of 115 = 103.5. A merged formula would give 100 +15 -10 = 105.
	rules := Rules{
		DemandTiers: []DemandTier{{MinBookings30d: 1, MinViews7d: 0, AdjustPct: 15}},
		GroupTiers:  []GroupTier{{MinParticipants: 2, DiscountPct: 10}},
	}
	ctx := emptyContext()
	ctx.Bookings30d = 5
	ctx.Participants = 3

	price, adjustments := Evaluate(100, 50, 200, rules, ctx)
	assert.InDelta(t, 103.5, price, 1e-9)
	require.Len(t, adjustments, 2)
	assert.Equal(t, "demand", adjustments[0].Step)
	assert.Equal(t, "group", adjustments[1].Step)
	assert.InDelta(t, -11.5, adjustments[1].Amount, 1e-9)
}

func TestEarlyBirdAndLastMinute(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	rules := Rules{
		EarlyBird:  EarlyBird{Enabled: true, MinDaysBefore: 30, DiscountPct: 10},
		LastMinute: LastMinute{Enabled: true, MaxHoursBefore: 24, AdjustPct: -20},
	}

	// 40 days ahead: early-bird only.
	ctx := Context{Now: now, EventStart: now.AddDate(0, 0, 40), Participants: 1}
	price, _ := Evaluate(100, 50, 200, rules, ctx)
	assert.InDelta(t, 90, price, 1e-9)

	// 6 hours ahead: last-minute only.
	ctx = Context{Now: now, EventStart: now.Add(6 * time.Hour), Participants: 1}
	price, _ = Evaluate(100, 50, 200, rules, ctx)
	assert.InDelta(t, 80, price, 1e-9)

	// 10 days ahead: neither applies.
	ctx = Context{Now: now, EventStart: now.AddDate(0, 0, 10), Participants: 1}
	price, _ = Evaluate(100, 50, 200, rules, ctx)
	assert.InDelta(t, 100, price, 1e-9)
}

func TestSeasonalMatching(t *testing.T) {
	july := time.Date(2026, 7, 10, 10, 0, 0, 0, time.UTC)
	december := time.Date(2026, 12, 28, 10, 0, 0, 0, time.UTC)
	march := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)

	rules := Rules{
		SeasonalRules: []SeasonalRule{
			{Months: []time.Month{time.July, time.August}, AdjustPct: 20},
			{RangeStart: "12-20", RangeEnd: "01-06", AdjustPct: 25},
		},
	}

	ctx := emptyContext()
	ctx.EventStart = july
	price, _ := Evaluate(100, 50, 200, rules, ctx)
	assert.InDelta(t, 120, price, 1e-9)

	ctx.EventStart = december
	price, _ = Evaluate(100, 50, 200, rules, ctx)
	assert.InDelta(t, 125, price, 1e-9, "year-wrapping range must match late December")

	ctx.EventStart = march
	price, _ = Evaluate(100, 50, 200, rules, ctx)
	assert.InDelta(t, 100, price, 1e-9)
}

func TestCapacitySurchargeFirstMatch(t *testing.T) {
	rules := DefaultRules()
	rules.GroupTiers = nil
	rules.EarlyBird.Enabled = false

	tests := []struct {
		utilization float64
		want        float64
	}{
		{95, 120}, // ≥90 → +20% of base
		{80, 110}, // ≥75 → +10%
		{60, 105}, // ≥50 → +5%
		{30, 100}, // none
	}

	for _, tt := range tests {
		ctx := emptyContext()
		ctx.UtilizationPct = tt.utilization
		price, _ := Evaluate(100, 50, 200, rules, ctx)
		assert.InDelta(t, tt.want, price, 1e-9, "utilization=%v", tt.utilization)
	}
}

func TestMultiEventDiscountPct(t *testing.T) {
	rules := DefaultRules()

	assert.Equal(t, 0.0, MultiEventDiscountPct(rules, 1))
	assert.Equal(t, 5.0, MultiEventDiscountPct(rules, 2))
	assert.Equal(t, 10.0, MultiEventDiscountPct(rules, 3))
	assert.Equal(t, 10.0, MultiEventDiscountPct(rules, 4))
	assert.Equal(t, 15.0, MultiEventDiscountPct(rules, 7))
}
