package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantH   int
		wantM   int
		wantErr bool
	}{
		{name: "short form", in: "09:00", wantH: 9, wantM: 0},
		{name: "long form", in: "18:30:00", wantH: 18, wantM: 30},
		{name: "garbage", in: "morning", wantErr: true},
		{name: "out of range", in: "25:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m, _, err := ParseClock(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantH, h)
			assert.Equal(t, tt.wantM, m)
		})
	}
}

func TestSlotsBetween(t *testing.T) {
	date := time.Date(2026, 3, 14, 12, 34, 56, 0, time.UTC)

	slots, err := SlotsBetween(date, "09:00", "18:00", time.Hour)
	require.NoError(t, err)
	require.Len(t, slots, 9)
	assert.Equal(t, time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC), slots[0])
	assert.Equal(t, time.Date(2026, 3, 14, 17, 0, 0, 0, time.UTC), slots[8])

	_, err = SlotsBetween(date, "18:00", "09:00", time.Hour)
	require.Error(t, err)
}

func TestWithinBusinessHours(t *testing.T) {
	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	ok, err := WithinBusinessHours(start, start.Add(time.Hour), "09:00", "18:00")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = WithinBusinessHours(start, start.Add(9*time.Hour), "09:00", "18:00")
	require.NoError(t, err)
	assert.False(t, ok, "ending past close must be rejected")

	early := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	ok, err = WithinBusinessHours(early, early.Add(time.Hour), "09:00", "18:00")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWeekBounds(t *testing.T) {
	// 2026-03-14 is a Saturday; the Monday-based week starts on 2026-03-09.
	sat := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	start, end := WeekBounds(sat)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), end)

	// Sunday belongs to the same week, not the next one.
	sun := time.Date(2026, 3, 15, 1, 0, 0, 0, time.UTC)
	start, _ = WeekBounds(sun)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), start)
}

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	// 10:00-11:00 vs 10:30-11:30 overlap
	assert.True(t, Overlaps(base, base.Add(time.Hour), base.Add(30*time.Minute), base.Add(90*time.Minute)))
	// Touching intervals do not overlap (half-open)
	assert.False(t, Overlaps(base, base.Add(time.Hour), base.Add(time.Hour), base.Add(2*time.Hour)))
	// Containment overlaps
	assert.True(t, Overlaps(base, base.Add(2*time.Hour), base.Add(30*time.Minute), base.Add(time.Hour)))
}
