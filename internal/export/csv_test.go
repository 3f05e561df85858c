package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventsfp/booking-backend/internal/booking"
)

func sampleBookings() []*booking.Booking {
	start := time.Date(2026, 7, 4, 10, 0, 0, 0, time.UTC)
	return []*booking.Booking{
		{
			ID:            "bk-1",
			EventName:     "Harbor Kayak Tour",
			CustomerEmail: "anna@example.com",
			StartTime:     start,
			EndTime:       start.Add(90 * time.Minute),
			Participants:  2,
			UnitPrice:     95,
			TotalPrice:    190,
			Status:        booking.StatusConfirmed,
			Notes:         `bring "waterproof" bags, please`,
			CreatedAt:     start.AddDate(0, 0, -10),
		},
		{
			ID:            "bk-2",
			EventName:     "Wine Tasting",
			CustomerEmail: "ben@example.com",
			StartTime:     start.AddDate(0, 0, 1),
			EndTime:       start.AddDate(0, 0, 1).Add(time.Hour),
			Participants:  4,
			UnitPrice:     60,
			TotalPrice:    240,
			Status:        booking.StatusPending,
			CreatedAt:     start.AddDate(0, 0, -2),
		},
	}
}

func TestWriteBookingsCSVShape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBookingsCSV(&buf, sampleBookings()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\xEF\xBB\xBF"), "output must start with a UTF-8 BOM")

	lines := strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n")
	require.Len(t, lines, 3, "header plus one line per booking")
	assert.Equal(t, `"booking_id"`, strings.SplitN(strings.TrimPrefix(lines[0], "\xEF\xBB\xBF"), ",", 2)[0])
}

func TestWriteBookingsCSVQuotesEverythingAndDoublesQuotes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBookingsCSV(&buf, sampleBookings()))

	lines := strings.Split(buf.String(), "\r\n")
	row := lines[1]

	// Every field is wrapped in double quotes.
	for _, field := range strings.Split(row, `","`) {
		assert.NotEmpty(t, field)
	}
	assert.Contains(t, row, `"bring ""waterproof"" bags, please"`)
	assert.Contains(t, row, `"95.00"`)
	assert.Contains(t, row, `"confirmed"`)
}

func TestWriteBookingsCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBookingsCSV(&buf, nil))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\r\n"), "\r\n")
	assert.Len(t, lines, 1, "header only")
}
