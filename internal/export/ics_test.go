package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteICSStructure(t *testing.T) {
	now := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	start := time.Date(2026, 7, 4, 10, 30, 0, 0, time.UTC)

	var buf bytes.Buffer
	err := WriteICS(&buf, "My Bookings", []ICSEvent{
		{
			UID:      "bk-1@eventsfp",
			Summary:  "Harbor Kayak Tour",
			Location: "Pier 4, Oldtown",
			Start:    start,
			End:      start.Add(90 * time.Minute),
		},
	}, now)
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(out, "END:VCALENDAR\r\n"))
	assert.Contains(t, out, "VERSION:2.0\r\n")
	assert.Contains(t, out, "PRODID:-//EventsFP//Booking Backend//EN\r\n")
	assert.Contains(t, out, "UID:bk-1@eventsfp\r\n")
	assert.Contains(t, out, "DTSTAMP:20260701T080000Z\r\n")
	assert.Contains(t, out, "DTSTART:20260704T103000Z\r\n")
	assert.Contains(t, out, "DTEND:20260704T120000Z\r\n")

	// Every line is CRLF-terminated.
	for _, line := range strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n") {
		assert.NotContains(t, line, "\n")
	}
}

func TestWriteICSEscapesText(t *testing.T) {
	now := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	start := now.AddDate(0, 0, 3)

	var buf bytes.Buffer
	err := WriteICS(&buf, "", []ICSEvent{
		{
			UID:         "bk-2@eventsfp",
			Summary:     "Dinner; wine, cheese",
			Description: "line one\nline two \\ backslash",
			Start:       start,
			End:         start.Add(time.Hour),
		},
	}, now)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `SUMMARY:Dinner\; wine\, cheese`)
	assert.Contains(t, out, `DESCRIPTION:line one\nline two \\ backslash`)
	assert.NotContains(t, out, "X-WR-CALNAME")
}

func TestWriteICSConvertsToUTC(t *testing.T) {
	now := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	start := time.Date(2026, 7, 4, 12, 0, 0, 0, berlin) // 10:00 UTC in summer

	var buf bytes.Buffer
	err = WriteICS(&buf, "", []ICSEvent{
		{UID: "bk-3@eventsfp", Summary: "Walk", Start: start, End: start.Add(time.Hour)},
	}, now)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "DTSTART:20260704T100000Z")
}
