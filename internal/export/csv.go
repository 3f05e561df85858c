package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/eventsfp/booking-backend/internal/booking"
)

// utf8BOM lets Excel detect the encoding when the file is double-clicked.
const utf8BOM = "\xEF\xBB\xBF"

var csvHeader = []string{
	"booking_id", "event", "customer_email", "start_time", "end_time",
	"participants", "unit_price", "total_price", "status", "notes", "created_at",
}

// quoteField always wraps the value in double quotes, doubling embedded
// quotes. Unconditional quoting keeps the output stable regardless of
// commas or newlines in user content.
func quoteField(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

func writeRecord(w io.Writer, fields []string) error {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = quoteField(f)
	}
	_, err := io.WriteString(w, strings.Join(quoted, ",")+"\r\n")
	return err
}

// WriteBookingsCSV writes the bookings as a spreadsheet-friendly CSV:
// a UTF-8 BOM, a header line, then one line per booking.
func WriteBookingsCSV(w io.Writer, bookings []*booking.Booking) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("write BOM failed: %w", err)
	}
	if err := writeRecord(w, csvHeader); err != nil {
		return fmt.Errorf("write CSV header failed: %w", err)
	}

	for _, b := range bookings {
		record := []string{
			b.ID,
			b.EventName,
			b.CustomerEmail,
			b.StartTime.UTC().Format(time.RFC3339),
			b.EndTime.UTC().Format(time.RFC3339),
			strconv.Itoa(b.Participants),
			strconv.FormatFloat(b.UnitPrice, 'f', 2, 64),
			strconv.FormatFloat(b.TotalPrice, 'f', 2, 64),
			string(b.Status),
			b.Notes,
			b.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writeRecord(w, record); err != nil {
			return fmt.Errorf("write CSV record failed: %w", err)
		}
	}
	return nil
}
