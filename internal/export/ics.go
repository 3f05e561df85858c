package export

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	icsProdID     = "-//EventsFP//Booking Backend//EN"
	icsTimeLayout = "20060102T150405Z"
)

// ICSEvent is one VEVENT in a generated calendar.
type ICSEvent struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
}

// escapeICS applies RFC 5545 text escaping: backslash, semicolon, comma and
// newlines.
func escapeICS(v string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\r\n", `\n`,
		"\n", `\n`,
	)
	return r.Replace(v)
}

func icsLine(w io.Writer, line string) error {
	_, err := io.WriteString(w, line+"\r\n")
	return err
}

// WriteICS writes an iCalendar document with the given events. now is the
// DTSTAMP applied to every VEVENT so output is reproducible in tests.
func WriteICS(w io.Writer, calendarName string, events []ICSEvent, now time.Time) error {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + icsProdID,
		"CALSCALE:GREGORIAN",
	}
	if calendarName != "" {
		lines = append(lines, "X-WR-CALNAME:"+escapeICS(calendarName))
	}

	stamp := now.UTC().Format(icsTimeLayout)
	for _, ev := range events {
		lines = append(lines,
			"BEGIN:VEVENT",
			"UID:"+escapeICS(ev.UID),
			"DTSTAMP:"+stamp,
			"DTSTART:"+ev.Start.UTC().Format(icsTimeLayout),
			"DTEND:"+ev.End.UTC().Format(icsTimeLayout),
			"SUMMARY:"+escapeICS(ev.Summary),
		)
		if ev.Description != "" {
			lines = append(lines, "DESCRIPTION:"+escapeICS(ev.Description))
		}
		if ev.Location != "" {
			lines = append(lines, "LOCATION:"+escapeICS(ev.Location))
		}
		lines = append(lines, "END:VEVENT")
	}
	lines = append(lines, "END:VCALENDAR")

	for _, line := range lines {
		if err := icsLine(w, line); err != nil {
			return fmt.Errorf("write ICS line failed: %w", err)
		}
	}
	return nil
}
