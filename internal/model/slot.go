package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout and ClockLayout are the wire formats for booking_date and
// start_time/end_time.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// FieldError names the request field that could not be interpreted.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

// Slot is a requested or booked interval on one calendar day.  Start and
// End are absolute instants; the interval is half-open, [Start, End).
type Slot struct {
	Date  string
	Start time.Time
	End   time.Time
}

// NewSlot combines a calendar date with two wall-clock times in loc.  It
// does not check that start precedes end.
func NewSlot(date, start, end string, loc *time.Location) (Slot, error) {
	day, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), loc)
	if err != nil {
		return Slot{}, &FieldError{Field: "booking_date", Message: "must be YYYY-MM-DD"}
	}
	s, err := At(day, start)
	if err != nil {
		return Slot{}, &FieldError{Field: "start_time", Message: err.Error()}
	}
	e, err := At(day, end)
	if err != nil {
		return Slot{}, &FieldError{Field: "end_time", Message: err.Error()}
	}
	return Slot{Date: day.Format(DateLayout), Start: s, End: e}, nil
}

// At returns the instant of wall-clock time hhmm on day's calendar date in
// day's location.
func At(day time.Time, hhmm string) (time.Time, error) {
	h, m, err := ParseClock(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	y, mo, d := day.Date()
	return time.Date(y, mo, d, h, m, 0, 0, day.Location()), nil
}

// ParseClock parses "HH:MM" (24h, hour may be a single digit).
func ParseClock(hhmm string) (hour, minute int, err error) {
	t, perr := time.Parse(ClockLayout, strings.TrimSpace(hhmm))
	if perr != nil {
		return 0, 0, fmt.Errorf("must be HH:MM")
	}
	return t.Hour(), t.Minute(), nil
}

// Overlaps is the half-open intersection test: touching intervals
// (one's End equal to the other's Start) do not overlap.
func (s Slot) Overlaps(o Slot) bool {
	return s.Start.Before(o.End) && o.Start.Before(s.End)
}

// Valid reports whether Start strictly precedes End.
func (s Slot) Valid() bool { return s.Start.Before(s.End) }
