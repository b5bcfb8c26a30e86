package engine

import (
	"fmt"
	"time"
)

// Date is an opaque local calendar day in "YYYY-MM-DD" form. All day
// arithmetic goes through the local calendar, never UTC instants, so that
// "today" matches what the user's wall clock says.
type Date string

const dateLayout = "2006-01-02"

// DateOf truncates a time to its local calendar day.
func DateOf(t time.Time) Date {
	return Date(t.Local().Format(dateLayout))
}

// ParseDate validates a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) IsZero() bool { return d == "" }

func (d Date) String() string { return string(d) }

// Prev returns the previous calendar day, crossing month and year
// boundaries. Malformed dates map to the zero Date.
func (d Date) Prev() Date {
	t, ok := d.day()
	if !ok {
		return ""
	}
	return DateOf(t.AddDate(0, 0, -1))
}

// Next returns the following calendar day.
func (d Date) Next() Date {
	t, ok := d.day()
	if !ok {
		return ""
	}
	return DateOf(t.AddDate(0, 0, 1))
}

func (d Date) day() (time.Time, bool) {
	t, err := time.ParseInLocation(dateLayout, string(d), time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Clock supplies "today" so streak queries stay testable. The live session
// uses the system clock; calendar-replay tests pin a fixed day.
type Clock interface {
	Today() Date
}

type systemClock struct{}

func (systemClock) Today() Date { return DateOf(time.Now()) }

// SystemClock returns the wall-clock backed Clock.
func SystemClock() Clock { return systemClock{} }

// FixedClock returns a Clock frozen at the given day.
func FixedClock(d Date) Clock { return fixedClock(d) }

type fixedClock Date

func (c fixedClock) Today() Date { return Date(c) }
