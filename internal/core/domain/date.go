package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used on the wire.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time component.
// The zero value is not a valid date; absent dates are represented by a nil *Date.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses an ISO date. A trailing time component ("2024-03-10T00:00:00Z")
// is ignored so the calendar day the backend stored is preserved.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// MustParseDate is ParseDate for constants and tests.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// StartOfDay returns midnight UTC of the date.
func (d Date) StartOfDay() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the last representable instant of the date (23:59:59.999999999 UTC).
func (d Date) EndOfDay() time.Time {
	return d.StartOfDay().Add(24*time.Hour - time.Nanosecond)
}

// Equal reports whether both dates are the same calendar day.
func (d Date) Equal(o Date) bool {
	return d.Year == o.Year && d.Month == o.Month && d.Day == o.Day
}

func (d Date) String() string {
	return d.StartOfDay().Format(DateLayout)
}

// Ptr returns a pointer to a copy of d.
func (d Date) Ptr() *Date {
	return &d
}

// DatesEqual compares two optional dates; two nil dates are equal.
func DatesEqual(a, b *Date) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
