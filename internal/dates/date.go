package dates

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CalendarDate is a plain calendar date: a (year, month, day) triple with no
// time-of-day and no timezone. All comparisons are by calendar order, never by
// epoch arithmetic, so results are identical in every host timezone.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// New returns the CalendarDate for the given year, month, and day.
func New(year int, month time.Month, day int) CalendarDate {
	return CalendarDate{Year: year, Month: month, Day: day}
}

// FromTime extracts the calendar date from t using t's own location.
// The time-of-day is discarded.
func FromTime(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// String renders the canonical wire format "YYYY-MM-DD", zero-padded.
// It is built directly from the date fields; no UTC conversion is involved,
// so the string always matches the displayed calendar date.
func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Parse parses a canonical "YYYY-MM-DD" string into a CalendarDate.
// It rejects anything that is not exactly three numeric dash-separated fields
// naming a real calendar day. Malformed input is a caller bug, so the error
// is descriptive rather than silent.
func Parse(s string) (CalendarDate, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return CalendarDate{}, fmt.Errorf("invalid calendar date %q: want YYYY-MM-DD", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return CalendarDate{}, fmt.Errorf("invalid calendar date %q: non-numeric component %q", s, p)
		}
		nums[i] = v
	}
	year, month, day := nums[0], time.Month(nums[1]), nums[2]
	if month < time.January || month > time.December {
		return CalendarDate{}, fmt.Errorf("invalid calendar date %q: month out of range", s)
	}
	if day < 1 || day > DaysInMonth(year, month) {
		return CalendarDate{}, fmt.Errorf("invalid calendar date %q: day out of range", s)
	}
	return CalendarDate{Year: year, Month: month, Day: day}, nil
}

// MustParse is Parse for tests and literals; it panics on malformed input.
func MustParse(s string) CalendarDate {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// MarshalJSON encodes the date as its canonical string.
func (d CalendarDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a canonical "YYYY-MM-DD" JSON string.
func (d *CalendarDate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Time returns the date at local midnight. Useful when handing the date to
// APIs that want a time.Time; the calendar fields are preserved exactly.
func (d CalendarDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.Local)
}

// In returns the date at midnight in the given location.
func (d CalendarDate) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns the date offset by n days (n may be negative).
// Month and year boundaries roll over via time.Date normalization.
func (d CalendarDate) AddDays(n int) CalendarDate {
	t := time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC)
	return FromTime(t)
}

// IsZero reports whether d is the zero value.
func (d CalendarDate) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Equal reports whether d and o name the same calendar day.
func (d CalendarDate) Equal(o CalendarDate) bool {
	return d.Year == o.Year && d.Month == o.Month && d.Day == o.Day
}

// Before reports whether d is strictly earlier than o in calendar order.
func (d CalendarDate) Before(o CalendarDate) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// IsDisabled reports whether candidate falls strictly before min.
// Both operands are calendar dates, so the check is timezone- and
// DST-insensitive by construction.
func IsDisabled(candidate, min CalendarDate) bool {
	return candidate.Before(min)
}

// DaysInMonth returns the number of days in the given month, leap years
// included. Day 0 of the following month is the last day of this one.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday returns the weekday of the 1st of the month, Sunday = 0.
func FirstWeekday(year int, month time.Month) int {
	return int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// Clock supplies the current calendar date. Injected wherever "today" is
// needed so tests can pin it.
type Clock func() CalendarDate

// Today is the production Clock.
func Today() CalendarDate {
	return FromTime(time.Now())
}
