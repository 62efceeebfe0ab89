package dates

import "time"

// Cursor is the month currently displayed by a calendar view, normalized to
// the first of the month.
type Cursor struct {
	Year  int
	Month time.Month
}

// CursorFor returns the cursor displaying the month that contains d.
func CursorFor(d CalendarDate) Cursor {
	return Cursor{Year: d.Year, Month: d.Month}
}

// Navigate returns the cursor shifted by delta months. The year absorbs any
// month overflow or underflow, for arbitrary delta.
func (c Cursor) Navigate(delta int) Cursor {
	t := time.Date(c.Year, c.Month+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	return Cursor{Year: t.Year(), Month: t.Month()}
}

// Contains reports whether d falls in the displayed month.
func (c Cursor) Contains(d CalendarDate) bool {
	return d.Year == c.Year && d.Month == c.Month
}

// Date returns the calendar date of the given day within the displayed month.
func (c Cursor) Date(day int) CalendarDate {
	return CalendarDate{Year: c.Year, Month: c.Month, Day: day}
}

// Grid describes the geometry of one displayed month: how many blank cells
// precede day 1 in a Sunday-first week row, and how many days the month has.
type Grid struct {
	Year          int
	Month         time.Month
	LeadingBlanks int
	Days          int
}

// MonthGrid computes the grid geometry for the cursor's month.
func MonthGrid(c Cursor) Grid {
	return Grid{
		Year:          c.Year,
		Month:         c.Month,
		LeadingBlanks: FirstWeekday(c.Year, c.Month),
		Days:          DaysInMonth(c.Year, c.Month),
	}
}

// Cells returns the flattened cell sequence: one 0 per leading blank, then
// the day numbers 1..Days.
func (g Grid) Cells() []int {
	cells := make([]int, 0, g.LeadingBlanks+g.Days)
	for i := 0; i < g.LeadingBlanks; i++ {
		cells = append(cells, 0)
	}
	for d := 1; d <= g.Days; d++ {
		cells = append(cells, d)
	}
	return cells
}
