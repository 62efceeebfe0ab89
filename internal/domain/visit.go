package domain

import (
	"context"
	"time"

	"sedesupport/internal/dates"
)

// VisitStatus is the lifecycle state of a scheduled support visit.
type VisitStatus string

// Visit lifecycle states. A visit starts as scheduled and may move to
// completed or cancelled; both are terminal.
const (
	VisitScheduled VisitStatus = "scheduled"
	VisitCompleted VisitStatus = "completed"
	VisitCancelled VisitStatus = "cancelled"
)

// Visit represents a scheduled technical support visit to a sede.
// ScheduledDate is a plain calendar date; the wire format is YYYY-MM-DD.
// swagger:model Visit
type Visit struct {
	ID            string             `json:"id"`
	Reference     string             `json:"reference"`
	SedeID        string             `json:"sede_id"`
	TechnicianID  string             `json:"technician_id"`
	ScheduledDate dates.CalendarDate `json:"scheduled_date"`
	Status        VisitStatus        `json:"status"`
	Notes         string             `json:"notes"`
	// Recurrence is an optional RRULE string (e.g. "FREQ=WEEKLY;BYDAY=MO").
	// Empty means a one-off visit.
	Recurrence string    `json:"recurrence,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// VisitFilter narrows down visit list queries.
type VisitFilter struct {
	SedeID       string
	TechnicianID string
	Status       VisitStatus
	From         *dates.CalendarDate
	To           *dates.CalendarDate
}

// VisitOccurrence is one concrete day a visit happens on, after recurrence
// expansion. For one-off visits Date equals the scheduled date.
type VisitOccurrence struct {
	Visit *Visit             `json:"visit"`
	Date  dates.CalendarDate `json:"date"`
}

// CalendarDay is one day cell of the month calendar, with the visits
// occurring on it.
type CalendarDay struct {
	Day    int                `json:"day"`
	Visits []*VisitOccurrence `json:"visits"`
}

// CalendarMonth is the month view of scheduled visits: grid geometry plus
// one entry per day.
type CalendarMonth struct {
	Year          int           `json:"year"`
	Month         int           `json:"month"`
	LeadingBlanks int           `json:"leading_blanks"`
	Days          []CalendarDay `json:"days"`
}

// VisitRepository defines the interface for visit storage.
type VisitRepository interface {
	Create(ctx context.Context, v *Visit) error
	GetByID(ctx context.Context, id string) (*Visit, error)
	UpdateStatus(ctx context.Context, id string, status VisitStatus) (*Visit, error)
	Reschedule(ctx context.Context, id string, d dates.CalendarDate) (*Visit, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f VisitFilter, p PaginationParams) ([]*Visit, int, error)
	// ListByDateRange returns one-off visits scheduled in [from, to].
	ListByDateRange(ctx context.Context, from, to dates.CalendarDate) ([]*Visit, error)
	// ListRecurring returns all visits carrying a recurrence rule.
	ListRecurring(ctx context.Context) ([]*Visit, error)
}

// VisitService defines the business logic for visit scheduling.
type VisitService interface {
	// Schedule validates that the date is at least tomorrow and creates the
	// visit with a fresh reference code.
	Schedule(ctx context.Context, v *Visit) error
	GetByID(ctx context.Context, id string) (*Visit, error)
	Complete(ctx context.Context, id string) (*Visit, error)
	Cancel(ctx context.Context, id string) (*Visit, error)
	Reschedule(ctx context.Context, id string, d dates.CalendarDate) (*Visit, error)
	List(ctx context.Context, f VisitFilter, p PaginationParams) ([]*Visit, int, error)
	// Calendar expands one-off and recurring visits into the displayed month.
	Calendar(ctx context.Context, year int, month time.Month) (*CalendarMonth, error)
	// OccurrencesOn returns the visit occurrences for a single day,
	// recurring visits included. Used by the reminder job.
	OccurrencesOn(ctx context.Context, d dates.CalendarDate) ([]*VisitOccurrence, error)
}
