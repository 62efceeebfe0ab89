package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"sedesupport/internal/dates"
	"sedesupport/internal/domain"
)

// maxOccurrencesPerVisit caps recurrence expansion per visit per query, as a
// safety net against pathological rules.
const maxOccurrencesPerVisit = 100

type visitService struct {
	repo           domain.VisitRepository
	sedeRepo       domain.SedeRepository
	personRepo     domain.PersonRepository
	clock          dates.Clock
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewVisitService creates a VisitService. The clock supplies "today" for the
// minimum-date rule; tests pin it.
func NewVisitService(repo domain.VisitRepository,
	sedeRepo domain.SedeRepository,
	personRepo domain.PersonRepository,
	clock dates.Clock,
	logger *slog.Logger,
	timeout time.Duration,
) domain.VisitService {
	if clock == nil {
		clock = dates.Today
	}
	return &visitService{
		repo:           repo,
		sedeRepo:       sedeRepo,
		personRepo:     personRepo,
		clock:          clock,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *visitService) Schedule(ctx context.Context, v *domain.Visit) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	minDate := s.clock().AddDays(1)
	if dates.IsDisabled(v.ScheduledDate, minDate) {
		return fmt.Errorf("%w: %s is before %s", domain.ErrDateTooEarly, v.ScheduledDate, minDate)
	}
	if _, err := s.sedeRepo.GetByID(ctx, v.SedeID); err != nil {
		return fmt.Errorf("sede %q: %w", v.SedeID, err)
	}
	if _, err := s.personRepo.GetByID(ctx, v.TechnicianID); err != nil {
		return fmt.Errorf("technician %q: %w", v.TechnicianID, err)
	}
	if v.Recurrence != "" {
		if _, err := rrule.StrToRRule(v.Recurrence); err != nil {
			return fmt.Errorf("invalid recurrence rule %q: %w", v.Recurrence, err)
		}
	}

	now := time.Now()
	v.Reference = "VIS-" + strings.ToUpper(uuid.NewString()[:8])
	v.Status = domain.VisitScheduled
	v.CreatedAt = now
	v.UpdatedAt = now
	return s.repo.Create(ctx, v)
}

func (s *visitService) GetByID(ctx context.Context, id string) (*domain.Visit, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.repo.GetByID(ctx, id)
}

func (s *visitService) Complete(ctx context.Context, id string) (*domain.Visit, error) {
	return s.transition(ctx, id, domain.VisitCompleted)
}

func (s *visitService) Cancel(ctx context.Context, id string) (*domain.Visit, error) {
	return s.transition(ctx, id, domain.VisitCancelled)
}

// transition enforces the lifecycle: only a scheduled visit may move, and
// completed/cancelled are terminal.
func (s *visitService) transition(ctx context.Context, id string, to domain.VisitStatus) (*domain.Visit, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.Status != domain.VisitScheduled {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, v.Status, to)
	}
	return s.repo.UpdateStatus(ctx, id, to)
}

func (s *visitService) Reschedule(ctx context.Context, id string, d dates.CalendarDate) (*domain.Visit, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	minDate := s.clock().AddDays(1)
	if dates.IsDisabled(d, minDate) {
		return nil, fmt.Errorf("%w: %s is before %s", domain.ErrDateTooEarly, d, minDate)
	}
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.Status != domain.VisitScheduled {
		return nil, fmt.Errorf("%w: cannot reschedule a %s visit", domain.ErrInvalidTransition, v.Status)
	}
	return s.repo.Reschedule(ctx, id, d)
}

func (s *visitService) List(ctx context.Context, f domain.VisitFilter, p domain.PaginationParams) ([]*domain.Visit, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.repo.List(ctx, f, p)
}

func (s *visitService) Calendar(ctx context.Context, year int, month time.Month) (*domain.CalendarMonth, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	grid := dates.MonthGrid(dates.Cursor{Year: year, Month: month})
	from := dates.New(year, month, 1)
	to := dates.New(year, month, grid.Days)

	occ, err := s.occurrencesBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byDay := make(map[int][]*domain.VisitOccurrence)
	for _, o := range occ {
		byDay[o.Date.Day] = append(byDay[o.Date.Day], o)
	}

	cal := &domain.CalendarMonth{
		Year:          year,
		Month:         int(month),
		LeadingBlanks: grid.LeadingBlanks,
		Days:          make([]domain.CalendarDay, 0, grid.Days),
	}
	for day := 1; day <= grid.Days; day++ {
		visits := byDay[day]
		if visits == nil {
			visits = []*domain.VisitOccurrence{}
		}
		cal.Days = append(cal.Days, domain.CalendarDay{Day: day, Visits: visits})
	}
	return cal, nil
}

func (s *visitService) OccurrencesOn(ctx context.Context, d dates.CalendarDate) ([]*domain.VisitOccurrence, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.occurrencesBetween(ctx, d, d)
}

// occurrencesBetween merges one-off visits in the range with recurring
// visits expanded into it. Cancelled visits never produce occurrences.
func (s *visitService) occurrencesBetween(ctx context.Context, from, to dates.CalendarDate) ([]*domain.VisitOccurrence, error) {
	oneOff, err := s.repo.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	recurring, err := s.repo.ListRecurring(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.VisitOccurrence, 0, len(oneOff))
	for _, v := range oneOff {
		if v.Status == domain.VisitCancelled {
			continue
		}
		out = append(out, &domain.VisitOccurrence{Visit: v, Date: v.ScheduledDate})
	}
	for _, v := range recurring {
		if v.Status == domain.VisitCancelled {
			continue
		}
		out = append(out, s.expand(v, from, to)...)
	}
	return out, nil
}

// expand applies the visit's RRULE within [from, to]. The rule anchors at
// the scheduled date; expansion works in UTC midnights so the resulting
// calendar days are host-timezone independent.
func (s *visitService) expand(v *domain.Visit, from, to dates.CalendarDate) []*domain.VisitOccurrence {
	r, err := rrule.StrToRRule(v.Recurrence)
	if err != nil {
		s.logger.Error("skipping visit with unparseable recurrence rule",
			"visit_id", v.ID, "rrule", v.Recurrence, "error", err)
		return nil
	}
	r.DTStart(v.ScheduledDate.In(time.UTC))

	times := r.Between(from.In(time.UTC), to.In(time.UTC), true)
	if len(times) > maxOccurrencesPerVisit {
		s.logger.Warn("truncating recurrence expansion",
			"visit_id", v.ID, "cap", maxOccurrencesPerVisit)
		times = times[:maxOccurrencesPerVisit]
	}

	out := make([]*domain.VisitOccurrence, 0, len(times))
	for _, t := range times {
		out = append(out, &domain.VisitOccurrence{Visit: v, Date: dates.FromTime(t)})
	}
	return out
}
