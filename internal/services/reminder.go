package services

import (
	"context"
	"log/slog"

	"sedesupport/internal/dates"
	"sedesupport/internal/domain"
)

// ReminderJob emails every technician their visits for the next day. It is
// scheduled by cron in the entrypoint and can also be invoked manually.
type ReminderJob struct {
	visits     domain.VisitService
	personRepo domain.PersonRepository
	email      domain.EmailService
	sedeRepo   domain.SedeRepository
	clock      dates.Clock
	logger     *slog.Logger
}

// NewReminderJob wires a ReminderJob.
func NewReminderJob(visits domain.VisitService,
	personRepo domain.PersonRepository,
	sedeRepo domain.SedeRepository,
	email domain.EmailService,
	clock dates.Clock,
	logger *slog.Logger,
) *ReminderJob {
	if clock == nil {
		clock = dates.Today
	}
	return &ReminderJob{
		visits:     visits,
		personRepo: personRepo,
		sedeRepo:   sedeRepo,
		email:      email,
		clock:      clock,
		logger:     logger,
	}
}

// Run sends reminders for tomorrow's visit occurrences. A failure on one
// occurrence is logged and does not stop the rest; the first error is
// returned so the scheduler can record the run as degraded.
func (j *ReminderJob) Run(ctx context.Context) error {
	tomorrow := j.clock().AddDays(1)
	occ, err := j.visits.OccurrencesOn(ctx, tomorrow)
	if err != nil {
		return err
	}
	j.logger.Info("sending visit reminders", "date", tomorrow.String(), "occurrences", len(occ))

	var firstErr error
	for _, o := range occ {
		if err := j.remind(ctx, o, tomorrow); err != nil {
			j.logger.Error("visit reminder failed",
				"visit_id", o.Visit.ID, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (j *ReminderJob) remind(ctx context.Context, o *domain.VisitOccurrence, d dates.CalendarDate) error {
	tech, err := j.personRepo.GetByID(ctx, o.Visit.TechnicianID)
	if err != nil {
		return err
	}
	if tech.Email == "" {
		j.logger.Warn("technician has no email, skipping reminder",
			"person_id", tech.ID, "visit_id", o.Visit.ID)
		return nil
	}
	sede, err := j.sedeRepo.GetByID(ctx, o.Visit.SedeID)
	if err != nil {
		return err
	}
	return j.email.SendVisitReminder(ctx, &domain.VisitReminderEmailData{
		Email:          tech.Email,
		TechnicianName: tech.FullName(),
		SedeName:       sede.Name,
		SedeAddress:    sede.Address,
		Date:           d.String(),
		Reference:      o.Visit.Reference,
		Notes:          o.Visit.Notes,
	})
}
