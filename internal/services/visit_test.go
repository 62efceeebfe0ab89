package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sedesupport/internal/dates"
	"sedesupport/internal/domain"
)

// Clock pinned to 2026-03-10; the earliest schedulable date is 2026-03-11.
func newVisitFixture() (*fakeVisitRepo, domain.VisitService) {
	visitRepo := newFakeVisitRepo()
	sedeRepo := newFakeSedeRepo()
	personRepo := newFakePersonRepo()
	sedeRepo.add(&domain.Sede{ID: "sede-1", Name: "Sede Norte", Code: "norte"})
	personRepo.add(&domain.Person{ID: "person-1", FirstName: "Ana", Email: "ana@example.com"})

	clock := func() dates.CalendarDate { return dates.New(2026, time.March, 10) }
	svc := NewVisitService(visitRepo, sedeRepo, personRepo, clock, testLogger(), time.Second)
	return visitRepo, svc
}

func TestVisitService_Schedule(t *testing.T) {
	t.Run("rejects today", func(t *testing.T) {
		_, svc := newVisitFixture()
		err := svc.Schedule(context.Background(), &domain.Visit{
			SedeID:        "sede-1",
			TechnicianID:  "person-1",
			ScheduledDate: dates.New(2026, time.March, 10),
		})
		assert.True(t, errors.Is(err, domain.ErrDateTooEarly))
	})

	t.Run("accepts tomorrow", func(t *testing.T) {
		repo, svc := newVisitFixture()
		v := &domain.Visit{
			SedeID:        "sede-1",
			TechnicianID:  "person-1",
			ScheduledDate: dates.New(2026, time.March, 11),
		}
		require.NoError(t, svc.Schedule(context.Background(), v))

		assert.Equal(t, domain.VisitScheduled, v.Status)
		assert.Regexp(t, `^VIS-[0-9A-F]{8}$`, v.Reference)
		assert.Len(t, repo.byID, 1)
	})

	t.Run("unknown sede", func(t *testing.T) {
		_, svc := newVisitFixture()
		err := svc.Schedule(context.Background(), &domain.Visit{
			SedeID:        "missing",
			TechnicianID:  "person-1",
			ScheduledDate: dates.New(2026, time.March, 11),
		})
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("unknown technician", func(t *testing.T) {
		_, svc := newVisitFixture()
		err := svc.Schedule(context.Background(), &domain.Visit{
			SedeID:        "sede-1",
			TechnicianID:  "missing",
			ScheduledDate: dates.New(2026, time.March, 11),
		})
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("rejects malformed recurrence rule", func(t *testing.T) {
		_, svc := newVisitFixture()
		err := svc.Schedule(context.Background(), &domain.Visit{
			SedeID:        "sede-1",
			TechnicianID:  "person-1",
			ScheduledDate: dates.New(2026, time.March, 11),
			Recurrence:    "FREQ=SOMETIMES",
		})
		require.Error(t, err)
	})
}

func TestVisitService_Transitions(t *testing.T) {
	t.Run("complete a scheduled visit", func(t *testing.T) {
		repo, svc := newVisitFixture()
		repo.add(&domain.Visit{ID: "visit-1", Status: domain.VisitScheduled})

		got, err := svc.Complete(context.Background(), "visit-1")
		require.NoError(t, err)
		assert.Equal(t, domain.VisitCompleted, got.Status)
	})

	t.Run("cancel a scheduled visit", func(t *testing.T) {
		repo, svc := newVisitFixture()
		repo.add(&domain.Visit{ID: "visit-1", Status: domain.VisitScheduled})

		got, err := svc.Cancel(context.Background(), "visit-1")
		require.NoError(t, err)
		assert.Equal(t, domain.VisitCancelled, got.Status)
	})

	t.Run("completed is terminal", func(t *testing.T) {
		repo, svc := newVisitFixture()
		repo.add(&domain.Visit{ID: "visit-1", Status: domain.VisitCompleted})

		_, err := svc.Cancel(context.Background(), "visit-1")
		assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		repo, svc := newVisitFixture()
		repo.add(&domain.Visit{ID: "visit-1", Status: domain.VisitCancelled})

		_, err := svc.Complete(context.Background(), "visit-1")
		assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
	})

	t.Run("unknown visit", func(t *testing.T) {
		_, svc := newVisitFixture()
		_, err := svc.Complete(context.Background(), "missing")
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestVisitService_Reschedule(t *testing.T) {
	t.Run("rejects a date before tomorrow", func(t *testing.T) {
		repo, svc := newVisitFixture()
		repo.add(&domain.Visit{ID: "visit-1", Status: domain.VisitScheduled})

		_, err := svc.Reschedule(context.Background(), "visit-1", dates.New(2026, time.March, 10))
		assert.True(t, errors.Is(err, domain.ErrDateTooEarly))
	})

	t.Run("rejects non-scheduled visits", func(t *testing.T) {
		repo, svc := newVisitFixture()
		repo.add(&domain.Visit{ID: "visit-1", Status: domain.VisitCompleted})

		_, err := svc.Reschedule(context.Background(), "visit-1", dates.New(2026, time.March, 20))
		assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
	})

	t.Run("moves the date", func(t *testing.T) {
		repo, svc := newVisitFixture()
		repo.add(&domain.Visit{ID: "visit-1", Status: domain.VisitScheduled,
			ScheduledDate: dates.New(2026, time.March, 12)})

		got, err := svc.Reschedule(context.Background(), "visit-1", dates.New(2026, time.March, 20))
		require.NoError(t, err)
		assert.True(t, got.ScheduledDate.Equal(dates.New(2026, time.March, 20)))
	})
}

func TestVisitService_Calendar(t *testing.T) {
	repo, svc := newVisitFixture()
	// March 2026 starts on a Sunday and has 31 days.
	repo.add(&domain.Visit{ID: "visit-1", Status: domain.VisitScheduled,
		ScheduledDate: dates.New(2026, time.March, 15)})
	repo.add(&domain.Visit{ID: "visit-2", Status: domain.VisitCancelled,
		ScheduledDate: dates.New(2026, time.March, 20)})
	repo.add(&domain.Visit{ID: "visit-3", Status: domain.VisitScheduled,
		ScheduledDate: dates.New(2026, time.March, 2),
		Recurrence:    "FREQ=WEEKLY;BYDAY=MO"})

	cal, err := svc.Calendar(context.Background(), 2026, time.March)
	require.NoError(t, err)

	assert.Equal(t, 2026, cal.Year)
	assert.Equal(t, 3, cal.Month)
	assert.Equal(t, 0, cal.LeadingBlanks)
	require.Len(t, cal.Days, 31)

	visitsOn := func(day int) []string {
		ids := make([]string, 0)
		for _, o := range cal.Days[day-1].Visits {
			ids = append(ids, o.Visit.ID)
		}
		return ids
	}

	// Weekly Monday recurrence anchored on March 2.
	for _, monday := range []int{2, 9, 16, 23, 30} {
		assert.Equal(t, []string{"visit-3"}, visitsOn(monday), "day %d", monday)
	}
	assert.Equal(t, []string{"visit-1"}, visitsOn(15))
	// Cancelled visits never appear.
	assert.Empty(t, visitsOn(20))
	assert.Empty(t, visitsOn(5))
}

func TestVisitService_OccurrencesOn(t *testing.T) {
	repo, svc := newVisitFixture()
	repo.add(&domain.Visit{ID: "visit-1", Status: domain.VisitScheduled,
		ScheduledDate: dates.New(2026, time.March, 2),
		Recurrence:    "FREQ=WEEKLY;BYDAY=MO"})

	occ, err := svc.OccurrencesOn(context.Background(), dates.New(2026, time.March, 16))
	require.NoError(t, err)
	require.Len(t, occ, 1)
	assert.Equal(t, "visit-1", occ[0].Visit.ID)
	assert.True(t, occ[0].Date.Equal(dates.New(2026, time.March, 16)))

	occ, err = svc.OccurrencesOn(context.Background(), dates.New(2026, time.March, 17))
	require.NoError(t, err)
	assert.Empty(t, occ)
}
