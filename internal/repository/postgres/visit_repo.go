package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"sedesupport/internal/dates"
	"sedesupport/internal/domain"
)

type visitRepository struct {
	DB *sql.DB
}

func NewVisitRepository(db *sql.DB) domain.VisitRepository {
	return &visitRepository{DB: db}
}

const visitColumns = "id, reference, sede_id, technician_id, scheduled_date, status, notes, recurrence, created_at, updated_at"

func scanVisit(row interface{ Scan(...any) error }) (*domain.Visit, error) {
	v := &domain.Visit{}
	var scheduled time.Time
	var recurrenceNull sql.NullString
	err := row.Scan(&v.ID, &v.Reference, &v.SedeID, &v.TechnicianID, &scheduled, &v.Status, &v.Notes, &recurrenceNull, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	v.ScheduledDate = dates.FromTime(scheduled)
	if recurrenceNull.Valid {
		v.Recurrence = recurrenceNull.String
	}
	return v, nil
}

func (r *visitRepository) Create(ctx context.Context, v *domain.Visit) error {
	query := `
		INSERT INTO visits (reference, sede_id, technician_id, scheduled_date, status, notes, recurrence, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		v.Reference, v.SedeID, v.TechnicianID, v.ScheduledDate.String(), v.Status, v.Notes, nullableString(v.Recurrence), v.CreatedAt, v.UpdatedAt,
	).Scan(&v.ID)
}

func (r *visitRepository) GetByID(ctx context.Context, id string) (*domain.Visit, error) {
	query := `SELECT ` + visitColumns + ` FROM visits WHERE id = $1`
	return scanVisit(r.DB.QueryRowContext(ctx, query, id))
}

func (r *visitRepository) UpdateStatus(ctx context.Context, id string, status domain.VisitStatus) (*domain.Visit, error) {
	query := `
		UPDATE visits SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + visitColumns + `
	`
	return scanVisit(r.DB.QueryRowContext(ctx, query, status, id))
}

func (r *visitRepository) Reschedule(ctx context.Context, id string, d dates.CalendarDate) (*domain.Visit, error) {
	query := `
		UPDATE visits SET scheduled_date = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + visitColumns + `
	`
	return scanVisit(r.DB.QueryRowContext(ctx, query, d.String(), id))
}

func (r *visitRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM visits WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *visitRepository) List(ctx context.Context, f domain.VisitFilter, p domain.PaginationParams) ([]*domain.Visit, int, error) {
	whereClauses := []string{}
	args := []interface{}{}
	n := 1
	if f.SedeID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("sede_id = $%d", n))
		args = append(args, f.SedeID)
		n++
	}
	if f.TechnicianID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("technician_id = $%d", n))
		args = append(args, f.TechnicianID)
		n++
	}
	if f.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", n))
		args = append(args, f.Status)
		n++
	}
	if f.From != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("scheduled_date >= $%d", n))
		args = append(args, f.From.String())
		n++
	}
	if f.To != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("scheduled_date <= $%d", n))
		args = append(args, f.To.String())
		n++
	}
	where := ""
	if len(whereClauses) > 0 {
		where = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM visits` + where
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+visitColumns+` FROM visits%s ORDER BY scheduled_date ASC, created_at ASC LIMIT $%d OFFSET $%d`, where, n, n+1)
	args = append(args, p.Limit(), p.Offset())
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	visits, err := collectVisits(rows)
	if err != nil {
		return nil, 0, err
	}
	return visits, total, nil
}

func (r *visitRepository) ListByDateRange(ctx context.Context, from, to dates.CalendarDate) ([]*domain.Visit, error) {
	query := `
		SELECT ` + visitColumns + `
		FROM visits
		WHERE recurrence IS NULL
		  AND scheduled_date >= $1 AND scheduled_date <= $2
		ORDER BY scheduled_date ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectVisits(rows)
}

func (r *visitRepository) ListRecurring(ctx context.Context) ([]*domain.Visit, error) {
	query := `
		SELECT ` + visitColumns + `
		FROM visits
		WHERE recurrence IS NOT NULL
		ORDER BY scheduled_date ASC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectVisits(rows)
}

func collectVisits(rows *sql.Rows) ([]*domain.Visit, error) {
	visits := make([]*domain.Visit, 0)
	for rows.Next() {
		v := &domain.Visit{}
		var scheduled time.Time
		var recurrenceNull sql.NullString
		if err := rows.Scan(&v.ID, &v.Reference, &v.SedeID, &v.TechnicianID, &scheduled, &v.Status, &v.Notes, &recurrenceNull, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		v.ScheduledDate = dates.FromTime(scheduled)
		if recurrenceNull.Valid {
			v.Recurrence = recurrenceNull.String
		}
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
