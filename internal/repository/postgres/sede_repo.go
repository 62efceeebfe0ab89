package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"sedesupport/internal/domain"
)

type sedeRepository struct {
	DB *sql.DB
}

func NewSedeRepository(db *sql.DB) domain.SedeRepository {
	return &sedeRepository{DB: db}
}

const sedeColumns = "id, name, code, address, city, phone, active, created_at, updated_at"

func scanSede(row interface{ Scan(...any) error }) (*domain.Sede, error) {
	s := &domain.Sede{}
	err := row.Scan(&s.ID, &s.Name, &s.Code, &s.Address, &s.City, &s.Phone, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *sedeRepository) Create(ctx context.Context, s *domain.Sede) error {
	query := `
		INSERT INTO sedes (name, code, address, city, phone, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, s.Name, s.Code, s.Address, s.City, s.Phone, s.Active, s.CreatedAt, s.UpdatedAt).Scan(&s.ID)
}

func (r *sedeRepository) GetByID(ctx context.Context, id string) (*domain.Sede, error) {
	query := `SELECT ` + sedeColumns + ` FROM sedes WHERE id = $1`
	return scanSede(r.DB.QueryRowContext(ctx, query, id))
}

func (r *sedeRepository) GetByCode(ctx context.Context, code string) (*domain.Sede, error) {
	query := `SELECT ` + sedeColumns + ` FROM sedes WHERE code = $1`
	return scanSede(r.DB.QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(code))))
}

func (r *sedeRepository) Update(ctx context.Context, id string, upd domain.SedeUpdate) (*domain.Sede, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	if upd.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", n))
		args = append(args, *upd.Name)
		n++
	}
	if upd.Address != nil {
		setClauses = append(setClauses, fmt.Sprintf("address = $%d", n))
		args = append(args, *upd.Address)
		n++
	}
	if upd.City != nil {
		setClauses = append(setClauses, fmt.Sprintf("city = $%d", n))
		args = append(args, *upd.City)
		n++
	}
	if upd.Phone != nil {
		setClauses = append(setClauses, fmt.Sprintf("phone = $%d", n))
		args = append(args, *upd.Phone)
		n++
	}
	if upd.Active != nil {
		setClauses = append(setClauses, fmt.Sprintf("active = $%d", n))
		args = append(args, *upd.Active)
		n++
	}
	if n == 1 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE sedes SET %s
		WHERE id = $%d
		RETURNING `+sedeColumns+`
	`, strings.Join(setClauses, ", "), n)
	return scanSede(r.DB.QueryRowContext(ctx, query, args...))
}

func (r *sedeRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM sedes WHERE id = $1`
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

func (r *sedeRepository) List(ctx context.Context, f domain.SedeFilter, p domain.PaginationParams) ([]*domain.Sede, int, error) {
	whereClauses := []string{}
	args := []interface{}{}
	n := 1
	if f.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("(name ILIKE $%d OR code ILIKE $%d)", n, n))
		args = append(args, "%"+f.Search+"%")
		n++
	}
	if f.City != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("city = $%d", n))
		args = append(args, f.City)
		n++
	}
	if f.Active != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("active = $%d", n))
		args = append(args, *f.Active)
		n++
	}
	where := ""
	if len(whereClauses) > 0 {
		where = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM sedes` + where
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+sedeColumns+` FROM sedes%s ORDER BY name ASC LIMIT $%d OFFSET $%d`, where, n, n+1)
	args = append(args, p.Limit(), p.Offset())
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	sedes := make([]*domain.Sede, 0)
	for rows.Next() {
		s := &domain.Sede{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Code, &s.Address, &s.City, &s.Phone, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		sedes = append(sedes, s)
	}
	return sedes, total, rows.Err()
}

func (r *sedeRepository) UpsertByCode(ctx context.Context, s *domain.Sede) error {
	query := `
		INSERT INTO sedes (name, code, address, city, phone, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			phone = EXCLUDED.phone,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, s.Name, s.Code, s.Address, s.City, s.Phone, s.Active, s.CreatedAt, s.UpdatedAt).Scan(&s.ID)
}
