package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"sedesupport/internal/domain"
)

type personRepository struct {
	DB *sql.DB
}

func NewPersonRepository(db *sql.DB) domain.PersonRepository {
	return &personRepository{DB: db}
}

const personColumns = "id, sede_id, role_id, first_name, last_name, email, phone, active, created_at, updated_at"

func scanPerson(row interface{ Scan(...any) error }) (*domain.Person, error) {
	p := &domain.Person{}
	err := row.Scan(&p.ID, &p.SedeID, &p.RoleID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *personRepository) Create(ctx context.Context, p *domain.Person) error {
	query := `
		INSERT INTO personnel (sede_id, role_id, first_name, last_name, email, phone, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, p.SedeID, p.RoleID, p.FirstName, p.LastName, p.Email, p.Phone, p.Active, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
}

func (r *personRepository) GetByID(ctx context.Context, id string) (*domain.Person, error) {
	query := `SELECT ` + personColumns + ` FROM personnel WHERE id = $1`
	return scanPerson(r.DB.QueryRowContext(ctx, query, id))
}

func (r *personRepository) Update(ctx context.Context, id string, upd domain.PersonUpdate) (*domain.Person, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	add := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}
	if upd.SedeID != nil {
		add("sede_id", *upd.SedeID)
	}
	if upd.RoleID != nil {
		add("role_id", *upd.RoleID)
	}
	if upd.FirstName != nil {
		add("first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		add("last_name", *upd.LastName)
	}
	if upd.Email != nil {
		add("email", *upd.Email)
	}
	if upd.Phone != nil {
		add("phone", *upd.Phone)
	}
	if upd.Active != nil {
		add("active", *upd.Active)
	}
	if n == 1 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE personnel SET %s
		WHERE id = $%d
		RETURNING `+personColumns+`
	`, strings.Join(setClauses, ", "), n)
	return scanPerson(r.DB.QueryRowContext(ctx, query, args...))
}

func (r *personRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM personnel WHERE id = $1`
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

func (r *personRepository) List(ctx context.Context, f domain.PersonFilter, p domain.PaginationParams) ([]*domain.Person, int, error) {
	whereClauses := []string{}
	args := []interface{}{}
	n := 1
	if f.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", n, n, n))
		args = append(args, "%"+f.Search+"%")
		n++
	}
	if f.SedeID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("sede_id = $%d", n))
		args = append(args, f.SedeID)
		n++
	}
	if f.RoleID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("role_id = $%d", n))
		args = append(args, f.RoleID)
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
	countQuery := `SELECT COUNT(*) FROM personnel` + where
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+personColumns+` FROM personnel%s ORDER BY last_name ASC, first_name ASC LIMIT $%d OFFSET $%d`, where, n, n+1)
	args = append(args, p.Limit(), p.Offset())
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	people := make([]*domain.Person, 0)
	for rows.Next() {
		person := &domain.Person{}
		if err := rows.Scan(&person.ID, &person.SedeID, &person.RoleID, &person.FirstName, &person.LastName, &person.Email, &person.Phone, &person.Active, &person.CreatedAt, &person.UpdatedAt); err != nil {
			return nil, 0, err
		}
		people = append(people, person)
	}
	return people, total, rows.Err()
}
