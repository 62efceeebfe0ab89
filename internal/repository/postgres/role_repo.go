package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"sedesupport/internal/domain"
)

type roleRepository struct {
	DB *sql.DB
}

func NewRoleRepository(db *sql.DB) domain.RoleRepository {
	return &roleRepository{DB: db}
}

func scanRole(row interface{ Scan(...any) error }) (*domain.Role, error) {
	role := &domain.Role{}
	var parentNull sql.NullString
	err := row.Scan(&role.ID, &role.Name, &role.Description, &parentNull, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if parentNull.Valid {
		role.ParentID = &parentNull.String
	}
	return role, nil
}

func (r *roleRepository) Create(ctx context.Context, role *domain.Role) error {
	query := `
		INSERT INTO roles (name, description, parent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, role.Name, role.Description, role.ParentID, role.CreatedAt, role.UpdatedAt).Scan(&role.ID)
}

func (r *roleRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	query := `
		SELECT id, name, description, parent_id, created_at, updated_at
		FROM roles
		WHERE id = $1
	`
	return scanRole(r.DB.QueryRowContext(ctx, query, id))
}

func (r *roleRepository) Update(ctx context.Context, id string, upd domain.RoleUpdate) (*domain.Role, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	if upd.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", n))
		args = append(args, *upd.Name)
		n++
	}
	if upd.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", n))
		args = append(args, *upd.Description)
		n++
	}
	if upd.SetParent {
		// ParentID nil moves the role to the root.
		setClauses = append(setClauses, fmt.Sprintf("parent_id = $%d", n))
		args = append(args, upd.ParentID)
		n++
	}
	if n == 1 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE roles SET %s
		WHERE id = $%d
		RETURNING id, name, description, parent_id, created_at, updated_at
	`, strings.Join(setClauses, ", "), n)
	return scanRole(r.DB.QueryRowContext(ctx, query, args...))
}

func (r *roleRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM roles WHERE id = $1`
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

func (r *roleRepository) ListAll(ctx context.Context) ([]*domain.Role, error) {
	query := `
		SELECT id, name, description, parent_id, created_at, updated_at
		FROM roles
		ORDER BY name ASC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	roles := make([]*domain.Role, 0)
	for rows.Next() {
		role := &domain.Role{}
		var parentNull sql.NullString
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &parentNull, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		if parentNull.Valid {
			role.ParentID = &parentNull.String
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}
