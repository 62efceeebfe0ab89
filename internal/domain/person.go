package domain

import (
	"context"
	"time"
)

// Person represents a member of the personnel assigned to a sede.
// swagger:model Person
type Person struct {
	ID        string    `json:"id"`
	SedeID    string    `json:"sede_id"`
	RoleID    string    `json:"role_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName returns first and last name joined.
func (p *Person) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// PersonFilter narrows down personnel list queries.
type PersonFilter struct {
	Search string
	SedeID string
	RoleID string
	Active *bool
}

// PersonUpdate carries optional person update fields; nil leaves a field
// unchanged.
type PersonUpdate struct {
	SedeID    *string
	RoleID    *string
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Active    *bool
}

// PersonRepository defines the interface for personnel storage.
type PersonRepository interface {
	Create(ctx context.Context, p *Person) error
	GetByID(ctx context.Context, id string) (*Person, error)
	Update(ctx context.Context, id string, upd PersonUpdate) (*Person, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f PersonFilter, p PaginationParams) ([]*Person, int, error)
}

// PersonService defines the business logic for personnel management.
type PersonService interface {
	Create(ctx context.Context, p *Person) error
	GetByID(ctx context.Context, id string) (*Person, error)
	Update(ctx context.Context, id string, upd PersonUpdate) (*Person, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f PersonFilter, p PaginationParams) ([]*Person, int, error)
}
