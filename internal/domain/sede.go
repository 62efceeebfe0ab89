package domain

import (
	"context"
	"time"
)

// Sede represents a managed facility (site).
// swagger:model Sede
type Sede struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	Phone     string    `json:"phone"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSede returns a new Sede with the given fields. ID is typically set by
// the repository on create.
func NewSede(name, code, address, city, phone string, createdAt, updatedAt time.Time) *Sede {
	return &Sede{
		Name:      name,
		Code:      code,
		Address:   address,
		City:      city,
		Phone:     phone,
		Active:    true,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// SedeFilter narrows down sede list queries. Zero values mean "no filter".
type SedeFilter struct {
	Search string
	City   string
	Active *bool
}

// SedeUpdate carries the optional fields of a sede update. Nil means
// "leave unchanged".
type SedeUpdate struct {
	Name    *string
	Address *string
	City    *string
	Phone   *string
	Active  *bool
}

// SedeRepository defines the interface for sede storage.
type SedeRepository interface {
	Create(ctx context.Context, s *Sede) error
	GetByID(ctx context.Context, id string) (*Sede, error)
	GetByCode(ctx context.Context, code string) (*Sede, error)
	Update(ctx context.Context, id string, upd SedeUpdate) (*Sede, error)
	Delete(ctx context.Context, id string) error
	// List returns one page of sedes plus the total matching count.
	List(ctx context.Context, f SedeFilter, p PaginationParams) ([]*Sede, int, error)
	// UpsertByCode inserts the sede or updates the existing row with the
	// same code. Used by the directory import.
	UpsertByCode(ctx context.Context, s *Sede) error
}

// SedeImportSummary reports the outcome of one directory import run.
type SedeImportSummary struct {
	Pages    int `json:"pages"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// SedeImportService pulls facility records from the legacy directory and
// upserts them as sedes.
type SedeImportService interface {
	ImportAll(ctx context.Context) (*SedeImportSummary, error)
}

// SedeService defines the business logic for sede management.
type SedeService interface {
	Create(ctx context.Context, s *Sede) error
	GetByID(ctx context.Context, id string) (*Sede, error)
	Update(ctx context.Context, id string, upd SedeUpdate) (*Sede, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f SedeFilter, p PaginationParams) ([]*Sede, int, error)
}
