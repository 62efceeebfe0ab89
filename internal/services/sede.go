package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sedesupport/internal/domain"
)

type sedeService struct {
	repo           domain.SedeRepository
	contextTimeout time.Duration
}

// NewSedeService creates a SedeService backed by the given repository.
func NewSedeService(repo domain.SedeRepository, timeout time.Duration) domain.SedeService {
	return &sedeService{repo: repo, contextTimeout: timeout}
}

func (s *sedeService) Create(ctx context.Context, sede *domain.Sede) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	sede.Name = strings.TrimSpace(sede.Name)
	sede.Code = strings.ToLower(strings.TrimSpace(sede.Code))
	if sede.Name == "" {
		return fmt.Errorf("sede name is required")
	}
	if sede.Code == "" {
		return fmt.Errorf("sede code is required")
	}

	if _, err := s.repo.GetByCode(ctx, sede.Code); err == nil {
		return domain.ErrDuplicateCode
	}

	now := time.Now()
	sede.CreatedAt = now
	sede.UpdatedAt = now
	sede.Active = true
	return s.repo.Create(ctx, sede)
}

func (s *sedeService) GetByID(ctx context.Context, id string) (*domain.Sede, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.repo.GetByID(ctx, id)
}

func (s *sedeService) Update(ctx context.Context, id string, upd domain.SedeUpdate) (*domain.Sede, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, fmt.Errorf("sede name cannot be empty")
	}
	return s.repo.Update(ctx, id, upd)
}

func (s *sedeService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.repo.Delete(ctx, id)
}

func (s *sedeService) List(ctx context.Context, f domain.SedeFilter, p domain.PaginationParams) ([]*domain.Sede, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	f.Search = strings.TrimSpace(f.Search)
	f.City = strings.TrimSpace(f.City)
	return s.repo.List(ctx, f, p)
}
