package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"sedesupport/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type personService struct {
	repo           domain.PersonRepository
	sedeRepo       domain.SedeRepository
	roleRepo       domain.RoleRepository
	contextTimeout time.Duration
}

// NewPersonService creates a PersonService. Sede and role repositories are
// used to validate references on create and update.
func NewPersonService(repo domain.PersonRepository, sedeRepo domain.SedeRepository, roleRepo domain.RoleRepository, timeout time.Duration) domain.PersonService {
	return &personService{
		repo:           repo,
		sedeRepo:       sedeRepo,
		roleRepo:       roleRepo,
		contextTimeout: timeout,
	}
}

func (s *personService) Create(ctx context.Context, p *domain.Person) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	if p.FirstName == "" {
		return fmt.Errorf("first name is required")
	}
	if p.Email != "" && !emailRegexp.MatchString(p.Email) {
		return fmt.Errorf("invalid email format")
	}

	if _, err := s.sedeRepo.GetByID(ctx, p.SedeID); err != nil {
		return fmt.Errorf("sede %q: %w", p.SedeID, err)
	}
	if _, err := s.roleRepo.GetByID(ctx, p.RoleID); err != nil {
		return fmt.Errorf("role %q: %w", p.RoleID, err)
	}

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Active = true
	return s.repo.Create(ctx, p)
}

func (s *personService) GetByID(ctx context.Context, id string) (*domain.Person, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.repo.GetByID(ctx, id)
}

func (s *personService) Update(ctx context.Context, id string, upd domain.PersonUpdate) (*domain.Person, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if upd.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*upd.Email))
		if email != "" && !emailRegexp.MatchString(email) {
			return nil, fmt.Errorf("invalid email format")
		}
		upd.Email = &email
	}
	if upd.SedeID != nil {
		if _, err := s.sedeRepo.GetByID(ctx, *upd.SedeID); err != nil {
			return nil, fmt.Errorf("sede %q: %w", *upd.SedeID, err)
		}
	}
	if upd.RoleID != nil {
		if _, err := s.roleRepo.GetByID(ctx, *upd.RoleID); err != nil {
			return nil, fmt.Errorf("role %q: %w", *upd.RoleID, err)
		}
	}
	return s.repo.Update(ctx, id, upd)
}

func (s *personService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.repo.Delete(ctx, id)
}

func (s *personService) List(ctx context.Context, f domain.PersonFilter, p domain.PaginationParams) ([]*domain.Person, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	f.Search = strings.TrimSpace(f.Search)
	return s.repo.List(ctx, f, p)
}
