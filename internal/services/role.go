package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sedesupport/internal/domain"
)

type roleService struct {
	repo           domain.RoleRepository
	contextTimeout time.Duration
}

// NewRoleService creates a RoleService backed by the given repository.
func NewRoleService(repo domain.RoleRepository, timeout time.Duration) domain.RoleService {
	return &roleService{repo: repo, contextTimeout: timeout}
}

func (s *roleService) Create(ctx context.Context, r *domain.Role) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return fmt.Errorf("role name is required")
	}
	if r.ParentID != nil {
		if _, err := s.repo.GetByID(ctx, *r.ParentID); err != nil {
			return fmt.Errorf("parent role %q: %w", *r.ParentID, err)
		}
	}

	now := time.Now()
	r.CreatedAt = now
	r.UpdatedAt = now
	return s.repo.Create(ctx, r)
}

func (s *roleService) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.repo.GetByID(ctx, id)
}

func (s *roleService) Update(ctx context.Context, id string, upd domain.RoleUpdate) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if upd.SetParent && upd.ParentID != nil {
		if *upd.ParentID == id {
			return nil, domain.ErrRoleCycle
		}
		roles, err := s.repo.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		if isDescendant(roles, id, *upd.ParentID) {
			return nil, domain.ErrRoleCycle
		}
	}
	return s.repo.Update(ctx, id, upd)
}

func (s *roleService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	roles, err := s.repo.ListAll(ctx)
	if err != nil {
		return err
	}
	for _, r := range roles {
		if r.ParentID != nil && *r.ParentID == id {
			return domain.ErrRoleHasChildren
		}
	}
	return s.repo.Delete(ctx, id)
}

func (s *roleService) ListAll(ctx context.Context) ([]*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.repo.ListAll(ctx)
}

func (s *roleService) Tree(ctx context.Context) ([]*domain.RoleNode, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	roles, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return buildRoleTree(roles), nil
}

func (s *roleService) AssignableParents(ctx context.Context, roleID string) ([]*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	roles, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Role, 0, len(roles))
	for _, r := range roles {
		if r.ID == roleID {
			continue
		}
		if isDescendant(roles, roleID, r.ID) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// buildRoleTree assembles the role forest. A role pointing at a missing
// parent, or sitting on a parent cycle, is attached at the root so every
// role appears exactly once and rendering never recurses forever.
func buildRoleTree(roles []*domain.Role) []*domain.RoleNode {
	nodes := make(map[string]*domain.RoleNode, len(roles))
	for _, r := range roles {
		nodes[r.ID] = &domain.RoleNode{Role: r, Children: []*domain.RoleNode{}}
	}

	var root []*domain.RoleNode
	for _, r := range roles {
		node := nodes[r.ID]
		if r.ParentID == nil {
			root = append(root, node)
			continue
		}
		parent, ok := nodes[*r.ParentID]
		if !ok || onCycle(roles, r.ID) {
			root = append(root, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	return root
}

// onCycle reports whether walking up from id revisits id.
func onCycle(roles []*domain.Role, id string) bool {
	parents := make(map[string]string, len(roles))
	for _, r := range roles {
		if r.ParentID != nil {
			parents[r.ID] = *r.ParentID
		}
	}
	cur := id
	for i := 0; i <= len(roles); i++ {
		next, ok := parents[cur]
		if !ok {
			return false
		}
		if next == id {
			return true
		}
		cur = next
	}
	// Walked more steps than roles exist: a cycle above id.
	return true
}

// isDescendant reports whether candidate is in the subtree rooted at rootID,
// following parent pointers upward from candidate. Bounded by the role count
// so parent cycles cannot loop forever.
func isDescendant(roles []*domain.Role, rootID, candidate string) bool {
	parents := make(map[string]string, len(roles))
	for _, r := range roles {
		if r.ParentID != nil {
			parents[r.ID] = *r.ParentID
		}
	}
	cur := candidate
	for i := 0; i <= len(roles); i++ {
		next, ok := parents[cur]
		if !ok {
			return false
		}
		if next == rootID {
			return true
		}
		cur = next
	}
	return false
}
