package domain

import (
	"context"
	"time"
)

// Role represents an organizational role. Roles form a tree through ParentID;
// a nil ParentID marks a root role.
// swagger:model Role
type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ParentID    *string   `json:"parent_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RoleNode is a role with its resolved children, as rendered by the role
// tree view.
type RoleNode struct {
	Role     *Role       `json:"role"`
	Children []*RoleNode `json:"children"`
}

// RoleUpdate carries optional role update fields. SetParent distinguishes
// "move to root" (SetParent true, ParentID nil) from "leave parent alone".
type RoleUpdate struct {
	Name        *string
	Description *string
	ParentID    *string
	SetParent   bool
}

// RoleRepository defines the interface for role storage.
type RoleRepository interface {
	Create(ctx context.Context, r *Role) error
	GetByID(ctx context.Context, id string) (*Role, error)
	Update(ctx context.Context, id string, upd RoleUpdate) (*Role, error)
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]*Role, error)
}

// RoleService defines the business logic for role management, including the
// hierarchy rules: no role may become its own ancestor, and a role with
// children cannot be deleted.
type RoleService interface {
	Create(ctx context.Context, r *Role) error
	GetByID(ctx context.Context, id string) (*Role, error)
	Update(ctx context.Context, id string, upd RoleUpdate) (*Role, error)
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]*Role, error)
	// Tree returns the role forest. Roles whose parent chain is broken or
	// cyclic are attached at the root instead of being dropped or recursed
	// into twice.
	Tree(ctx context.Context) ([]*RoleNode, error)
	// AssignableParents lists the roles that may become roleID's parent:
	// everything except the role itself and its descendants.
	AssignableParents(ctx context.Context, roleID string) ([]*Role, error)
}
