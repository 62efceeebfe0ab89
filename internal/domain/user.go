package domain

import (
	"context"
	"time"
)

// Admin and staff are the two access levels of the dashboard. Admins may
// mutate; staff may only read.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User represents a dashboard account.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email, role string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID and
// role.
type TokenVerifier interface {
	Verify(token string) (userID, role string, err error)
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

// AuthService defines signup and login for dashboard accounts.
type AuthService interface {
	SignUp(ctx context.Context, email, password, name, role string) (*User, error)
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
}
