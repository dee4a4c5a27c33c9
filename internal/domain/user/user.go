package user

import (
	"context"
	"time"

	"jobboard/internal/common"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleJobSeeker Role = "job_seeker"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleJobSeeker
}

type User struct {
	ID           common.UUID `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Role         Role        `json:"role"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u User) IsJobSeeker() bool {
	return u.Role == RoleJobSeeker
}

// Summary is a user row as shown in the admin user list.
type Summary struct {
	User
	ApplicationsCount int `json:"applications_count"`
}

type Filter struct {
	Role   Role
	Search string
}

type Page struct {
	Limit  int
	Offset int
}

type Repository interface {
	Create(ctx context.Context, account User) (*User, error)
	GetByID(ctx context.Context, id common.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter Filter, page Page) ([]Summary, int, error)
	CountByRole(ctx context.Context, role Role) (int, error)
}
