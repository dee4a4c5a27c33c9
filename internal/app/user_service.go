package app

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"jobboard/internal/common"
	"jobboard/internal/domain/user"
)

const defaultUserPageSize = 15

type UserService struct {
	users  user.Repository
	logger Logger
}

func NewUserService(users user.Repository, logger Logger) *UserService {
	return &UserService{users: users, logger: loggerOrNop(logger)}
}

// Get resolves an identity. It backs the auth middleware's current user lookup.
func (s *UserService) Get(ctx context.Context, id common.UUID) (*user.User, error) {
	return s.users.GetByID(ctx, id)
}

type CreateUserInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=admin job_seeker"`
}

func (s *UserService) Create(ctx context.Context, actor user.User, input CreateUserInput) (*user.User, error) {
	if !actor.IsAdmin() {
		return nil, errAdminOnly()
	}
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Role = strings.ToLower(strings.TrimSpace(input.Role))
	if err := validateInput(input, "invalid user", nil); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, common.NewFieldError(common.CodeConflict, "email", "The email has already been taken.")
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to hash password", err)
	}
	created, err := s.users.Create(ctx, user.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         user.Role(input.Role),
	})
	if err != nil {
		if common.Is(err, common.CodeConstraintViolation) {
			return nil, common.NewFieldError(common.CodeConflict, "email", "The email has already been taken.")
		}
		return nil, err
	}
	s.logger.Info("user created", "user_id", created.ID.String(), "role", string(created.Role), "admin_id", actor.ID.String())
	return created, nil
}

func (s *UserService) List(ctx context.Context, actor user.User, filter user.Filter, limit, offset int) (Page[user.Summary], error) {
	if !actor.IsAdmin() {
		return Page[user.Summary]{}, errAdminOnly()
	}
	filter.Role = user.Role(strings.ToLower(strings.TrimSpace(string(filter.Role))))
	if filter.Role != "" && !filter.Role.Valid() {
		return Page[user.Summary]{}, common.NewValidationError("invalid role", map[string]string{"role": "role must be admin or job_seeker"})
	}
	filter.Search = strings.TrimSpace(filter.Search)
	limit, offset = clampPage(limit, offset, defaultUserPageSize)
	items, total, err := s.users.List(ctx, filter, user.Page{Limit: limit, Offset: offset})
	if err != nil {
		return Page[user.Summary]{}, err
	}
	return newPage(items, total, limit, offset), nil
}

// EnsureAdmin creates the bootstrap admin account unless the email is
// already registered. The existing account is returned as is.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) (*user.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		name = "Administrator"
	}
	system := user.User{Role: user.RoleAdmin}
	return s.Create(ctx, system, CreateUserInput{Name: name, Email: email, Password: password, Role: string(user.RoleAdmin)})
}
