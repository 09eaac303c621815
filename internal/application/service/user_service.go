package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sangkips/cafepos-api/internal/domain/entity"
	"github.com/sangkips/cafepos-api/internal/domain/enum"
	"github.com/sangkips/cafepos-api/internal/domain/repository"
	"github.com/sangkips/cafepos-api/pkg/apperror"
	"github.com/sangkips/cafepos-api/pkg/pagination"
	"github.com/sangkips/cafepos-api/pkg/utils"
)

// UserService handles back-office account management
type UserService struct {
	userRepo      repository.UserRepository
	defaultBranch string
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, defaultBranch string) *UserService {
	return &UserService{userRepo: userRepo, defaultBranch: defaultBranch}
}

// ListUsers returns a paginated list of accounts
func (s *UserService) ListUsers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.User], error) {
	params.Validate()

	users, total, err := s.userRepo.List(ctx, params, search)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return pagination.NewPaginatedResult(users, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// GetUser returns a user by ID
func (s *UserService) GetUser(ctx context.Context, id uint) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// CreateUserInput represents an account created by an administrator
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     enum.Role
	Branch   string
}

// CreateUser creates an account with an explicit role
func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput) (*entity.User, error) {
	if !input.Role.IsValid() {
		return nil, apperror.NewFieldError("role", "Role must be one of admin, manager, cashier")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	branch := input.Branch
	if branch == "" {
		branch = s.defaultBranch
	}
	user := &entity.User{
		Name:     input.Name,
		Email:    email,
		Password: hashed,
		Role:     input.Role,
		Branch:   branch,
		Provider: "local",
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// UpdateUserInput changes an account's role, branch or name. Empty fields are left alone.
type UpdateUserInput struct {
	Name   string
	Role   enum.Role
	Branch string
}

// UpdateUser applies an administrator's changes to an account
func (s *UserService) UpdateUser(ctx context.Context, id uint, input *UpdateUserInput) (*entity.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Role != "" {
		if !input.Role.IsValid() {
			return nil, apperror.NewFieldError("role", "Role must be one of admin, manager, cashier")
		}
		user.Role = input.Role
	}
	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Branch != "" {
		user.Branch = input.Branch
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}
