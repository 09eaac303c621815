package request

import "github.com/sangkips/cafepos-api/internal/domain/enum"

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Name            string `json:"name" binding:"required,min=2,max=255"`
	Username        string `json:"username" binding:"omitempty,min=3,max=50,alphanum"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" binding:"required,eqfield=Password"`
}

// RefreshTokenRequest represents a token refresh request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateProfileRequest represents a profile update
type UpdateProfileRequest struct {
	Name     string `json:"name" binding:"omitempty,min=2,max=255"`
	Username string `json:"username" binding:"omitempty,min=3,max=50,alphanum"`
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=NewPassword"`
}

// CreateUserRequest is an account created by an administrator
type CreateUserRequest struct {
	Name     string    `json:"name" binding:"required,min=2,max=255"`
	Email    string    `json:"email" binding:"required,email"`
	Password string    `json:"password" binding:"required,min=8"`
	Role     enum.Role `json:"role" binding:"required,role"`
	Branch   string    `json:"branch" binding:"omitempty,max=100"`
}

// UpdateUserRequest changes an account's name, role or branch
type UpdateUserRequest struct {
	Name   string    `json:"name" binding:"omitempty,min=2,max=255"`
	Role   enum.Role `json:"role" binding:"omitempty,role"`
	Branch string    `json:"branch" binding:"omitempty,max=100"`
}
