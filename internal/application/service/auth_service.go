package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sangkips/cafepos-api/internal/domain/entity"
	"github.com/sangkips/cafepos-api/internal/domain/enum"
	"github.com/sangkips/cafepos-api/internal/domain/pos"
	"github.com/sangkips/cafepos-api/internal/domain/repository"
	"github.com/sangkips/cafepos-api/internal/logger"
	"github.com/sangkips/cafepos-api/pkg/apperror"
	"github.com/sangkips/cafepos-api/pkg/oauth"
	"github.com/sangkips/cafepos-api/pkg/utils"
)

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo      repository.UserRepository
	jwtManager    *utils.JWTManager
	terminals     *pos.Registry
	google        *oauth.GoogleOAuthService
	defaultBranch string
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	jwtManager *utils.JWTManager,
	terminals *pos.Registry,
	google *oauth.GoogleOAuthService,
	defaultBranch string,
) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtManager:    jwtManager,
		terminals:     terminals,
		google:        google,
		defaultBranch: defaultBranch,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	if user == nil || user.Password == "" {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

// RegisterInput represents the registration input
type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
	Branch   string
}

// Register creates a new cashier account
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	existingUser, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	if existingUser != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	var username *string
	if input.Username != "" {
		taken, err := s.userRepo.GetByUsername(ctx, input.Username)
		if err != nil {
			return nil, fmt.Errorf("get user by username: %w", err)
		}
		if taken != nil {
			return nil, apperror.NewConflictError("Username already taken")
		}
		username = &input.Username
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	branch := input.Branch
	if branch == "" {
		branch = s.defaultBranch
	}

	user := &entity.User{
		Name:     input.Name,
		Username: username,
		Email:    email,
		Password: hashedPassword,
		Role:     enum.RoleCashier,
		Branch:   branch,
		Provider: "local",
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// RefreshToken generates new tokens from a refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, apperror.ErrInvalidToken
	}

	return s.issueTokens(user)
}

// Logout tears down the caller's POS terminal, discarding any unsaved cart.
func (s *AuthService) Logout(userID uint) {
	s.terminals.Discard(userID)
}

// GetCurrentUser returns the current user by ID
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uint) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// UpdateProfileInput represents the update profile input
type UpdateProfileInput struct {
	UserID   uint
	Name     string
	Username string
}

// UpdateProfile updates the user's profile
func (s *AuthService) UpdateProfile(ctx context.Context, input *UpdateProfileInput) (*entity.User, error) {
	user, err := s.GetCurrentUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Username != "" && (user.Username == nil || *user.Username != input.Username) {
		existingUser, err := s.userRepo.GetByUsername(ctx, input.Username)
		if err != nil {
			return nil, err
		}
		if existingUser != nil && existingUser.ID != user.ID {
			return nil, apperror.NewConflictError("Username already taken")
		}
		username := input.Username
		user.Username = &username
	}
	if input.Name != "" {
		user.Name = input.Name
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// ChangePasswordInput represents the change password input
type ChangePasswordInput struct {
	UserID          uint
	CurrentPassword string
	NewPassword     string
}

// ChangePassword changes the user's password
func (s *AuthService) ChangePassword(ctx context.Context, input *ChangePasswordInput) error {
	user, err := s.GetCurrentUser(ctx, input.UserID)
	if err != nil {
		return err
	}

	// accounts created through Google have no password to check
	if user.Password != "" && !utils.CheckPasswordHash(input.CurrentPassword, user.Password) {
		return apperror.NewFieldError("current_password", "Current password is incorrect")
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hashedPassword
	return s.userRepo.Update(ctx, user)
}

// GoogleAuthURL returns the Google consent URL.
func (s *AuthService) GoogleAuthURL() (string, error) {
	if s.google == nil || !s.google.IsConfigured() {
		return "", apperror.NewAppError(http.StatusServiceUnavailable, oauth.ErrOAuthNotConfigured.Error())
	}
	url, _ := s.google.AuthURL()
	return url, nil
}

// GoogleLogin completes Google sign-in. Existing accounts are linked by email;
// unknown emails get a new cashier account without a password.
func (s *AuthService) GoogleLogin(ctx context.Context, state, code string) (*LoginOutput, error) {
	if s.google == nil || !s.google.IsConfigured() {
		return nil, apperror.NewAppError(http.StatusServiceUnavailable, oauth.ErrOAuthNotConfigured.Error())
	}

	info, err := s.google.Authenticate(ctx, state, code)
	if err != nil {
		switch {
		case errors.Is(err, oauth.ErrInvalidState), errors.Is(err, oauth.ErrInvalidCode):
			return nil, apperror.NewBadRequestError(err.Error())
		case errors.Is(err, oauth.ErrEmailNotVerified):
			return nil, apperror.NewAppError(http.StatusForbidden, err.Error())
		}
		return nil, fmt.Errorf("google authenticate: %w", err)
	}

	email := strings.ToLower(info.Email)
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	if user == nil {
		providerID := info.ID
		user = &entity.User{
			Name:       info.Name,
			Email:      email,
			Role:       enum.RoleCashier,
			Branch:     s.defaultBranch,
			Provider:   "google",
			ProviderID: &providerID,
		}
		if user.Name == "" {
			user.Name = email
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("create google user: %w", err)
		}
		logger.L().WithField("email", email).Info("Created account from Google sign-in")
	} else if user.ProviderID == nil {
		providerID := info.ID
		user.ProviderID = &providerID
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("link google account: %w", err)
		}
	}

	return s.issueTokens(user)
}

// GoogleRedirects returns the frontend URLs used after the Google callback.
func (s *AuthService) GoogleRedirects() (success, failure string) {
	if s.google == nil {
		return "", ""
	}
	return s.google.FrontendSuccessURL(), s.google.FrontendErrorURL()
}

func (s *AuthService) issueTokens(user *entity.User) (*LoginOutput, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, string(user.Role), user.Branch)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.AccessTokenExpiry().Seconds()),
	}, nil
}
