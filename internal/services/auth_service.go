package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/models"
	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/repositories"
	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/utils"
	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/validator"
)

type authService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	tokens    *utils.TokenManager
}

func NewAuthService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, tokens *utils.TokenManager) AuthService {
	return &authService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		tokens:    tokens,
	}
}

// Register creates a new account. Role defaults to student when absent;
// username is normalized to lowercase before the uniqueness checks so the
// constraint and the lookup agree.
func (s *authService) Register(ctx context.Context, req *validator.RegisterRequest) (*UserResponse, error) {
	if errs := s.validator.ValidateRegister(req); errs.HasErrors() {
		return nil, newValidationError(errs)
	}

	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if taken, err := s.repo.User().ExistsByEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if taken {
		return nil, ErrDuplicateEmail
	}

	if taken, err := s.repo.User().ExistsByUsername(ctx, username); err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	} else if taken {
		return nil, ErrDuplicateUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Surname:  strings.TrimSpace(req.Surname),
		Username: username,
		Email:    email,
		Password: string(hash),
		Role:     role,
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		// The unique index is the source of truth; the pre-checks above
		// only improve the error message under no contention.
		if repositories.IsDuplicateKey(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", "user_id", user.ID, "role", user.Role)

	return NewUserResponse(user), nil
}

// Login authenticates by email or username and issues an access token
func (s *authService) Login(ctx context.Context, req *validator.LoginRequest) (*LoginResult, error) {
	if errs := s.validator.ValidateLogin(req); errs.HasErrors() {
		return nil, newValidationError(errs)
	}

	identifier := strings.ToLower(strings.TrimSpace(req.Email))
	if identifier == "" {
		identifier = strings.ToLower(strings.TrimSpace(req.Username))
	}

	user, err := s.repo.User().GetByEmailOrUsername(ctx, identifier)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID)

	return &LoginResult{
		User:  NewUserResponse(user),
		Token: token,
	}, nil
}

// ChangePassword rotates a user's password after verifying the current one
func (s *authService) ChangePassword(ctx context.Context, userID uint, req *validator.PasswordChangeRequest) error {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return newValidationError(errs)
	}

	user, err := s.repo.User().GetWithCredentials(ctx, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.User().UpdatePassword(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("Password changed", "user_id", userID)

	return nil
}
