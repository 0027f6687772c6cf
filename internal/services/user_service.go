package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/repositories"
	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator) UserService {
	return &userService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
	}
}

func (s *userService) List(ctx context.Context, limit, skip int) ([]*UserResponse, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if skip < 0 {
		skip = 0
	}

	users, total, err := s.repo.User().List(ctx, repositories.UserFilters{
		Limit:  limit,
		Offset: skip,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]*UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, NewUserResponse(user))
	}

	return responses, total, nil
}

func (s *userService) GetByID(ctx context.Context, id uint) (*UserResponse, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return NewUserResponse(user), nil
}

// Update patches profile fields. Users may only update themselves; the
// password and role fields are out of scope for this operation.
func (s *userService) Update(ctx context.Context, id, requesterID uint, req *validator.UserUpdateRequest) (*UserResponse, error) {
	if id != requesterID {
		return nil, ErrForbidden
	}

	if errs := s.validator.ValidateUserUpdate(req); errs.HasErrors() {
		return nil, newValidationError(errs)
	}

	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Surname != nil {
		user.Surname = strings.TrimSpace(*req.Surname)
	}
	if req.Username != nil {
		username := strings.ToLower(strings.TrimSpace(*req.Username))
		if username != user.Username {
			taken, err := s.repo.User().ExistsByUsername(ctx, username)
			if err != nil {
				return nil, fmt.Errorf("failed to check username: %w", err)
			}
			if taken {
				return nil, ErrDuplicateUsername
			}
			user.Username = username
		}
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			taken, err := s.repo.User().ExistsByEmail(ctx, email)
			if err != nil {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			if taken {
				return nil, ErrDuplicateEmail
			}
			user.Email = email
		}
	}

	if err := s.repo.User().Update(ctx, user); err != nil {
		if repositories.IsDuplicateKey(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("User updated", "user_id", id)

	return NewUserResponse(user), nil
}

// Delete removes an account together with its enrollments so no course
// keeps a reference to a dead student.
func (s *userService) Delete(ctx context.Context, id, requesterID uint) error {
	if id != requesterID {
		return ErrForbidden
	}

	if _, err := s.repo.User().GetByID(ctx, id); err != nil {
		if repositories.IsNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Enrollment().RemoveByStudent(ctx, id); err != nil {
			return fmt.Errorf("failed to remove enrollments: %w", err)
		}
		return tx.User().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("User deleted", "user_id", id)

	return nil
}
