package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"course_platform/internal/mailer"
	"course_platform/internal/model"
	"course_platform/internal/policy"
	"course_platform/internal/repository"
	"course_platform/internal/utils"
)

// UserService provides the administrator-facing account management
type UserService interface {
	CreateTeacher(ctx context.Context, req model.CreateTeacherRequest) (*model.User, bool, error)
	ListUsers(ctx context.Context, role *string) ([]model.User, error)
	DeleteUser(ctx context.Context, callerID int, callerRole string, targetID int) error
	UpdateUserRole(ctx context.Context, callerID int, callerRole string, targetID int, newRole string) (*model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	mailer   mailer.Mailer
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, m mailer.Mailer) UserService {
	return &userService{userRepo: userRepo, mailer: m}
}

// CreateTeacher creates a pre-verified teacher account. Like public
// registration, a welcome email failure does not undo the creation.
func (s *userService) CreateTeacher(ctx context.Context, req model.CreateTeacherRequest) (*model.User, bool, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, false, ErrUserAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		FullName:     req.FullName,
		Email:        email,
		Phone:        req.Phone,
		PasswordHash: hashedPassword,
		Role:         model.RoleTeacher,
		Verified:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, false, ErrUserAlreadyExists
		}
		return nil, false, fmt.Errorf("failed to create teacher in repository: %w", err)
	}

	welcomeSent := true
	if err := s.mailer.SendWelcome(ctx, user.Email, user.FullName); err != nil {
		log.Printf("Teacher %s (ID: %d) created, but welcome email failed: %v", user.Email, user.ID, err)
		welcomeSent = false
	}

	return user, welcomeSent, nil
}

// ListUsers returns accounts, optionally filtered by role. Password hashes
// and reset fields never serialize (stripped at the model).
func (s *userService) ListUsers(ctx context.Context, role *string) ([]model.User, error) {
	users, err := s.userRepo.FindAll(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// DeleteUser removes an account. Irreversible; the self-action guard in the
// policy rejects admins deleting themselves before the role gate applies.
func (s *userService) DeleteUser(ctx context.Context, callerID int, callerRole string, targetID int) error {
	if err := policy.CanDeleteUser(callerID, callerRole, targetID); err != nil {
		return err
	}

	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return fmt.Errorf("failed to find user for deletion: %w", err)
	}
	if target == nil {
		return ErrUserNotFound
	}

	if err := s.userRepo.Delete(ctx, targetID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// UpdateUserRole changes an account's role. Role-value validation happens
// inside the policy, before the self-action guard and the role gate.
func (s *userService) UpdateUserRole(ctx context.Context, callerID int, callerRole string, targetID int, newRole string) (*model.User, error) {
	if err := policy.CanUpdateRole(callerID, callerRole, targetID, newRole); err != nil {
		return nil, err
	}

	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user for role update: %w", err)
	}
	if target == nil {
		return nil, ErrUserNotFound
	}

	if err := s.userRepo.UpdateRole(ctx, targetID, newRole); err != nil {
		return nil, fmt.Errorf("failed to update user role: %w", err)
	}

	target.Role = newRole
	target.UpdatedAt = time.Now()
	return target, nil
}
