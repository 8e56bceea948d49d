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
	"course_platform/internal/repository"
	"course_platform/internal/utils"
)

var (
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotVerified        = errors.New("account is not verified")
	ErrInvalidResetToken  = errors.New("reset token is invalid or has expired")
	ErrEmailDelivery      = errors.New("failed to send email")
)

// ResetTokenTTL is the validity window of a password-reset secret.
const ResetTokenTTL = 10 * time.Minute

// AuthService provides authentication related services
type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, bool, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	GetCurrentUser(ctx context.Context, userID int) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	jwtUtil  *utils.JWTUtil
	mailer   mailer.Mailer
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil, m mailer.Mailer) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtUtil:  jwtUtil,
		mailer:   m,
	}
}

// Register creates a new account. The returned bool reports whether the
// welcome email went out; a delivery failure never rolls the creation back.
func (s *authService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, bool, error) {
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

	role := req.Role
	if role == "" {
		role = model.RoleStudent // Default role
	}

	user := &model.User{
		FullName:     req.FullName,
		Email:        email,
		Phone:        req.Phone,
		PasswordHash: hashedPassword,
		Role:         role,
		Verified:     true, // No email-verification gate in this system
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique index closes the race the FindByEmail pre-check leaves open
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, false, ErrUserAlreadyExists
		}
		return nil, false, fmt.Errorf("failed to create user in repository: %w", err)
	}

	welcomeSent := true
	if err := s.mailer.SendWelcome(ctx, user.Email, user.FullName); err != nil {
		log.Printf("User %s (ID: %d) created, but welcome email failed: %v", user.Email, user.ID, err)
		welcomeSent = false
	}

	return user, welcomeSent, nil
}

// Login authenticates a user and returns a session token.
// Unknown email and wrong password are deliberately indistinguishable.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials // User not found
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials // Password mismatch
	}

	if !user.Verified {
		return nil, "", ErrNotVerified
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// RequestPasswordReset issues a single-use reset secret and emails it.
// A nil return for an unknown email keeps account existence undisclosed;
// the only surfaced failure is a delivery failure for an existing account,
// in which case the persisted secret is cleared so it can never be redeemed.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return nil // Same outcome as success, existence is never revealed
	}

	token, err := utils.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	expiry := time.Now().Add(ResetTokenTTL)
	if err := s.userRepo.SetResetToken(ctx, user.ID, token, expiry); err != nil {
		return fmt.Errorf("failed to persist reset token: %w", err)
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.FullName, token); err != nil {
		log.Printf("Reset email for user %s (ID: %d) failed: %v", user.Email, user.ID, err)
		if clearErr := s.userRepo.ClearResetToken(ctx, user.ID); clearErr != nil {
			log.Printf("Failed to clear undeliverable reset token for user ID %d: %v", user.ID, clearErr)
		}
		return ErrEmailDelivery
	}

	return nil
}

// ResetPassword redeems a reset secret. Consumption is atomic at the store,
// so the token works at most once even under concurrent attempts.
func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.userRepo.ConsumeResetToken(ctx, token, hashedPassword)
	if err != nil {
		return fmt.Errorf("failed to consume reset token: %w", err)
	}
	if userID == 0 {
		return ErrInvalidResetToken
	}
	return nil
}

// GetCurrentUser looks up the account behind a verified session token
func (s *authService) GetCurrentUser(ctx context.Context, userID int) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error finding user by ID: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
