package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"course_platform/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateEmail is returned when an insert collides with the unique
// email index. The index, not the application-level pre-check, is what
// guarantees uniqueness under concurrent registration.
var ErrDuplicateEmail = errors.New("email already registered")

const uniqueViolationCode = "23505"

// UserRepository defines operations on the persistent user record
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	FindAll(ctx context.Context, role *string) ([]model.User, error)
	UpdateRole(ctx context.Context, id int, role string) error
	SetResetToken(ctx context.Context, id int, token string, expiry time.Time) error
	ClearResetToken(ctx context.Context, id int) error
	ConsumeResetToken(ctx context.Context, token, passwordHash string) (int, error)
	Delete(ctx context.Context, id int) error
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, full_name, email, phone, password_hash, role, verified, reset_token, reset_token_expiry, created_at, updated_at`

func scanUser(row pgx.Row, u *model.User) error {
	return row.Scan(
		&u.ID, &u.FullName, &u.Email, &u.Phone, &u.PasswordHash, &u.Role,
		&u.Verified, &u.ResetToken, &u.ResetTokenExpiry, &u.CreatedAt, &u.UpdatedAt,
	)
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (full_name, email, phone, password_hash, role, verified, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql,
		user.FullName, user.Email, user.Phone, user.PasswordHash, user.Role,
		user.Verified, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByEmail retrieves a user by email. Lookup is an exact match; callers
// that normalize (registration, teacher creation) lowercase before calling.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	err := scanUser(r.db.QueryRow(ctx, sql, email), user)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // User not found is not an error for this method's contract, service layer handles it
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	err := scanUser(r.db.QueryRow(ctx, sql, id), user)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// FindAll retrieves users, optionally filtered by role
func (r *userRepository) FindAll(ctx context.Context, role *string) ([]model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users`
	args := []interface{}{}
	if role != nil && *role != "" {
		sql += ` WHERE role = $1`
		args = append(args, *role)
	}
	sql += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

// UpdateRole sets the role for a user
func (r *userRepository) UpdateRole(ctx context.Context, id int, role string) error {
	sql := `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`
	cmdTag, err := r.db.Exec(ctx, sql, role, id)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found for role update")
	}
	return nil
}

// SetResetToken stores a reset secret and its expiry on the user record.
// Last writer wins when concurrent reset requests race on one account.
func (r *userRepository) SetResetToken(ctx context.Context, id int, token string, expiry time.Time) error {
	sql := `UPDATE users SET reset_token = $1, reset_token_expiry = $2, updated_at = NOW() WHERE id = $3`
	cmdTag, err := r.db.Exec(ctx, sql, token, expiry, id)
	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found for reset token update")
	}
	return nil
}

// ClearResetToken removes any reset secret from the user record
func (r *userRepository) ClearResetToken(ctx context.Context, id int) error {
	sql := `UPDATE users SET reset_token = NULL, reset_token_expiry = NULL, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.Exec(ctx, sql, id); err != nil {
		return fmt.Errorf("failed to clear reset token: %w", err)
	}
	return nil
}

// ConsumeResetToken redeems a reset secret in a single statement: the new
// password is written and the token cleared only if the token matches and
// its expiry is still in the future. Returns the user id, or 0 when the
// token is unknown, already used, or expired.
func (r *userRepository) ConsumeResetToken(ctx context.Context, token, passwordHash string) (int, error) {
	sql := `UPDATE users
            SET password_hash = $2, reset_token = NULL, reset_token_expiry = NULL, updated_at = NOW()
            WHERE reset_token = $1 AND reset_token_expiry > NOW()
            RETURNING id`
	var id int
	err := r.db.QueryRow(ctx, sql, token, passwordHash).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil // Token invalid, expired or already consumed
		}
		return 0, fmt.Errorf("failed to consume reset token: %w", err)
	}
	return id, nil
}

// Delete removes a user from the database
func (r *userRepository) Delete(ctx context.Context, id int) error {
	sql := `DELETE FROM users WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, sql, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found for deletion")
	}
	return nil
}
