package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"course_platform/internal/model"

	"github.com/jackc/pgx/v5"
)

// CourseRepository defines operations for course content
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	FindByID(ctx context.Context, id int64) (*model.Course, error)
	FindAll(ctx context.Context, filters model.CourseFilters) ([]model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id int64) error
	UpdateMaterialPath(ctx context.Context, id int64, materialPath string) error
}

type courseRepository struct {
	db DB
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db DB) CourseRepository {
	return &courseRepository{db: db}
}

// Create inserts a new course into the database
func (r *courseRepository) Create(ctx context.Context, c *model.Course) error {
	sql := `INSERT INTO courses (owner_id, title, category, description, material_path, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, c.OwnerID, c.Title, c.Category, c.Description, c.MaterialPath, c.CreatedAt, c.UpdatedAt).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	return nil
}

// FindByID retrieves a course by its ID
func (r *courseRepository) FindByID(ctx context.Context, id int64) (*model.Course, error) {
	c := &model.Course{}
	sql := `SELECT id, owner_id, title, category, description, material_path, created_at, updated_at
            FROM courses WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(
		&c.ID, &c.OwnerID, &c.Title, &c.Category, &c.Description,
		&c.MaterialPath, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find course by ID: %w", err)
	}
	return c, nil
}

// FindAll retrieves courses with optional filters
func (r *courseRepository) FindAll(ctx context.Context, filters model.CourseFilters) ([]model.Course, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT id, owner_id, title, category, description, material_path, created_at, updated_at
                               FROM courses`)

	args := []interface{}{}
	argCount := 1
	var conditions []string

	if filters.OwnerID != nil {
		conditions = append(conditions, fmt.Sprintf("owner_id = $%d", argCount))
		args = append(args, *filters.OwnerID)
		argCount++
	}
	if filters.Category != nil && *filters.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argCount))
		args = append(args, *filters.Category)
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY created_at DESC")

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(
			&c.ID, &c.OwnerID, &c.Title, &c.Category, &c.Description,
			&c.MaterialPath, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan course row: %w", err)
		}
		courses = append(courses, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}
	return courses, nil
}

// Update modifies an existing course
func (r *courseRepository) Update(ctx context.Context, c *model.Course) error {
	sql := `UPDATE courses
            SET title = $1, category = $2, description = $3, updated_at = NOW()
            WHERE id = $4 RETURNING updated_at`
	err := r.db.QueryRow(ctx, sql, c.Title, c.Category, c.Description, c.ID).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("course not found for update")
		}
		return fmt.Errorf("failed to update course: %w", err)
	}
	return nil
}

// Delete removes a course from the database
func (r *courseRepository) Delete(ctx context.Context, id int64) error {
	sql := `DELETE FROM courses WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, sql, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("course not found for deletion")
	}
	return nil
}

// UpdateMaterialPath updates the stored material path for a course
func (r *courseRepository) UpdateMaterialPath(ctx context.Context, id int64, materialPath string) error {
	sql := `UPDATE courses SET material_path = $1, updated_at = NOW() WHERE id = $2 RETURNING updated_at`
	var updatedAt time.Time
	err := r.db.QueryRow(ctx, sql, materialPath, id).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("course not found for material path update")
		}
		return fmt.Errorf("failed to update material path: %w", err)
	}
	return nil
}
