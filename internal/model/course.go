package model

import "time"

// Course represents a piece of course content owned by a teacher (or admin)
type Course struct {
	ID           int64     `json:"id"`
	OwnerID      int       `json:"owner_id"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	Description  *string   `json:"description,omitempty"` // Pointer for optional field
	MaterialPath *string   `json:"material_path,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateCourseRequest is used for creating a new course
type CreateCourseRequest struct {
	Title       string  `json:"title" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	Description *string `json:"description"`
}

type UpdateCourseRequest struct {
	Title       *string `json:"title,omitempty"` // Pointers to allow partial updates
	Category    *string `json:"category,omitempty"`
	Description *string `json:"description,omitempty"`
}

// CourseFilters contains filter parameters for course listings
type CourseFilters struct {
	OwnerID  *int
	Category *string
}
