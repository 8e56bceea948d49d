package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"course_platform/internal/model"
	"course_platform/internal/policy"
	"course_platform/internal/repository"
)

var (
	ErrCourseNotFound    = errors.New("course not found")
	ErrInvalidFileFormat = errors.New("invalid file format. only .pdf, .mp4, .pptx, .docx, .zip are allowed")
	ErrFileSizeExceeded  = errors.New("file size exceeds limit")
)

const MaxMaterialSize = 50 * 1024 * 1024 // 50MB

// CourseService defines operations for course content
type CourseService interface {
	CreateCourse(ctx context.Context, ownerID int, ownerRole string, req model.CreateCourseRequest) (*model.Course, error)
	GetCourse(ctx context.Context, courseID int64) (*model.Course, error)
	ListCourses(ctx context.Context, filters model.CourseFilters) ([]model.Course, error)
	UpdateCourse(ctx context.Context, courseID int64, callerID int, callerRole string, req model.UpdateCourseRequest) (*model.Course, error)
	DeleteCourse(ctx context.Context, courseID int64, callerID int, callerRole string) error
	UploadMaterial(ctx context.Context, courseID int64, callerID int, callerRole string, file *multipart.FileHeader) (*model.Course, error)
	GetMaterialPath(ctx context.Context, courseID int64) (string, string, error) // returns path and filename
}

type courseService struct {
	repo       repository.CourseRepository
	uploadsDir string
}

// NewCourseService creates a new CourseService
func NewCourseService(repo repository.CourseRepository, uploadsDir string) CourseService {
	return &courseService{repo: repo, uploadsDir: uploadsDir}
}

func (s *courseService) CreateCourse(ctx context.Context, ownerID int, ownerRole string, req model.CreateCourseRequest) (*model.Course, error) {
	if err := policy.CanCreateCourse(ownerRole); err != nil {
		return nil, err
	}

	course := &model.Course{
		OwnerID:     ownerID,
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.repo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course in repo: %w", err)
	}
	return course, nil
}

func (s *courseService) GetCourse(ctx context.Context, courseID int64) (*model.Course, error) {
	course, err := s.repo.FindByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to find course by ID: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	return course, nil
}

func (s *courseService) ListCourses(ctx context.Context, filters model.CourseFilters) ([]model.Course, error) {
	courses, err := s.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses from repo: %w", err)
	}
	return courses, nil
}

func (s *courseService) UpdateCourse(ctx context.Context, courseID int64, callerID int, callerRole string, req model.UpdateCourseRequest) (*model.Course, error) {
	existing, err := s.repo.FindByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to find course for update: %w", err)
	}
	if existing == nil {
		return nil, ErrCourseNotFound
	}
	if err := policy.CanModifyCourse(callerID, callerRole, existing.OwnerID); err != nil {
		return nil, err
	}

	// Apply updates
	if req.Title != nil {
		existing.Title = *req.Title
	}
	if req.Category != nil {
		existing.Category = *req.Category
	}
	if req.Description != nil { // handles setting to "" or null
		existing.Description = req.Description
	}
	existing.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update course in repo: %w", err)
	}
	return existing, nil
}

func (s *courseService) DeleteCourse(ctx context.Context, courseID int64, callerID int, callerRole string) error {
	existing, err := s.repo.FindByID(ctx, courseID)
	if err != nil {
		return fmt.Errorf("failed to find course for deletion: %w", err)
	}
	if existing == nil {
		return ErrCourseNotFound
	}
	if err := policy.CanModifyCourse(callerID, callerRole, existing.OwnerID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, courseID); err != nil {
		return fmt.Errorf("failed to delete course in repo: %w", err)
	}

	// Remove stored material after the record is gone; a leftover file is
	// only a disk-space concern, never a correctness one
	if existing.MaterialPath != nil && *existing.MaterialPath != "" {
		if err := os.Remove(filepath.FromSlash(*existing.MaterialPath)); err != nil && !os.IsNotExist(err) {
			log.Printf("Failed to remove material for deleted course %d: %v", courseID, err)
		}
	}
	return nil
}

func (s *courseService) UploadMaterial(ctx context.Context, courseID int64, callerID int, callerRole string, fileHeader *multipart.FileHeader) (*model.Course, error) {
	course, err := s.repo.FindByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to find course for material upload: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	if err := policy.CanModifyCourse(callerID, callerRole, course.OwnerID); err != nil {
		return nil, err
	}

	// Validate file
	if fileHeader.Size > MaxMaterialSize {
		return nil, ErrFileSizeExceeded
	}
	ext := filepath.Ext(fileHeader.Filename)
	allowedExts := map[string]bool{".pdf": true, ".mp4": true, ".pptx": true, ".docx": true, ".zip": true}
	if !allowedExts[strings.ToLower(ext)] {
		return nil, ErrInvalidFileFormat
	}

	courseUploadsDir := filepath.Join(s.uploadsDir, "courses", strconv.FormatInt(courseID, 10))
	if err := os.MkdirAll(courseUploadsDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	fileName := filepath.Base(fileHeader.Filename) // Basic sanitization
	filePath := filepath.Join(courseUploadsDir, fileName)
	relativeFilePath := filepath.ToSlash(filePath) // Store with forward slashes for consistency

	// Save the file
	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file on server: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	// Update course with material path
	if err := s.repo.UpdateMaterialPath(ctx, courseID, relativeFilePath); err != nil {
		os.Remove(filePath) // Attempt to clean up
		return nil, fmt.Errorf("failed to update course with material path: %w", err)
	}

	course.MaterialPath = &relativeFilePath // Update the model in memory
	return course, nil
}

func (s *courseService) GetMaterialPath(ctx context.Context, courseID int64) (string, string, error) {
	course, err := s.repo.FindByID(ctx, courseID)
	if err != nil {
		return "", "", fmt.Errorf("failed to find course for material retrieval: %w", err)
	}
	if course == nil {
		return "", "", ErrCourseNotFound
	}

	if course.MaterialPath == nil || *course.MaterialPath == "" {
		return "", "", fmt.Errorf("material not found for this course")
	}

	fullPath := filepath.FromSlash(*course.MaterialPath)
	fileName := filepath.Base(fullPath)

	return fullPath, fileName, nil
}
