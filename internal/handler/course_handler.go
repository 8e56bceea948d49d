package handler

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"course_platform/internal/model"
	"course_platform/internal/policy"
	"course_platform/internal/service"

	"github.com/gin-gonic/gin"
)

// CourseHandler handles course content requests
type CourseHandler struct {
	service service.CourseService
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(s service.CourseService) *CourseHandler {
	return &CourseHandler{service: s}
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	callerID, err := getAuthUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, err.Error())
		return
	}
	callerRole, err := getAuthUserRole(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req model.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, http.StatusBadRequest, err)
		return
	}

	course, err := h.service.CreateCourse(c.Request.Context(), callerID, callerRole, req)
	if err != nil {
		if errors.Is(err, policy.ErrForbidden) {
			respondError(c, http.StatusForbidden, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to create course")
		return
	}
	respondSuccess(c, http.StatusCreated, "Course created successfully", gin.H{"course": course})
}

func (h *CourseHandler) ListCourses(c *gin.Context) {
	var filters model.CourseFilters
	if ownerIDStr := c.Query("owner_id"); ownerIDStr != "" {
		oid, err := strconv.Atoi(ownerIDStr)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid owner_id format")
			return
		}
		filters.OwnerID = &oid
	}
	if categoryParam := c.Query("category"); categoryParam != "" {
		filters.Category = &categoryParam
	}

	courses, err := h.service.ListCourses(c.Request.Context(), filters)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to retrieve courses")
		return
	}
	respondList(c, http.StatusOK, len(courses), gin.H{"courses": courses})
}

func (h *CourseHandler) GetCourse(c *gin.Context) {
	courseID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid course ID")
		return
	}

	course, err := h.service.GetCourse(c.Request.Context(), courseID)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to retrieve course")
		return
	}
	respondSuccess(c, http.StatusOK, "", gin.H{"course": course})
}

func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	callerID, err := getAuthUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, err.Error())
		return
	}
	callerRole, err := getAuthUserRole(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	courseID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid course ID")
		return
	}

	var req model.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, http.StatusBadRequest, err)
		return
	}

	course, err := h.service.UpdateCourse(c.Request.Context(), courseID, callerID, callerRole, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			respondError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, policy.ErrForbidden):
			respondError(c, http.StatusForbidden, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "Failed to update course")
		}
		return
	}
	respondSuccess(c, http.StatusOK, "Course updated successfully", gin.H{"course": course})
}

func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	callerID, err := getAuthUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, err.Error())
		return
	}
	callerRole, err := getAuthUserRole(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	courseID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid course ID")
		return
	}

	err = h.service.DeleteCourse(c.Request.Context(), courseID, callerID, callerRole)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			respondError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, policy.ErrForbidden):
			respondError(c, http.StatusForbidden, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "Failed to delete course")
		}
		return
	}
	respondSuccess(c, http.StatusOK, "Course deleted successfully", nil)
}

// --- Material Handling ---

func (h *CourseHandler) UploadMaterial(c *gin.Context) {
	callerID, err := getAuthUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, err.Error())
		return
	}
	callerRole, err := getAuthUserRole(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	courseID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid course ID")
		return
	}

	file, err := c.FormFile("material")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Material file is required: "+err.Error())
		return
	}

	course, err := h.service.UploadMaterial(c.Request.Context(), courseID, callerID, callerRole, file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			respondError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, policy.ErrForbidden):
			respondError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrInvalidFileFormat), errors.Is(err, service.ErrFileSizeExceeded):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "Failed to upload material")
		}
		return
	}
	respondSuccess(c, http.StatusOK, "Material uploaded successfully", gin.H{"course": course})
}

func (h *CourseHandler) GetMaterial(c *gin.Context) {
	courseID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid course ID")
		return
	}

	filePath, fileName, err := h.service.GetMaterialPath(c.Request.Context(), courseID)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusNotFound, "Material not found for this course")
		return
	}

	// Check if file exists before attempting to serve
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		respondError(c, http.StatusNotFound, "Material file not found on server")
		return
	}

	c.FileAttachment(filePath, fileName)
}

// RegisterCourseRoutes registers course routes
func (h *CourseHandler) RegisterCourseRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	courseRoutes := rg.Group("/courses")
	courseRoutes.Use(authMW) // All routes in this group require authentication
	{
		courseRoutes.GET("", h.ListCourses)
		courseRoutes.GET("/:id", h.GetCourse)
		courseRoutes.POST("", h.CreateCourse)         // Policy rejects students
		courseRoutes.PUT("/:id", h.UpdateCourse)      // Policy handles ownership
		courseRoutes.DELETE("/:id", h.DeleteCourse)   // Policy handles ownership
		courseRoutes.POST("/:id/material", h.UploadMaterial)
		courseRoutes.GET("/:id/material", h.GetMaterial)
	}
}
