package handler

import (
	"errors"
	"net/http"
	"strconv"

	"course_platform/internal/model"
	"course_platform/internal/policy"
	"course_platform/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler handles administrator account management requests
type UserHandler struct {
	service service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

func (h *UserHandler) CreateTeacher(c *gin.Context) {
	var req model.CreateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, http.StatusBadRequest, err)
		return
	}

	teacher, welcomeSent, err := h.service.CreateTeacher(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to create teacher")
		return
	}

	message := "Teacher created successfully"
	if !welcomeSent {
		message = "Teacher created successfully, but the welcome email could not be sent"
	}
	respondSuccess(c, http.StatusCreated, message, gin.H{"user": teacher})
}

func (h *UserHandler) listByRole(c *gin.Context, role *string) {
	users, err := h.service.ListUsers(c.Request.Context(), role)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to retrieve users")
		return
	}
	respondList(c, http.StatusOK, len(users), gin.H{"users": users})
}

func (h *UserHandler) GetAllUsers(c *gin.Context) {
	var role *string
	if roleParam := c.Query("role"); roleParam != "" {
		role = &roleParam
	}
	h.listByRole(c, role)
}

func (h *UserHandler) GetTeachers(c *gin.Context) {
	role := model.RoleTeacher
	h.listByRole(c, &role)
}

func (h *UserHandler) GetStudents(c *gin.Context) {
	role := model.RoleStudent
	h.listByRole(c, &role)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
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

	targetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	err = h.service.DeleteUser(c.Request.Context(), callerID, callerRole, targetID)
	if err != nil {
		switch {
		case errors.Is(err, policy.ErrSelfAction), errors.Is(err, policy.ErrForbidden):
			respondError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "Failed to delete user")
		}
		return
	}

	respondSuccess(c, http.StatusOK, "User deleted successfully", nil)
}

func (h *UserHandler) UpdateUserRole(c *gin.Context) {
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

	targetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req model.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, http.StatusBadRequest, err)
		return
	}

	user, err := h.service.UpdateUserRole(c.Request.Context(), callerID, callerRole, targetID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, policy.ErrInvalidRole):
			// Input validation precedes authorization, so a bad role value
			// is a 400 even when a self-action 403 would also apply
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, policy.ErrSelfAction), errors.Is(err, policy.ErrForbidden):
			respondError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "Failed to update user role")
		}
		return
	}

	respondSuccess(c, http.StatusOK, "User role updated successfully", gin.H{"user": user})
}

// RegisterUserRoutes registers the admin account-management routes
func (h *UserHandler) RegisterUserRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, adminMW gin.HandlerFunc) {
	adminGroup := rg.Group("/admin")
	adminGroup.Use(authMW)
	adminGroup.Use(adminMW)
	{
		adminGroup.POST("/teachers", h.CreateTeacher)
		adminGroup.GET("/users", h.GetAllUsers)
		adminGroup.GET("/teachers", h.GetTeachers)
		adminGroup.GET("/students", h.GetStudents)
		adminGroup.DELETE("/users/:id", h.DeleteUser)
		adminGroup.PATCH("/users/:id/role", h.UpdateUserRole)
	}
}
