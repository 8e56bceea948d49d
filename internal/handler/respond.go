package handler

import (
	"errors"
	"fmt"

	"course_platform/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// respondSuccess writes the standard success envelope
func respondSuccess(c *gin.Context, code int, message string, data gin.H) {
	body := gin.H{"status": "success"}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(code, body)
}

// respondList writes a success envelope with a results cardinality field
func respondList(c *gin.Context, code int, results int, data gin.H) {
	c.JSON(code, gin.H{"status": "success", "results": results, "data": data})
}

// respondError writes the standard error envelope
func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"status": "error", "message": message})
}

// respondValidationError aggregates field-level binding failures into a list
func respondValidationError(c *gin.Context, code int, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		messages := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			messages = append(messages, fmt.Sprintf("field %s failed validation on '%s'", fe.Field(), fe.Tag()))
		}
		c.JSON(code, gin.H{"status": "error", "message": "Invalid request", "errors": messages})
		return
	}
	respondError(c, code, "Invalid request: "+err.Error())
}

// Helper to get authenticated user ID from context
func getAuthUserID(c *gin.Context) (int, error) {
	userIDVal, exists := c.Get(middleware.AuthUserKey)
	if !exists {
		return 0, errors.New("user ID not found in context")
	}
	userID, ok := userIDVal.(int)
	if !ok {
		return 0, errors.New("invalid user ID type in context")
	}
	return userID, nil
}

// Helper to get authenticated user role from context
func getAuthUserRole(c *gin.Context) (string, error) {
	roleVal, exists := c.Get(middleware.AuthRoleKey)
	if !exists {
		return "", errors.New("user role not found in context")
	}
	role, ok := roleVal.(string)
	if !ok {
		return "", errors.New("invalid user role type in context")
	}
	return role, nil
}
