package handler

import (
	"errors"
	"net/http"

	"course_platform/internal/model"
	"course_platform/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, http.StatusBadRequest, err)
		return
	}

	user, welcomeSent, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		// Detailed error stays server-side, caller gets a generic message
		respondError(c, http.StatusInternalServerError, "Failed to register user")
		return
	}

	message := "User registered successfully"
	if !welcomeSent {
		// Creation is never rolled back because of a notification failure
		message = "User registered successfully, but the welcome email could not be sent"
	}
	respondSuccess(c, http.StatusCreated, message, gin.H{"user": user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, http.StatusBadRequest, err)
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrNotVerified) {
			respondError(c, http.StatusUnauthorized, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to login")
		return
	}

	respondSuccess(c, http.StatusOK, "Login successful", gin.H{"user": user, "token": token})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req model.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, http.StatusBadRequest, err)
		return
	}

	err := h.service.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, service.ErrEmailDelivery) {
			// The entire value of this operation was the email, so unlike
			// the welcome mail this failure is surfaced
			respondError(c, http.StatusInternalServerError, "Failed to send password reset email")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to process password reset request")
		return
	}

	// Identical body whether or not the account exists
	respondSuccess(c, http.StatusOK, "If the email exists, a password reset link has been sent", nil)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, http.StatusBadRequest, err)
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, service.ErrInvalidResetToken) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	respondSuccess(c, http.StatusOK, "Password has been reset successfully", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	user, err := h.service.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to retrieve current user")
		return
	}

	respondSuccess(c, http.StatusOK, "", gin.H{"user": user})
}

// RegisterAuthRoutes registers auth routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/forgot-password", h.ForgotPassword)
		authGroup.POST("/reset-password", h.ResetPassword)
		authGroup.GET("/me", authMW, h.Me)
	}
}
