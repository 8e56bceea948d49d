package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"course_platform/internal/middleware"
	"course_platform/internal/model"
	"course_platform/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAuthService lets each test script the service outcome
type stubAuthService struct {
	registerUser *model.User
	welcomeSent  bool
	registerErr  error
	loginUser    *model.User
	loginToken   string
	loginErr     error
	resetReqErr  error
	resetErr     error
	currentUser  *model.User
	currentErr   error
}

func (s *stubAuthService) Register(_ context.Context, _ model.RegisterRequest) (*model.User, bool, error) {
	return s.registerUser, s.welcomeSent, s.registerErr
}

func (s *stubAuthService) Login(_ context.Context, _, _ string) (*model.User, string, error) {
	return s.loginUser, s.loginToken, s.loginErr
}

func (s *stubAuthService) RequestPasswordReset(_ context.Context, _ string) error {
	return s.resetReqErr
}

func (s *stubAuthService) ResetPassword(_ context.Context, _, _ string) error {
	return s.resetErr
}

func (s *stubAuthService) GetCurrentUser(_ context.Context, _ int) (*model.User, error) {
	return s.currentUser, s.currentErr
}

// stubAuth stands in for the JWT middleware by injecting an identity directly
func stubAuth(userID int, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.AuthUserKey, userID)
		c.Set(middleware.AuthRoleKey, role)
		c.Next()
	}
}

func newAuthRouter(svc service.AuthService, authMW gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewAuthHandler(svc).RegisterAuthRoutes(r.Group("/api/v1"), authMW)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	return w, parsed
}

func TestAuthHandler_Register_Created(t *testing.T) {
	svc := &stubAuthService{
		registerUser: &model.User{ID: 1, Email: "alice@x.com", Role: model.RoleStudent},
		welcomeSent:  true,
	}
	r := newAuthRouter(svc, stubAuth(0, ""))

	w, body := doJSON(t, r, http.MethodPost, "/api/v1/auth/register",
		`{"full_name":"Alice Smith","email":"alice@x.com","password":"password123","phone":"+100200300"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "User registered successfully", body["message"])
}

func TestAuthHandler_Register_WelcomeFailureMessage(t *testing.T) {
	svc := &stubAuthService{
		registerUser: &model.User{ID: 1, Email: "alice@x.com", Role: model.RoleStudent},
		welcomeSent:  false,
	}
	r := newAuthRouter(svc, stubAuth(0, ""))

	w, body := doJSON(t, r, http.MethodPost, "/api/v1/auth/register",
		`{"full_name":"Alice Smith","email":"alice@x.com","password":"password123","phone":"+100200300"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "User registered successfully, but the welcome email could not be sent", body["message"])
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	svc := &stubAuthService{registerErr: service.ErrUserAlreadyExists}
	r := newAuthRouter(svc, stubAuth(0, ""))

	w, body := doJSON(t, r, http.MethodPost, "/api/v1/auth/register",
		`{"full_name":"Alice Smith","email":"alice@x.com","password":"password123","phone":"+100200300"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", body["status"])
}

func TestAuthHandler_Register_ValidationErrors(t *testing.T) {
	r := newAuthRouter(&stubAuthService{}, stubAuth(0, ""))

	w, body := doJSON(t, r, http.MethodPost, "/api/v1/auth/register",
		`{"full_name":"Alice Smith","email":"not-an-email","password":"short"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", body["status"])
	assert.NotEmpty(t, body["errors"])
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	svc := &stubAuthService{loginErr: service.ErrInvalidCredentials}
	r := newAuthRouter(svc, stubAuth(0, ""))

	w, body := doJSON(t, r, http.MethodPost, "/api/v1/auth/login",
		`{"email":"alice@x.com","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid email or password", body["message"])
}

func TestAuthHandler_Login_Success(t *testing.T) {
	svc := &stubAuthService{
		loginUser:  &model.User{ID: 1, Email: "alice@x.com", Role: model.RoleStudent},
		loginToken: "jwt-token",
	}
	r := newAuthRouter(svc, stubAuth(0, ""))

	w, body := doJSON(t, r, http.MethodPost, "/api/v1/auth/login",
		`{"email":"alice@x.com","password":"password123"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "jwt-token", data["token"])
}

func TestAuthHandler_ForgotPassword_GenericResponse(t *testing.T) {
	r := newAuthRouter(&stubAuthService{}, stubAuth(0, ""))

	w, body := doJSON(t, r, http.MethodPost, "/api/v1/auth/forgot-password",
		`{"email":"whoever@x.com"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "If the email exists, a password reset link has been sent", body["message"])
}

func TestAuthHandler_ForgotPassword_DeliveryFailure(t *testing.T) {
	svc := &stubAuthService{resetReqErr: service.ErrEmailDelivery}
	r := newAuthRouter(svc, stubAuth(0, ""))

	w, body := doJSON(t, r, http.MethodPost, "/api/v1/auth/forgot-password",
		`{"email":"alice@x.com"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to send password reset email", body["message"])
}

func TestAuthHandler_ResetPassword_InvalidToken(t *testing.T) {
	svc := &stubAuthService{resetErr: service.ErrInvalidResetToken}
	r := newAuthRouter(svc, stubAuth(0, ""))

	w, body := doJSON(t, r, http.MethodPost, "/api/v1/auth/reset-password",
		`{"token":"stale","password":"newpassword"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", body["status"])
}

func TestAuthHandler_Me(t *testing.T) {
	svc := &stubAuthService{currentUser: &model.User{ID: 7, Email: "alice@x.com"}}
	r := newAuthRouter(svc, stubAuth(7, model.RoleStudent))

	w, body := doJSON(t, r, http.MethodGet, "/api/v1/auth/me", "")

	assert.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]any)
	user := data["user"].(map[string]any)
	assert.Equal(t, float64(7), user["id"])
}
