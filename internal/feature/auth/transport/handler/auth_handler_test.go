package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jobtrack_backend/internal/feature/auth/domain/entity"
	"jobtrack_backend/internal/feature/auth/usecase"
	jwtmw "jobtrack_backend/internal/platform/jwt"
	"jobtrack_backend/internal/shared/validation"
)

// mockAuthUsecase is a mock implementation of the AuthUsecase interface.
type mockAuthUsecase struct {
	RegisterFunc func(ctx context.Context, in usecase.RegisterInput) (*usecase.AuthResult, error)
	LoginFunc    func(ctx context.Context, email, password string) (*usecase.AuthResult, error)
}

func (m *mockAuthUsecase) Register(ctx context.Context, in usecase.RegisterInput) (*usecase.AuthResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, in)
	}
	return nil, errors.New("register not mocked")
}

func (m *mockAuthUsecase) Login(ctx context.Context, email, password string) (*usecase.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, usecase.ErrInvalidCredentials // Default: failure
}

var testUser = &entity.User{
	ID:        3,
	Name:      "Ada",
	Email:     "ada@example.com",
	Password:  "$2a$10$hash",
	CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) gin.H {
	t.Helper()

	var body gin.H
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthHandler_Register(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		body           string
		registerFunc   func(ctx context.Context, in usecase.RegisterInput) (*usecase.AuthResult, error)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name: "success: user registration",
			body: `{"name":"Ada","email":"ada@example.com","password":"secret1"}`,
			registerFunc: func(_ context.Context, in usecase.RegisterInput) (*usecase.AuthResult, error) {
				if in.Name != "Ada" || in.Email != "ada@example.com" || in.Password != "secret1" {
					return nil, errors.New("unexpected input")
				}
				return &usecase.AuthResult{User: testUser, Token: "jwt"}, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "failure: malformed json",
			body:           `{"name":`,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request body",
		},
		{
			name: "failure: validation error from usecase",
			body: `{"name":"Ada","email":"nope","password":"secret1"}`,
			registerFunc: func(context.Context, usecase.RegisterInput) (*usecase.AuthResult, error) {
				return nil, validation.New("email", "email is invalid")
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "email is invalid",
		},
		{
			name: "failure: password too long for bcrypt",
			body: `{"name":"Ada","email":"ada@example.com","password":"` + strings.Repeat("p", 80) + `"}`,
			registerFunc: func(context.Context, usecase.RegisterInput) (*usecase.AuthResult, error) {
				return nil, validation.New("password", "password must be at most 72 bytes")
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "password must be at most 72 bytes",
		},
		{
			name: "failure: duplicate email",
			body: `{"name":"Ada","email":"ada@example.com","password":"secret1"}`,
			registerFunc: func(context.Context, usecase.RegisterInput) (*usecase.AuthResult, error) {
				return nil, usecase.ErrEmailAlreadyExists
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "user already exists",
		},
		{
			name: "failure: store error is hidden",
			body: `{"name":"Ada","email":"ada@example.com","password":"secret1"}`,
			registerFunc: func(context.Context, usecase.RegisterInput) (*usecase.AuthResult, error) {
				return nil, errors.New("pq: connection reset")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&mockAuthUsecase{RegisterFunc: tt.registerFunc}, zap.NewNop())
			router := gin.New()
			router.POST("/register", h.Register)

			w := postJSON(router, "/register", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			body := decode(t, w)
			if tt.expectedMsg != "" {
				assert.Equal(t, tt.expectedMsg, body["message"])
				return
			}
			assert.Equal(t, "jwt", body["token"])
			user, ok := body["user"].(map[string]interface{})
			require.True(t, ok, "user object expected")
			assert.Equal(t, "ada@example.com", user["email"])
			assert.NotContains(t, user, "password")
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		body           string
		loginFunc      func(ctx context.Context, email, password string) (*usecase.AuthResult, error)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name: "success: user login",
			body: `{"email":"ada@example.com","password":"secret1"}`,
			loginFunc: func(context.Context, string, string) (*usecase.AuthResult, error) {
				return &usecase.AuthResult{User: testUser, Token: "jwt"}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "failure: missing password",
			body:           `{"email":"ada@example.com"}`,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "email and password are required",
		},
		{
			name:           "failure: empty email",
			body:           `{"email":"","password":"secret1"}`,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "email and password are required",
		},
		{
			name:           "failure: email is not a string",
			body:           `{"email":42,"password":"secret1"}`,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request body",
		},
		{
			name:           "failure: not json",
			body:           `email=a`,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request body",
		},
		{
			name:           "failure: invalid credentials",
			body:           `{"email":"ada@example.com","password":"wrong"}`,
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "invalid email or password",
		},
		{
			name: "failure: store error",
			body: `{"email":"ada@example.com","password":"secret1"}`,
			loginFunc: func(context.Context, string, string) (*usecase.AuthResult, error) {
				return nil, errors.New("failed to find user: timeout")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&mockAuthUsecase{LoginFunc: tt.loginFunc}, zap.NewNop())
			router := gin.New()
			router.POST("/login", h.Login)

			w := postJSON(router, "/login", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			body := decode(t, w)
			if tt.expectedMsg != "" {
				assert.Equal(t, tt.expectedMsg, body["message"])
				return
			}
			assert.Equal(t, "jwt", body["token"])
		})
	}
}

func TestAuthHandler_Me(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewAuthHandler(&mockAuthUsecase{}, zap.NewNop())

	t.Run("returns the resolved user", func(t *testing.T) {
		router := gin.New()
		router.GET("/me", func(c *gin.Context) {
			c.Set(jwtmw.ContextUser, testUser)
		}, h.Me)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", bytes.NewReader(nil)))

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":3,"name":"Ada","email":"ada@example.com","createdAt":"2026-01-01T00:00:00Z"}`, w.Body.String())
	})

	t.Run("without guard", func(t *testing.T) {
		router := gin.New()
		router.GET("/me", h.Me)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
