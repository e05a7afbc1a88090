package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jobtrack_backend/internal/app/di"
	apphandler "jobtrack_backend/internal/feature/applications/transport/handler"
	appusecase "jobtrack_backend/internal/feature/applications/usecase"
	authadapters "jobtrack_backend/internal/feature/auth/adapters"
	authhandler "jobtrack_backend/internal/feature/auth/transport/handler"
	authusecase "jobtrack_backend/internal/feature/auth/usecase"
	"jobtrack_backend/internal/platform/db"
	platformhandler "jobtrack_backend/internal/platform/http/handler"
	jwtmw "jobtrack_backend/internal/platform/jwt"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

const secret = "router-test-secret"

// newTestRouter wires the real stack over an in-memory SQLite database.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	logger := zap.NewNop()
	gdb, err := db.OpenDB(db.Config{Driver: db.DriverSQLite, SQLitePath: ":memory:", RunMigrations: true}, logger)
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)

	authUC := authusecase.NewAuthUsecase(authadapters.NewUserRepository(gdb), jwtmw.NewGenerator(secret, time.Hour))
	appUC := appusecase.NewApplicationUsecase(di.NewApplicationRepository(gdb, nil, 0), nil)
	guard := jwtmw.AuthRequired(jwtmw.NewVerifier(secret), authUC, logger)

	return NewRouter(
		Config{AuthRateLimitRPS: 100, AuthRateLimitBurst: 100},
		logger,
		platformhandler.NewHealthHandler(sqlDB, logger),
		authhandler.NewAuthHandler(authUC, logger),
		apphandler.NewApplicationHandler(appUC, logger),
		guard,
	)
}

type client struct {
	t     *testing.T
	r     http.Handler
	token string
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type authBody struct {
	Token string `json:"token"`
	User  struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type appBody struct {
	ID          uint   `json:"id"`
	UserID      uint   `json:"userId"`
	CompanyName string `json:"companyName"`
	Status      string `json:"status"`
	AppliedDate string `json:"appliedDate"`
}

type envelope struct {
	Message     string  `json:"message"`
	Application appBody `json:"application"`
}

func register(t *testing.T, r http.Handler, name, email string) *client {
	t.Helper()

	anon := &client{t: t, r: r}
	w := anon.do(http.MethodPost, "/api/auth/register", gin.H{"name": name, "email": email, "password": "secret123"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	res := decode[authBody](t, w)
	require.NotEmpty(t, res.Token)
	return &client{t: t, r: r, token: res.Token}
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t)

	w := (&client{t: t, r: r}).do(http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

// TestAuthRoundTrip: register → login → me.
func TestAuthRoundTrip(t *testing.T) {
	r := newTestRouter(t)
	anon := &client{t: t, r: r}

	registered := register(t, r, "Ada", "Ada@Example.com")

	w := anon.do(http.MethodPost, "/api/auth/login", gin.H{"email": "ada@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[authBody](t, w)
	assert.Equal(t, "ada@example.com", login.User.Email)

	for _, token := range []string{registered.token, login.Token} {
		me := (&client{t: t, r: r, token: token}).do(http.MethodGet, "/api/auth/me", nil)
		require.Equal(t, http.StatusOK, me.Code)
		got := decode[struct {
			ID    uint   `json:"id"`
			Email string `json:"email"`
		}](t, me)
		assert.Equal(t, login.User.ID, got.ID)
		assert.Equal(t, "ada@example.com", got.Email)
	}

	w = anon.do(http.MethodPost, "/api/auth/login", gin.H{"email": "ada@example.com", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = anon.do(http.MethodPost, "/api/auth/register", gin.H{"name": "Ada", "email": "ada@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = anon.do(http.MethodPost, "/api/auth/register", gin.H{"name": "Bea", "email": "bea@example.com", "password": strings.Repeat("p", 80)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"password must be at most 72 bytes"}`, w.Body.String())

	w = anon.do(http.MethodPost, "/api/auth/register", gin.H{"name": "Bea", "email": "bea@example.com", "password": strings.Repeat("p", 72)})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = anon.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"not authorized, token missing"}`, w.Body.String())
}

// TestApplicationScenario: create with the default status, list, move to Offer and read the stats.
func TestApplicationScenario(t *testing.T) {
	r := newTestRouter(t)
	alice := register(t, r, "Alice", "alice@example.com")

	w := alice.do(http.MethodPost, "/api/applications", gin.H{
		"companyName": "Google",
		"role":        "SWE",
		"appliedDate": "2026-03-01",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[envelope](t, w)
	assert.Equal(t, "Application created successfully", created.Message)
	assert.Equal(t, "Applied", created.Application.Status)
	assert.Equal(t, "2026-03-01", created.Application.AppliedDate)

	w = alice.do(http.MethodGet, "/api/applications", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]appBody](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, created.Application.ID, list[0].ID)

	path := "/api/applications/" + jsonNumber(created.Application.ID)
	w = alice.do(http.MethodPut, path, gin.H{"status": "Offer"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Offer", decode[envelope](t, w).Application.Status)

	w = alice.do(http.MethodGet, "/api/applications/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"total":1,"statusCounts":{"Applied":0,"OA":0,"Interview":0,"Offer":1,"Rejected":0}}`,
		w.Body.String())

	w = alice.do(http.MethodGet, "/api/applications/upcoming-followups", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCreateApplication_TimestampAppliedDate(t *testing.T) {
	r := newTestRouter(t)
	alice := register(t, r, "Alice", "alice@example.com")

	w := alice.do(http.MethodPost, "/api/applications", gin.H{
		"companyName": "Acme",
		"role":        "Dev",
		"appliedDate": "2024-01-01T00:00:00Z",
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "2024-01-01", decode[envelope](t, w).Application.AppliedDate)
}

func TestApplicationIsolation(t *testing.T) {
	r := newTestRouter(t)
	alice := register(t, r, "Alice", "alice@example.com")
	bob := register(t, r, "Bob", "bob@example.com")

	w := alice.do(http.MethodPost, "/api/applications", gin.H{"companyName": "Acme", "role": "Dev", "appliedDate": "2026-03-01"})
	require.Equal(t, http.StatusCreated, w.Code)
	path := "/api/applications/" + jsonNumber(decode[envelope](t, w).Application.ID)

	assert.Equal(t, http.StatusForbidden, bob.do(http.MethodGet, path, nil).Code)
	assert.Equal(t, http.StatusForbidden, bob.do(http.MethodPut, path, gin.H{"status": "Rejected"}).Code)
	assert.Equal(t, http.StatusForbidden, bob.do(http.MethodDelete, path, nil).Code)
	assert.JSONEq(t, `[]`, bob.do(http.MethodGet, "/api/applications", nil).Body.String())

	// Alice's record is untouched
	w = alice.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Applied", decode[appBody](t, w).Status)

	assert.Equal(t, http.StatusOK, alice.do(http.MethodDelete, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, alice.do(http.MethodDelete, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, bob.do(http.MethodGet, path, nil).Code)
	assert.Equal(t, http.StatusBadRequest, alice.do(http.MethodGet, "/api/applications/abc", nil).Code)
}

func TestAuthRateLimit(t *testing.T) {
	t.Parallel()

	logger := zap.NewNop()
	r := NewRouter(Config{AuthRateLimitRPS: 0.001, AuthRateLimitBurst: 1}, logger,
		platformhandler.NewHealthHandler(nil, logger),
		authhandler.NewAuthHandler(nil, logger),
		apphandler.NewApplicationHandler(nil, logger),
		func(c *gin.Context) { c.Next() },
	)
	anon := &client{t: t, r: r}

	// The first request passes the limiter and fails on the malformed body.
	first := anon.do(http.MethodPost, "/api/auth/login", "not an object")
	assert.Equal(t, http.StatusBadRequest, first.Code)

	second := anon.do(http.MethodPost, "/api/auth/login", "not an object")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func jsonNumber(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
