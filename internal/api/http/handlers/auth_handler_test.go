package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/auth-service/internal/api/dto"
	httptransport "github.com/spec-kit/auth-service/internal/api/http"
	"github.com/spec-kit/auth-service/internal/api/http/handlers"
	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/events"
	"github.com/spec-kit/auth-service/internal/observability"
	"github.com/spec-kit/auth-service/internal/service"
)

type memoryUserRepo struct {
	users map[string]*domain.User
}

func (m *memoryUserRepo) Create(_ context.Context, user *domain.User) error {
	m.users[user.Email] = user
	return nil
}

func (m *memoryUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memoryUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := m.users[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

type testStack struct {
	app *fiber.App
	key []byte
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	hash, err := auth.HashPassword("p", bcrypt.MinCost)
	require.NoError(t, err)

	repo := &memoryUserRepo{users: map[string]*domain.User{
		"a@x.com":    {ID: 7, Email: "a@x.com", PasswordHash: hash, Role: domain.RoleMember, Active: true},
		"boss@x.com": {ID: 1, Email: "boss@x.com", PasswordHash: hash, Role: domain.RoleManager, Active: true},
	}}

	key := bytes.Repeat([]byte{0x42}, 64)
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	tokens := auth.NewTokenManager(key)
	classifier := auth.NewClassifier(tokens, logger, metrics, dispatcher)
	middleware := auth.NewAuthMiddleware(classifier, logger)

	authService := service.NewAuthService(service.AuthDependencies{
		Authenticator: service.NewCredentialAuthenticator(repo),
		Tokens:        tokens,
		Limiter:       service.NewLoginLimiter(nil, 0, 0),
		Dispatcher:    dispatcher,
		Metrics:       metrics,
		Logger:        logger,
	})

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Auth:           handlers.NewAuthHandler(authService),
		Resources:      handlers.NewResourcesHandler(),
		AuthMiddleware: middleware,
		Users:          repo,
		Health:         handlers.NewHealthHandler("auth-service", "test", nil, nil),
	})

	return &testStack{app: app, key: key}
}

func (s *testStack) login(t *testing.T, email, password string) *http.Response {
	t.Helper()

	body, err := json.Marshal(dto.LoginRequest{Email: email, Password: password})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	require.NoError(t, err)
	return resp
}

func (s *testStack) get(t *testing.T, path, token string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestLoginAndAccessProtectedResource(t *testing.T) {
	stack := newTestStack(t)

	resp := stack.login(t, "a@x.com", "p")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResp dto.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loginResp))
	assert.Equal(t, "a@x.com", loginResp.Email)
	require.NotEmpty(t, loginResp.Token)

	privateResp := stack.get(t, "/private", loginResp.Token)
	defer privateResp.Body.Close()
	assert.Equal(t, http.StatusOK, privateResp.StatusCode)

	var payload map[string]any
	require.NoError(t, json.NewDecoder(privateResp.Body).Decode(&payload))
	assert.NotEmpty(t, payload["id"])

	// A member is authenticated but not authorized for the manager area.
	managerResp := stack.get(t, "/manager", loginResp.Token)
	defer managerResp.Body.Close()
	assert.Equal(t, http.StatusForbidden, managerResp.StatusCode)
}

func TestManagerAccess(t *testing.T) {
	stack := newTestStack(t)

	resp := stack.login(t, "boss@x.com", "p")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResp dto.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loginResp))

	managerResp := stack.get(t, "/manager", loginResp.Token)
	defer managerResp.Body.Close()
	assert.Equal(t, http.StatusOK, managerResp.StatusCode)
}

func TestLoginWrongPassword(t *testing.T) {
	stack := newTestStack(t)

	resp := stack.login(t, "a@x.com", "wrong")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Empty(t, body, "failed login must not carry a body")
}

func TestLoginMissingFields(t *testing.T) {
	stack := newTestStack(t)

	resp := stack.login(t, "a@x.com", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExpiredTokenDegradesToAnonymous(t *testing.T) {
	stack := newTestStack(t)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "7,a@x.com",
		Issuer:    auth.Issuer,
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-25 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}).SignedString(stack.key)
	require.NoError(t, err)

	// Public stays reachable; the gatekeeper never rejects on its own.
	publicResp := stack.get(t, "/public", expired)
	defer publicResp.Body.Close()
	assert.Equal(t, http.StatusOK, publicResp.StatusCode)

	privateResp := stack.get(t, "/private", expired)
	defer privateResp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, privateResp.StatusCode)
}
