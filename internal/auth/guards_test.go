package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/observability"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

type fakeUserRepo struct {
	users map[int64]*domain.User
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func newGuardedApp(tm *TokenManager, users *fakeUserRepo) *fiber.App {
	classifier := NewClassifier(tm, zap.NewNop(), observability.NewMetrics(), nil)
	middleware := NewAuthMiddleware(classifier, zap.NewNop())

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"code": domainErr.Code})
		},
	})
	app.Use(middleware.Handle)
	app.Get("/private", RequireAuthenticated(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/manager", RequireManager(users), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestGuards(t *testing.T) {
	tm := NewTokenManager(testSigningKey(0x42))
	users := &fakeUserRepo{users: map[int64]*domain.User{
		1: {ID: 1, Email: "boss@x.com", Role: domain.RoleManager, Active: true},
		2: {ID: 2, Email: "a@x.com", Role: domain.RoleMember, Active: true},
		3: {ID: 3, Email: "gone@x.com", Role: domain.RoleManager, Active: false},
	}}
	app := newGuardedApp(tm, users)

	managerToken, _, err := tm.Issue(1, "boss@x.com")
	require.NoError(t, err)
	memberToken, _, err := tm.Issue(2, "a@x.com")
	require.NoError(t, err)
	inactiveToken, _, err := tm.Issue(3, "gone@x.com")
	require.NoError(t, err)
	unknownToken, _, err := tm.Issue(99, "ghost@x.com")
	require.NoError(t, err)

	tests := []struct {
		name       string
		path       string
		token      string
		wantStatus int
	}{
		{name: "private anonymous", path: "/private", wantStatus: http.StatusUnauthorized},
		{name: "private authenticated member", path: "/private", token: memberToken, wantStatus: http.StatusOK},
		{name: "private authenticated manager", path: "/private", token: managerToken, wantStatus: http.StatusOK},
		{name: "manager anonymous", path: "/manager", wantStatus: http.StatusUnauthorized},
		{name: "manager as member", path: "/manager", token: memberToken, wantStatus: http.StatusForbidden},
		{name: "manager as manager", path: "/manager", token: managerToken, wantStatus: http.StatusOK},
		{name: "manager inactive account", path: "/manager", token: inactiveToken, wantStatus: http.StatusForbidden},
		{name: "manager unknown account", path: "/manager", token: unknownToken, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
