package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/HamzaAshfaq01/sellsgoods/internal/domain/entity"
	"github.com/HamzaAshfaq01/sellsgoods/internal/platform/logger"
	"github.com/HamzaAshfaq01/sellsgoods/internal/repository"
	"github.com/HamzaAshfaq01/sellsgoods/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, input service.RegisterInput) (*entity.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*entity.User), args.String(1), args.Error(2)
}

func (m *MockUserService) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, id string, patch service.ProfilePatch) (*entity.User, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	return m.Called(ctx, id, currentPassword, newPassword).Error(0)
}

func (m *MockUserService) ListUsers(ctx context.Context, page, limit int) (*repository.ListUsersResult, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ListUsersResult), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp["error"]
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	mw := JWTAuth("secret", new(MockUserService), logger.NewNop())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
	mw(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "missing or malformed authorization header", decodeErrorBody(t, rec))
}

func TestJWTAuth_MalformedToken(t *testing.T) {
	mw := JWTAuth("secret", new(MockUserService), logger.NewNop())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	mw(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid or expired token", decodeErrorBody(t, rec))
}

func TestAdminOnly_RejectsNonAdmin(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	buyer := &entity.User{ID: primitive.NewObjectID(), Role: entity.RoleBuyer}
	req = req.WithContext(WithUser(req.Context(), buyer))
	AdminOnly(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "admin access required", decodeErrorBody(t, rec))
}

func TestAdminOnly_AllowsAdmin(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	admin := &entity.User{ID: primitive.NewObjectID(), Role: entity.RoleAdmin}
	req = req.WithContext(WithUser(req.Context(), admin))
	AdminOnly(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
