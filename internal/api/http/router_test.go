package http

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
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/account-service/internal/api/http/handlers"
	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/config"
	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/events"
	"github.com/spec-kit/account-service/internal/observability"
	"github.com/spec-kit/account-service/internal/repository"
	"github.com/spec-kit/account-service/internal/service"
)

type memUserRepo struct {
	seq   int64
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	stored, ok := m.users[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *stored
	return &cp, nil
}

func (m *memUserRepo) List(_ context.Context, _, _ int) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(m.users))
	for _, stored := range m.users {
		cp := *stored
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memUserRepo) Create(_ context.Context, user *domain.User) error {
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrDuplicateEmail
	}
	m.seq++
	user.ID = m.seq
	cp := *user
	m.users[user.Email] = &cp
	return nil
}

func (m *memUserRepo) Update(_ context.Context, user *domain.User) error {
	for email, stored := range m.users {
		if stored.ID == user.ID {
			delete(m.users, email)
			cp := *user
			m.users[user.Email] = &cp
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *memUserRepo) DeleteByEmail(_ context.Context, email string) error {
	if _, ok := m.users[email]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.users, email)
	return nil
}

func newTestApp(t *testing.T) (*fiber.App, *service.AuthService, *memUserRepo) {
	t.Helper()

	cfg := config.Config{Auth: config.AuthConfig{
		SecretKey:             "test-secret",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            bcrypt.MinCost,
	}}

	repo := newMemUserRepo()
	authService := service.NewAuthService(cfg, repo)
	userService := service.NewUserService(cfg, repo, events.NewInMemoryDispatcher())

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	RegisterRoutes(app, RouteConfig{
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Example:        handlers.NewExampleHandler(),
		AuthMiddleware: auth.NewMiddleware(authService.TokenManager(), repo),
		Health:         handlers.NewHealthHandler("test", "test", nil, nil),
	})
	return app, authService, repo
}

func seed(t *testing.T, repo *memUserRepo, email, password string, role domain.Role, active bool) {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), &domain.User{
		Email:          email,
		NickName:       "nick-" + email,
		HashedPassword: hash,
		IsActive:       active,
		Role:           role,
	}))
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	resp, body := doJSON(t, app, "POST", "/api/auth/token", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func errorCode(body map[string]any) string {
	errObj, _ := body["error"].(map[string]any)
	code, _ := errObj["code"].(string)
	return code
}

func TestLoginReturnsBearerToken(t *testing.T) {
	app, _, repo := newTestApp(t)
	seed(t, repo, "a@x.com", "pw", domain.RoleVisitor, true)

	resp, body := doJSON(t, app, "POST", "/api/auth/token", "", map[string]string{
		"email":    "a@x.com",
		"password": "pw",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "bearer", body["token_type"])
	assert.NotEmpty(t, body["access_token"])
}

func TestLoginFailureIsGenericUnauthorized(t *testing.T) {
	app, _, repo := newTestApp(t)
	seed(t, repo, "a@x.com", "pw", domain.RoleVisitor, true)

	respUnknown, bodyUnknown := doJSON(t, app, "POST", "/api/auth/token", "", map[string]string{
		"email": "nobody@x.com", "password": "anything",
	})
	respWrong, bodyWrong := doJSON(t, app, "POST", "/api/auth/token", "", map[string]string{
		"email": "a@x.com", "password": "wrongpass",
	})

	assert.Equal(t, http.StatusUnauthorized, respUnknown.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, respWrong.StatusCode)
	assert.Equal(t, errorCode(bodyUnknown), errorCode(bodyWrong))
}

func TestMeReturnsCallerIdentity(t *testing.T) {
	app, _, repo := newTestApp(t)
	seed(t, repo, "a@x.com", "pw", domain.RoleVisitor, true)
	token := login(t, app, "a@x.com", "pw")

	resp, body := doJSON(t, app, "GET", "/api/auth/user/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "a@x.com", body["email"])
	assert.Equal(t, "nick-a@x.com", body["nick_name"])
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, body := doJSON(t, app, "GET", "/api/auth/user/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "AUTHENTICATION_FAILED", errorCode(body))
}

func TestVisitorReadsSelfButNotOthers(t *testing.T) {
	app, _, repo := newTestApp(t)
	seed(t, repo, "a@x.com", "pw", domain.RoleVisitor, true)
	seed(t, repo, "b@x.com", "pw", domain.RoleVisitor, true)
	token := login(t, app, "a@x.com", "pw")

	respSelf, bodySelf := doJSON(t, app, "GET", "/api/users/a@x.com", token, nil)
	require.Equal(t, http.StatusOK, respSelf.StatusCode)
	assert.Equal(t, "a@x.com", bodySelf["email"])

	respOther, bodyOther := doJSON(t, app, "GET", "/api/users/b@x.com", token, nil)
	assert.Equal(t, http.StatusForbidden, respOther.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(bodyOther))
}

func TestInactiveAccountRejectedForUserManagement(t *testing.T) {
	app, _, repo := newTestApp(t)
	seed(t, repo, "a@x.com", "pw", domain.RoleVisitor, false)
	token := login(t, app, "a@x.com", "pw")

	resp, body := doJSON(t, app, "GET", "/api/users/a@x.com", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INACTIVE_ACCOUNT", errorCode(body))
}

func TestAdminDeleteOwnAccountRejected(t *testing.T) {
	app, _, repo := newTestApp(t)
	seed(t, repo, "root@x.com", "pw", domain.RoleAdmin, true)
	token := login(t, app, "root@x.com", "pw")

	resp, body := doJSON(t, app, "DELETE", "/api/users/root@x.com", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "SELF_DELETE_FORBIDDEN", errorCode(body))
}

func TestAdminCreateConflictOnDuplicateEmail(t *testing.T) {
	app, _, repo := newTestApp(t)
	seed(t, repo, "root@x.com", "pw", domain.RoleAdmin, true)
	seed(t, repo, "dup@x.com", "pw", domain.RoleVisitor, true)
	token := login(t, app, "root@x.com", "pw")

	resp, body := doJSON(t, app, "POST", "/api/users/", token, map[string]string{
		"email": "dup@x.com", "password": "pw",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", errorCode(body))
}

func TestExpiredTokenUnauthorized(t *testing.T) {
	app, authService, repo := newTestApp(t)
	seed(t, repo, "a@x.com", "pw", domain.RoleVisitor, true)

	expired, _, err := authService.TokenManager().GenerateTokenWithTTL("a@x.com", -time.Second)
	require.NoError(t, err)

	resp, body := doJSON(t, app, "GET", "/api/auth/user/me", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "AUTHENTICATION_FAILED", errorCode(body))
}

func TestHelloRoutes(t *testing.T) {
	app, _, repo := newTestApp(t)
	seed(t, repo, "a@x.com", "pw", domain.RoleVisitor, true)

	respPublic, bodyPublic := doJSON(t, app, "GET", "/api/hello", "", nil)
	require.Equal(t, http.StatusOK, respPublic.StatusCode)
	assert.Equal(t, "Hello World!", bodyPublic["message"])

	respAnon, _ := doJSON(t, app, "GET", "/api/hello/protected", "", nil)
	assert.Equal(t, http.StatusUnauthorized, respAnon.StatusCode)

	token := login(t, app, "a@x.com", "pw")
	respAuth, bodyAuth := doJSON(t, app, "GET", "/api/hello/protected", token, nil)
	require.Equal(t, http.StatusOK, respAuth.StatusCode)
	assert.Equal(t, "a@x.com", bodyAuth["email"])
}
