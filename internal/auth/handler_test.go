// AngelaMos | 2026
// handler_test.go

package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tharunrega/smansys/internal/core"
	"github.com/tharunrega/smansys/internal/middleware"
	"github.com/tharunrega/smansys/internal/user"
)

type testEnv struct {
	router http.Handler
	users  *user.MemoryRepository
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	repo := user.NewMemoryRepository()
	tokens := newTestTokenManager(t)
	h := NewHandler(NewService(user.NewService(repo), tokens))

	r := chi.NewRouter()
	h.RegisterRoutes(r, middleware.Authenticator(tokens), nil)

	return testEnv{router: r, users: repo}
}

func (e testEnv) do(
	t *testing.T,
	method, path, token string,
	body any,
) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

var validRegistration = RegisterRequest{
	FirstName: "Anil",
	LastName:  "Kumar",
	Email:     "anil@example.com",
	Password:  "secret1",
}

func TestRegisterLoginMe(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/register", "", validRegistration)
	require.Equal(t, http.StatusCreated, rec.Code)

	reg := decode[AuthResponse](t, rec)
	assert.Equal(t, "User registered successfully", reg.Message)
	assert.Equal(t, "user", reg.User.Role)
	assert.Nil(t, reg.User.Avatar)
	assert.NotEmpty(t, reg.Token)

	rec = env.do(t, http.MethodPost, "/auth/login", "", LoginRequest{
		Email:    "anil@example.com",
		Password: "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	login := decode[AuthResponse](t, rec)
	assert.Equal(t, "Login successful", login.Message)
	require.NotNil(t, login.User.Avatar)
	assert.Equal(t, reg.User.ID, login.User.ID)

	rec = env.do(t, http.MethodGet, "/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&raw))
	assert.Equal(t, "user", raw["user"]["role"])
	assert.Equal(t, "anil@example.com", raw["user"]["email"])
	assert.NotNil(t, raw["user"]["lastLogin"])
	assert.NotContains(t, raw["user"], "password")
	assert.NotContains(t, raw["user"], "passwordHash")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/register", "", validRegistration)
	require.Equal(t, http.StatusCreated, rec.Code)

	again := validRegistration
	again.Email = "ANIL@example.com"
	rec = env.do(t, http.MethodPost, "/auth/register", "", again)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode[core.ErrorResponse](t, rec)
	assert.Equal(t, "User already exists", body.Error)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	tests := []struct {
		name  string
		mod   func(r *RegisterRequest)
		field string
	}{
		{"short first name", func(r *RegisterRequest) { r.FirstName = "A" }, "firstName"},
		{"bad email", func(r *RegisterRequest) { r.Email = "nope" }, "email"},
		{"short password", func(r *RegisterRequest) { r.Password = "12345" }, "password"},
		{"unknown role", func(r *RegisterRequest) { r.Role = "root" }, "role"},
	}

	for _, tt := range tests {
		req := validRegistration
		tt.mod(&req)

		rec := env.do(t, http.MethodPost, "/auth/register", "", req)
		require.Equal(t, http.StatusBadRequest, rec.Code, tt.name)

		body := decode[core.ErrorResponse](t, rec)
		assert.Equal(t, core.KindValidation, body.Error, tt.name)
		require.NotEmpty(t, body.Details, tt.name)
		assert.Equal(t, tt.field, body.Details[0].Field, tt.name)
	}
}

func TestRegisterWithRole(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	req := validRegistration
	req.Role = "manager"
	rec := env.do(t, http.MethodPost, "/auth/register", "", req)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "manager", decode[AuthResponse](t, rec).User.Role)
}

func TestLoginFailures(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/register", "", validRegistration)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[AuthResponse](t, rec).User.ID

	rec = env.do(t, http.MethodPost, "/auth/login", "", LoginRequest{
		Email:    "anil@example.com",
		Password: "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "Invalid credentials", body["error"])
	assert.NotContains(t, body, "token")

	rec = env.do(t, http.MethodPost, "/auth/login", "", LoginRequest{
		Email:    "ghost@example.com",
		Password: "secret1",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	require.NoError(t, env.users.SetActive(id, false))
	rec = env.do(t, http.MethodPost, "/auth/login", "", LoginRequest{
		Email:    "anil@example.com",
		Password: "secret1",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Account disabled", decode[core.ErrorResponse](t, rec).Error)
}

func TestMeAndLogoutRequireToken(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/auth/me", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/auth/logout", "", nil).Code)
}

func TestLogout(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/register", "", validRegistration)
	token := decode[AuthResponse](t, rec).Token

	rec = env.do(t, http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logout successful", decode[core.MessageResponse](t, rec).Message)
}

func TestMalformedBody(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
