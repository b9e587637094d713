// AngelaMos | 2026
// handler_test.go

package student

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tharunrega/smansys/internal/core"
	"github.com/tharunrega/smansys/internal/middleware"
)

type staticVerifier map[string]*middleware.Identity

func (s staticVerifier) VerifyAccessToken(
	_ context.Context,
	token string,
) (*middleware.Identity, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return nil, core.ErrTokenInvalid
}

var tokens = staticVerifier{
	"user":    {ID: "u1", Role: "user"},
	"manager": {ID: "m1", Role: "manager"},
	"admin":   {ID: "a1", Role: "admin"},
}

type testEnv struct {
	router http.Handler
	repo   *MemoryRepository
	svc    *Service
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	repo := NewMemoryRepository()
	svc := NewService(repo)

	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, middleware.Authenticator(tokens))

	return testEnv{router: r, repo: repo, svc: svc}
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

func validRequest(roll string) Request {
	return Request{
		FirstName:   "Ravi",
		LastName:    "Teja",
		RollNumber:  roll,
		Class:       "7",
		Section:     "A",
		Gender:      GenderMale,
		DateOfBirth: "2012-06-15",
		Address:     "12 Main Rd",
	}
}

func (e testEnv) create(t *testing.T, req Request) Response {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/students", "manager", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[DataResponse](t, rec).Data
}

func TestRoleGate(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	existing := env.create(t, validRequest("R-1"))

	paths := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/students", nil},
		{http.MethodPost, "/students", validRequest("R-2")},
		{http.MethodGet, "/students/" + existing.ID, nil},
		{http.MethodPut, "/students/" + existing.ID, validRequest("R-1")},
		{http.MethodDelete, "/students/" + existing.ID, nil},
	}

	for _, p := range paths {
		name := p.method + " " + p.path

		assert.Equal(t, http.StatusUnauthorized,
			env.do(t, p.method, p.path, "", p.body).Code, name)

		rec := env.do(t, p.method, p.path, "user", p.body)
		assert.Equal(t, http.StatusForbidden, rec.Code, name)
		assert.Equal(t, core.KindForbidden, decode[core.ErrorResponse](t, rec).Error, name)
	}

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/students", "manager", nil).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/students", "admin", nil).Code)
}

func TestCreateDefaults(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	got := env.create(t, validRequest("R-1"))
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, AccommodationDayScholar, got.AccommodationType)
	assert.False(t, got.TransportNeeded)
	assert.True(t, got.IsActive)
	assert.Zero(t, got.AcademicDetails.Points)
	assert.Equal(t, time.Date(2012, 6, 15, 0, 0, 0, 0, time.UTC), got.DateOfBirth)
}

func TestCreateDuplicateRollNumber(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.create(t, validRequest("R-1"))

	rec := env.do(t, http.MethodPost, "/students", "admin", validRequest(" R-1 "))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode[core.ErrorResponse](t, rec)
	assert.Equal(t, "Duplicate roll number", body.Error)
	assert.Equal(t, "A student with this roll number already exists", body.Message)

	total, err := env.svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	tests := []struct {
		name  string
		mod   func(r *Request)
		field string
	}{
		{"missing roll number", func(r *Request) { r.RollNumber = "" }, "rollNumber"},
		{"bad gender", func(r *Request) { r.Gender = "male" }, "gender"},
		{"bad date", func(r *Request) { r.DateOfBirth = "15/06/2012" }, "dateOfBirth"},
		{"bad accommodation", func(r *Request) { r.AccommodationType = "Boarder" }, "accommodationType"},
		{"bad email", func(r *Request) { r.Email = "nope" }, "email"},
		{"negative income", func(r *Request) {
			income := -1.0
			r.ParentDetails = &ParentDetails{AnnualIncome: &income}
		}, "parentDetails.annualIncome"},
	}

	for _, tt := range tests {
		req := validRequest("R-9")
		tt.mod(&req)

		rec := env.do(t, http.MethodPost, "/students", "manager", req)
		require.Equal(t, http.StatusBadRequest, rec.Code, tt.name)

		body := decode[core.ErrorResponse](t, rec)
		assert.Equal(t, core.KindValidation, body.Error, tt.name)
		require.NotEmpty(t, body.Details, tt.name)
		assert.Equal(t, tt.field, body.Details[0].Field, tt.name)
	}
}

func TestGetAndNotFound(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	created := env.create(t, validRequest("R-1"))

	rec := env.do(t, http.MethodGet, "/students/"+created.ID, "manager", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "R-1", decode[DataResponse](t, rec).Data.RollNumber)

	for _, id := range []string{"not-a-uuid", "7d6f3b3e-0c55-4d3f-8d5e-8f0d2a7d9b11"} {
		rec = env.do(t, http.MethodGet, "/students/"+id, "manager", nil)
		require.Equal(t, http.StatusNotFound, rec.Code, id)
		assert.Equal(t, "Student not found", decode[core.ErrorResponse](t, rec).Message)
	}
}

func TestReplaceRollNumberRules(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	first := env.create(t, validRequest("R-1"))
	env.create(t, validRequest("R-2"))

	same := validRequest("R-1")
	same.Class = "8"
	rec := env.do(t, http.MethodPut, "/students/"+first.ID, "manager", same)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[DataResponse](t, rec)
	assert.Equal(t, "Student updated successfully", updated.Message)
	assert.Equal(t, "8", updated.Data.Class)
	assert.Equal(t, first.CreatedAt, updated.Data.CreatedAt)

	rec = env.do(t, http.MethodPut, "/students/"+first.ID, "manager", validRequest("R-2"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Duplicate roll number", decode[core.ErrorResponse](t, rec).Error)

	rec = env.do(t, http.MethodPut, "/students/"+first.ID, "manager", validRequest("R-3"))
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := env.repo.GetByRollNumber(context.Background(), "R-1")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestReplaceKeepsOmittedOptionalFields(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	req := validRequest("R-1")
	req.Location = "Guntur"
	req.ContactNumber = "9876543210"
	req.ParentDetails = &ParentDetails{FatherName: "Suresh"}
	req.AccommodationType = AccommodationHosteller
	yes := true
	req.TransportNeeded = &yes
	created := env.create(t, req)
	require.True(t, created.TransportNeeded)

	update := validRequest("R-1")
	update.Class = "8"
	rec := env.do(t, http.MethodPut, "/students/"+created.ID, "admin", update)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[DataResponse](t, rec).Data
	assert.Equal(t, "8", got.Class)
	assert.Equal(t, "Guntur", got.Location)
	assert.Equal(t, "9876543210", got.ContactNumber)
	assert.Equal(t, "Suresh", got.ParentDetails.FatherName)
	assert.Equal(t, AccommodationDayScholar, got.AccommodationType)
	assert.False(t, got.TransportNeeded)

	update.Location = "Vijayawada"
	update.ParentDetails = &ParentDetails{MotherName: "Lakshmi"}
	rec = env.do(t, http.MethodPut, "/students/"+created.ID, "admin", update)
	require.Equal(t, http.StatusOK, rec.Code)

	got = decode[DataResponse](t, rec).Data
	assert.Equal(t, "Vijayawada", got.Location)
	assert.Equal(t, "9876543210", got.ContactNumber)
	assert.Equal(t, "Lakshmi", got.ParentDetails.MotherName)
	assert.Empty(t, got.ParentDetails.FatherName)

	stored, err := env.repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Vijayawada", stored.Location)
}

func TestReplaceMissing(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut,
		"/students/7d6f3b3e-0c55-4d3f-8d5e-8f0d2a7d9b11", "manager", validRequest("R-1"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDelete(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	created := env.create(t, validRequest("R-1"))

	rec := env.do(t, http.MethodDelete, "/students/"+created.ID, "admin", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Student deleted successfully", decode[core.MessageResponse](t, rec).Message)

	rec = env.do(t, http.MethodDelete, "/students/"+created.ID, "admin", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	env.create(t, validRequest("R-1"))
}

func TestListFiltersAndPagination(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	step := 0
	env.svc.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Hour)
	}

	for i := 1; i <= 12; i++ {
		req := validRequest(fmt.Sprintf("R-%02d", i))
		if i%2 == 0 {
			req.Section = "B"
			req.AccommodationType = AccommodationHosteller
			yes := true
			req.TransportNeeded = &yes
		}
		if i == 5 {
			req.FirstName = "Meena"
		}
		env.create(t, req)
	}

	rec := env.do(t, http.MethodGet, "/students?limit=5&page=1", "manager", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[ListResponse](t, rec)
	assert.Equal(t, core.Pagination{Page: 1, Limit: 5, Total: 12, Pages: 3}, page.Pagination)
	require.Len(t, page.Data, 5)
	assert.Equal(t, "R-12", page.Data[0].RollNumber)

	rec = env.do(t, http.MethodGet, "/students?limit=5&page=4", "manager", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	beyond := decode[ListResponse](t, rec)
	assert.Empty(t, beyond.Data)
	assert.Equal(t, 3, beyond.Pagination.Pages)

	rec = env.do(t, http.MethodGet,
		"/students?section=B&transportNeeded=true&accommodationType=Hosteller", "manager", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 6, decode[ListResponse](t, rec).Pagination.Total)

	rec = env.do(t, http.MethodGet, "/students?transportNeeded=false", "manager", nil)
	assert.Equal(t, 6, decode[ListResponse](t, rec).Pagination.Total)

	rec = env.do(t, http.MethodGet, "/students?search=meen", "manager", nil)
	got := decode[ListResponse](t, rec)
	require.Len(t, got.Data, 1)
	assert.Equal(t, "R-05", got.Data[0].RollNumber)

	rec = env.do(t, http.MethodGet, "/students?search=r-1", "manager", nil)
	assert.Equal(t, 3, decode[ListResponse](t, rec).Pagination.Total)
}

func TestListValidation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	tests := []struct {
		query string
		field string
	}{
		{"page=abc", "page"},
		{"page=0", "page"},
		{"limit=101", "limit"},
		{"transportNeeded=yes", "transportNeeded"},
		{"accommodationType=Boarder", "accommodationType"},
	}

	for _, tt := range tests {
		rec := env.do(t, http.MethodGet, "/students?"+tt.query, "admin", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code, tt.query)

		body := decode[core.ErrorResponse](t, rec)
		assert.Equal(t, core.KindValidation, body.Error, tt.query)
		require.NotEmpty(t, body.Details, tt.query)
		assert.Equal(t, tt.field, body.Details[0].Field, tt.query)
	}
}
