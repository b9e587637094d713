// AngelaMos | 2026
// response_test.go

package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestJSONErrorRendersAppError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	JSONError(rec, DuplicateError("User already exists", ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "User already exists", decodeError(t, rec).Error)
}

func TestJSONErrorWrappedAppError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	wrapped := errors.Join(errors.New("outer"), NotFoundError("Student"))
	JSONError(rec, wrapped)

	body := decodeError(t, rec)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, KindNotFound, body.Error)
	assert.Equal(t, "Student not found", body.Message)
}

func TestValidationErrorCarriesDetails(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	JSONError(rec, ValidationError([]FieldError{
		{Field: "page", Tag: "min", Message: "page must be at least 1"},
	}))

	body := decodeError(t, rec)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, KindValidation, body.Error)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "page", body.Details[0].Field)
}

func TestInternalServerErrorHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	InternalServerError(rec, errors.New("pq: connection refused"))

	body := decodeError(t, rec)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, KindInternal, body.Error)
	assert.Equal(t, "Something went wrong", body.Message)

	ExposeInternalErrors(true)
	t.Cleanup(func() { ExposeInternalErrors(false) })

	rec = httptest.NewRecorder()
	InternalServerError(rec, errors.New("pq: connection refused"))
	assert.Equal(t, "pq: connection refused", decodeError(t, rec).Message)
}

func TestUnauthorizedDefaultMessage(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	Unauthorized(rec, "")

	body := decodeError(t, rec)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, KindUnauthorized, body.Error)
	assert.Equal(t, "authentication required", body.Message)
}

func TestAppErrorUnwrap(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, TokenExpiredError(), ErrTokenExpired)
	assert.ErrorIs(t, DuplicateError("x", "y"), ErrDuplicateKey)
	assert.True(t, IsAppError(ForbiddenError("nope")))
	assert.False(t, IsAppError(ErrNotFound))
}
