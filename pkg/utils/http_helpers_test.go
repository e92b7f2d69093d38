package utils

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	apperrors "maintenance-system/pkg/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestParseFilterFromQuery(t *testing.T) {
	values, err := url.ParseQuery("search=pump&sort[created_at]=desc&sort[id]=sideways&filter[stage]=NEW&stage=IN_PROGRESS&equipment_id=3&limit=10&page=2&start_date=2024-01-01")
	assert.NoError(t, err)

	f := ParseFilterFromQuery(values)
	assert.Equal(t, "pump", f.Search)
	assert.Equal(t, map[string]string{"created_at": "desc"}, f.Sort)
	assert.Equal(t, 10, f.Limit)
	assert.Equal(t, 2, f.Page)
	assert.Equal(t, 10, f.Offset)
	assert.True(t, f.WithPagination)
	assert.Equal(t, "3", f.Filter["equipment_id"])
	assert.NotContains(t, f.Filter, "start_date")
	assert.Contains(t, []string{"NEW,IN_PROGRESS", "IN_PROGRESS,NEW"}, f.Filter["stage"])
}

func TestParseFilterFromQuery_Limits(t *testing.T) {
	f := ParseFilterFromQuery(url.Values{"limit": {"100000"}})
	assert.Equal(t, MaxLimit, f.Limit)

	f = ParseFilterFromQuery(url.Values{"limit": {"-1"}, "withPagination": {"false"}})
	assert.Equal(t, DefaultLimit, f.Limit)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 0, f.Offset)
	assert.False(t, f.WithPagination)
}

func TestStatusForError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{apperrors.NewValidationError("bad"), http.StatusBadRequest},
		{apperrors.NewAssignmentError("wrong team"), http.StatusBadRequest},
		{fmt.Errorf("equipment: %w", apperrors.ErrInvalidReference), http.StatusBadRequest},
		{fmt.Errorf("find: %w", apperrors.ErrNotFound), http.StatusNotFound},
		{apperrors.ErrConflict, http.StatusConflict},
		{apperrors.ErrForbidden, http.StatusForbidden},
		{apperrors.ErrAccountLocked, http.StatusTooManyRequests},
		{apperrors.ErrTokenExpired, http.StatusUnauthorized},
		{apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, StatusForError(tc.err), tc.err.Error())
	}
}

func TestErrorResponse(t *testing.T) {
	e := echo.New()

	t.Run("unauthorized sets challenge", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		assert.NoError(t, ErrorResponse(c, apperrors.ErrInvalidToken, zap.NewNop()))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("internal errors are masked", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		assert.NoError(t, ErrorResponse(c, fmt.Errorf("pq: connection refused"), zap.NewNop()))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})
}
