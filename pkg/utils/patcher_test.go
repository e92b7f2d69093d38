package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patchDTO struct {
	Patch        `json:"-"`
	Title        null.String `json:"title"`
	TechnicianID null.Uint64 `json:"technician_id"`
	Priority     null.String `json:"priority"`
}

func TestBindPatch(t *testing.T) {
	e := echo.New()
	body := `{"title":"Leak","technician_id":null}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	var dto patchDTO
	require.NoError(t, BindPatch(c, &dto))

	assert.Equal(t, "Leak", dto.Title.String)
	assert.True(t, dto.Sent(dto.Title.Valid, "title"))
	assert.False(t, dto.TechnicianID.Valid)
	assert.True(t, dto.Sent(dto.TechnicianID.Valid, "technician_id"))
	assert.False(t, dto.Sent(dto.Priority.Valid, "priority"))
	assert.False(t, dto.Has("priority"))
}

func TestBindPatch_InvalidJSON(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"title":`))
	c := e.NewContext(req, httptest.NewRecorder())

	var dto patchDTO
	assert.Error(t, BindPatch(c, &dto))
}

func TestDiffPtr(t *testing.T) {
	one, two := uint64(1), uint64(2)
	assert.False(t, DiffPtr[uint64](nil, nil))
	assert.True(t, DiffPtr(nil, &one))
	assert.True(t, DiffPtr(&one, &two))
	assert.False(t, DiffPtr(&one, ToPtr(uint64(1))))
}
