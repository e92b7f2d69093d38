package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestTimeout(t *testing.T) {
	e := echo.New()

	t.Run("sets a deadline", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		var hasDeadline bool
		err := RequestTimeout(time.Second)(func(c echo.Context) error {
			_, hasDeadline = c.Request().Context().Deadline()
			return nil
		})(c)
		require.NoError(t, err)
		assert.True(t, hasDeadline)
	})

	t.Run("zero disables", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		var hasDeadline bool
		err := RequestTimeout(0)(func(c echo.Context) error {
			_, hasDeadline = c.Request().Context().Deadline()
			return nil
		})(c)
		require.NoError(t, err)
		assert.False(t, hasDeadline)
	})
}
