package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"maintenance-system/internal/entities"
	"maintenance-system/pkg/config"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/service"
	"maintenance-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mapUsers map[uint64]*entities.User

func (m mapUsers) FindByID(_ context.Context, id uint64) (*entities.User, error) {
	if u, ok := m[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrNotFound
}

func TestAuthMiddleware(t *testing.T) {
	jwtSvc := service.NewJWTService(config.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
	}, zap.NewNop())
	users := mapUsers{1: {ID: 1, Username: "tech", Role: entities.RoleTechnician}}
	authMW := NewAuthMiddleware(jwtSvc, users, zap.NewNop())

	access, refresh, err := jwtSvc.GenerateTokens(1, "tech", string(entities.RoleTechnician))
	require.NoError(t, err)
	ghostAccess, _, err := jwtSvc.GenerateTokens(99, "ghost", string(entities.RoleEmployee))
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + access, http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"refresh token", "Bearer " + refresh, http.StatusUnauthorized},
		{"deleted user", "Bearer " + ghostAccess, http.StatusUnauthorized},
		{"valid", "Bearer " + access, http.StatusOK},
	}

	e := echo.New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var actor *entities.User
			err := authMW.Auth(func(c echo.Context) error {
				actor, _ = utils.GetActorFromCtx(c.Request().Context())
				return c.NoContent(http.StatusOK)
			})(c)
			require.NoError(t, err)

			assert.Equal(t, tc.code, rec.Code)
			if tc.code == http.StatusOK {
				require.NotNil(t, actor)
				assert.Equal(t, uint64(1), actor.ID)
			} else {
				assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}
