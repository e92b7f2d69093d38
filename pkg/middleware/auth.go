package middleware

import (
	"context"
	"errors"
	"strings"

	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/service"
	"maintenance-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// UserResolver loads the acting user named by a token.
type UserResolver interface {
	FindByID(ctx context.Context, id uint64) (*entities.User, error)
}

type AuthMiddleware struct {
	jwtService service.JWTService
	users      UserResolver
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, users UserResolver, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		users:      users,
		logger:     logger,
	}
}

// Auth resolves the bearer token to a user and stores it in the request context.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			m.logger.Debug("AuthMiddleware: empty Authorization header")
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Debug("AuthMiddleware: malformed Authorization header")
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		actor, err := m.Authenticate(c.Request().Context(), parts[1])
		if err != nil {
			return utils.ErrorResponse(c, err, m.logger)
		}

		c.SetRequest(c.Request().WithContext(utils.WithActor(c.Request().Context(), actor)))
		return next(c)
	}
}

// Authenticate validates an access token and loads its user.
func (m *AuthMiddleware) Authenticate(ctx context.Context, token string) (*entities.User, error) {
	claims, err := m.jwtService.ValidateToken(token)
	if err != nil {
		m.logger.Warn("AuthMiddleware: token validation failed", zap.Error(err))
		return nil, err
	}

	if claims.IsRefreshToken {
		m.logger.Warn("AuthMiddleware: refresh token used for access", zap.Uint64("userID", claims.UserID))
		return nil, apperrors.ErrTokenIsNotAccess
	}

	actor, err := m.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			m.logger.Warn("AuthMiddleware: token user no longer exists", zap.Uint64("userID", claims.UserID))
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	return actor, nil
}
