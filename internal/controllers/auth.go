package controllers

import (
	"net/http"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/services"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/service"
	"maintenance-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthController struct {
	authService services.AuthServiceInterface
	jwtSvc      service.JWTService
	logger      *zap.Logger
}

func NewAuthController(
	authService services.AuthServiceInterface,
	jwtSvc service.JWTService,
	logger *zap.Logger,
) *AuthController {
	return &AuthController{
		authService: authService,
		jwtSvc:      jwtSvc,
		logger:      logger,
	}
}

func (ctrl *AuthController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func (ctrl *AuthController) Register(c echo.Context) error {
	var payload dto.RegisterDTO
	if err := c.Bind(&payload); err != nil {
		return ctrl.errorResponse(c, badBody(err))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	user, err := ctrl.authService.Register(c.Request().Context(), payload)
	if err != nil {
		ctrl.logger.Warn("Register: rejected", zap.String("username", payload.Username), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, user, "User registered", http.StatusCreated)
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO
	if err := c.Bind(&payload); err != nil {
		return ctrl.errorResponse(c, badBody(err))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	user, err := ctrl.authService.Login(c.Request().Context(), payload)
	if err != nil {
		ctrl.logger.Info("Login: failed", zap.String("username", payload.Username), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}
	return ctrl.respondWithTokens(c, user, "Login successful")
}

// RefreshToken exchanges a refresh token for a fresh pair. The role is
// re-read from storage so a demotion takes effect on the next refresh.
func (ctrl *AuthController) RefreshToken(c echo.Context) error {
	var payload dto.RefreshTokenDTO
	if err := c.Bind(&payload); err != nil {
		return ctrl.errorResponse(c, badBody(err))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	claims, err := ctrl.jwtSvc.ValidateToken(payload.RefreshToken)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	if !claims.IsRefreshToken {
		return ctrl.errorResponse(c, apperrors.ErrTokenIsNotRefresh)
	}

	user, err := ctrl.authService.GetUserByID(c.Request().Context(), claims.UserID)
	if err != nil {
		return ctrl.errorResponse(c, apperrors.ErrUnauthorized)
	}
	return ctrl.respondWithTokens(c, user, "Tokens refreshed")
}

func (ctrl *AuthController) Me(c echo.Context) error {
	actor, err := utils.GetActorFromCtx(c.Request().Context())
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, actor, "Current user", http.StatusOK)
}

func (ctrl *AuthController) respondWithTokens(c echo.Context, user *entities.User, message string) error {
	accessToken, refreshToken, err := ctrl.jwtSvc.GenerateTokens(user.ID, user.Username, string(user.Role))
	if err != nil {
		ctrl.logger.Error("could not sign tokens", zap.Uint64("user_id", user.ID), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, dto.TokenResponseDTO{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int64(ctrl.jwtSvc.GetAccessTokenTTL().Seconds()),
	}, message, http.StatusOK)
}
