package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"maintenance-system/internal/controllers"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/middleware"
	"maintenance-system/pkg/service"
)

func runAuthRouter(
	api *echo.Group,
	authService services.AuthServiceInterface,
	jwtSvc service.JWTService,
	authMW *middleware.AuthMiddleware,
	loginLimiter *middleware.IPRateLimiter,
	logger *zap.Logger,
) {
	authCtrl := controllers.NewAuthController(authService, jwtSvc, logger)

	auth := api.Group("/auth")
	auth.POST("/register", authCtrl.Register)
	auth.POST("/login", authCtrl.Login, middleware.RateLimit(loginLimiter, logger))
	auth.POST("/refresh", authCtrl.RefreshToken)
	auth.GET("/me", authCtrl.Me, authMW.Auth)
}
