package routes

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"maintenance-system/internal/controllers"
	"maintenance-system/internal/repositories"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/config"
	"maintenance-system/pkg/middleware"
	"maintenance-system/pkg/service"
	"maintenance-system/pkg/utils"
	"maintenance-system/pkg/websocket"
)

type Loggers struct {
	Main    *zap.Logger
	Auth    *zap.Logger
	Request *zap.Logger
	User    *zap.Logger
}

// Services is everything the HTTP layer calls into.
type Services struct {
	Auth       services.AuthServiceInterface
	User       services.UserServiceInterface
	Team       services.TeamServiceInterface
	Category   services.CategoryServiceInterface
	Equipment  services.EquipmentServiceInterface
	WorkCenter services.WorkCenterServiceInterface
	Request    services.MaintenanceRequestServiceInterface
	Report     services.ReportServiceInterface
	// Users resolves token subjects for the auth middleware.
	Users middleware.UserResolver
}

// BuildServices wires the repositories over the pool and the services over them.
func BuildServices(
	dbConn *pgxpool.Pool,
	cacheRepo repositories.CacheRepositoryInterface,
	bus services.EventPublisher,
	cfg *config.Config,
	loggers *Loggers,
) *Services {
	txManager := repositories.NewTxManager(dbConn)

	userRepo := repositories.NewUserRepository(dbConn, loggers.User)
	teamRepo := repositories.NewTeamRepository(dbConn, loggers.Main)
	categoryRepo := repositories.NewCategoryRepository(dbConn, loggers.Main)
	equipmentRepo := repositories.NewEquipmentRepository(dbConn, loggers.Main)
	workCenterRepo := repositories.NewWorkCenterRepository(dbConn, loggers.Main)
	requestRepo := repositories.NewMaintenanceRequestRepository(dbConn, loggers.Request)

	return &Services{
		Auth:       services.NewAuthService(userRepo, cacheRepo, loggers.Auth, cfg.Auth),
		User:       services.NewUserService(userRepo, bus, loggers.User),
		Team:       services.NewTeamService(teamRepo, loggers.Main),
		Category:   services.NewCategoryService(categoryRepo, loggers.Main),
		Equipment:  services.NewEquipmentService(equipmentRepo, bus, loggers.Main),
		WorkCenter: services.NewWorkCenterService(workCenterRepo, loggers.Main),
		Request: services.NewMaintenanceRequestService(
			txManager, requestRepo, equipmentRepo, workCenterRepo, userRepo, bus, nil, loggers.Request,
		),
		Report: services.NewReportService(equipmentRepo, requestRepo, userRepo, cacheRepo, cfg.Auth, cfg.Cache, loggers.Main),
		Users:  userRepo,
	}
}

func InitRouter(e *echo.Echo, svc *Services, jwtSvc service.JWTService, hub *websocket.Hub, cfg *config.Config, loggers *Loggers) {
	loggers.Main.Info("InitRouter: registering routes")

	e.GET("/health", func(c echo.Context) error {
		return utils.SuccessResponse(c, map[string]string{"status": "ok"}, "OK", http.StatusOK)
	})

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, svc.Users, loggers.Auth)
	loginLimiter := middleware.NewIPRateLimiter(rate.Limit(cfg.Auth.LoginRateLimit), cfg.Auth.LoginBurst)

	runAuthRouter(api, svc.Auth, jwtSvc, authMW, loginLimiter, loggers.Auth)

	secureGroup := api.Group("", authMW.Auth)
	runUserRouter(secureGroup, controllers.NewUserController(svc.User, loggers.User))
	runTeamRouter(secureGroup, controllers.NewTeamController(svc.Team, loggers.Main))
	runCategoryRouter(secureGroup, controllers.NewCategoryController(svc.Category, loggers.Main))
	runEquipmentRouter(secureGroup, controllers.NewEquipmentController(svc.Equipment, svc.Request, loggers.Main))
	runWorkCenterRouter(secureGroup, controllers.NewWorkCenterController(svc.WorkCenter, loggers.Main))
	runRequestRouter(secureGroup, controllers.NewMaintenanceRequestController(svc.Request, loggers.Request))
	runReportRouter(secureGroup, controllers.NewReportController(svc.Report, loggers.Main))

	// The feed authenticates from the query string, so it sits outside the secure group.
	wsController := controllers.NewWebSocketController(hub, authMW, loggers.Main)
	api.GET("/ws", wsController.ServeWs)

	loggers.Main.Info("InitRouter: routes registered")
}
