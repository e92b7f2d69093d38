package routes

import (
	"github.com/labstack/echo/v4"

	"maintenance-system/internal/controllers"
)

func runReportRouter(secureGroup *echo.Group, ctrl *controllers.ReportController) {
	secureGroup.GET("/reports/stats", ctrl.GetStats)
	secureGroup.GET("/reports/requests/export", ctrl.ExportRequests)
}
