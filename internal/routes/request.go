package routes

import (
	"github.com/labstack/echo/v4"

	"maintenance-system/internal/controllers"
)

func runRequestRouter(secureGroup *echo.Group, ctrl *controllers.MaintenanceRequestController) {
	secureGroup.GET("/requests", ctrl.GetRequests)
	secureGroup.GET("/requests/calendar", ctrl.GetCalendar)
	secureGroup.POST("/requests", ctrl.CreateRequest)
	secureGroup.GET("/requests/:id", ctrl.FindRequest)
	secureGroup.PUT("/requests/:id", ctrl.UpdateRequest)
	secureGroup.DELETE("/requests/:id", ctrl.DeleteRequest)
}
