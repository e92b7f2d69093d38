package routes

import (
	"github.com/labstack/echo/v4"

	"maintenance-system/internal/controllers"
)

func runEquipmentRouter(secureGroup *echo.Group, ctrl *controllers.EquipmentController) {
	secureGroup.GET("/equipment", ctrl.GetEquipments)
	secureGroup.GET("/equipment/:id", ctrl.FindEquipment)
	secureGroup.GET("/equipment/:id/requests", ctrl.GetEquipmentRequests)
	secureGroup.POST("/equipment", ctrl.CreateEquipment)
	secureGroup.PUT("/equipment/:id", ctrl.UpdateEquipment)
	secureGroup.DELETE("/equipment/:id", ctrl.DeleteEquipment)
}

func runWorkCenterRouter(secureGroup *echo.Group, ctrl *controllers.WorkCenterController) {
	secureGroup.GET("/work-centers", ctrl.GetWorkCenters)
	secureGroup.GET("/work-centers/:id", ctrl.FindWorkCenter)
	secureGroup.POST("/work-centers", ctrl.CreateWorkCenter)
	secureGroup.PUT("/work-centers/:id", ctrl.UpdateWorkCenter)
	secureGroup.DELETE("/work-centers/:id", ctrl.DeleteWorkCenter)
}
