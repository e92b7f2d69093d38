package routes

import (
	"github.com/labstack/echo/v4"

	"maintenance-system/internal/controllers"
)

func runTeamRouter(secureGroup *echo.Group, ctrl *controllers.TeamController) {
	secureGroup.GET("/teams", ctrl.GetTeams)
	secureGroup.GET("/teams/:id", ctrl.FindTeam)
	secureGroup.POST("/teams", ctrl.CreateTeam)
}

func runCategoryRouter(secureGroup *echo.Group, ctrl *controllers.CategoryController) {
	secureGroup.GET("/categories", ctrl.GetCategories)
	secureGroup.GET("/categories/:id", ctrl.FindCategory)
	secureGroup.POST("/categories", ctrl.CreateCategory)
}
