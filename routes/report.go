package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/huellitas/vetclinic-api/controllers"
	"github.com/huellitas/vetclinic-api/middleware"
	"github.com/huellitas/vetclinic-api/models"
)

// SetupReportRoutes configures the admin reporting routes
func SetupReportRoutes(app *fiber.App) {
	report := app.Group("/reportes", middleware.Protected(), middleware.RequireRole(models.RoleAdmin))

	report.Get("/resumen", controllers.GetSummaryReport)
	report.Get("/servicios-top", controllers.GetTopServices)
	report.Get("/sucursales-top", controllers.GetTopBranches)
	report.Get("/mensual", controllers.GetMonthlyReport)
}
