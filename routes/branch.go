package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/huellitas/vetclinic-api/controllers"
	"github.com/huellitas/vetclinic-api/middleware"
	"github.com/huellitas/vetclinic-api/models"
)

// SetupBranchRoutes configures sucursal and schedule routes
func SetupBranchRoutes(app *fiber.App) {
	branch := app.Group("/sucursales")

	// Booking screens read branches and schedules without a session.
	branch.Get("/", controllers.GetAllBranches)
	branch.Get("/:id", controllers.GetBranch)
	branch.Get("/:id/horarios", controllers.GetBranchHours)

	admin := branch.Group("", middleware.Protected(), middleware.RequireRole(models.RoleAdmin))
	admin.Post("/", controllers.CreateBranch)
	admin.Put("/:id", controllers.UpdateBranch)
	admin.Delete("/:id", controllers.DeleteBranch)
	admin.Put("/:id/horarios", controllers.UpdateBranchHours)
	admin.Post("/:id/horarios-especiales", controllers.CreateSpecialHours)
	admin.Delete("/:id/horarios-especiales/:specialId", controllers.DeleteSpecialHours)
	admin.Post("/:id/dias-no-laborables", controllers.CreateNonWorkingDay)
	admin.Delete("/:id/dias-no-laborables/:dayId", controllers.DeleteNonWorkingDay)
}
