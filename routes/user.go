package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/huellitas/vetclinic-api/controllers"
	"github.com/huellitas/vetclinic-api/middleware"
	"github.com/huellitas/vetclinic-api/models"
)

// SetupUserRoutes configures the admin user management routes.
func SetupUserRoutes(app *fiber.App) {
	user := app.Group("/usuarios", middleware.Protected(), middleware.RequireRole(models.RoleAdmin))

	user.Get("/", controllers.GetAllUsers)
	user.Get("/:id", controllers.GetUserByID)
	user.Patch("/:id", controllers.UpdateUser)
	user.Delete("/:id", controllers.DeleteUser)
}
