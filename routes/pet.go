package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/huellitas/vetclinic-api/controllers"
	"github.com/huellitas/vetclinic-api/middleware"
	"github.com/huellitas/vetclinic-api/models"
)

// SetupPetRoutes configures all mascota related routes
func SetupPetRoutes(app *fiber.App) {
	pet := app.Group("/mascotas", middleware.Protected())

	pet.Get("/", middleware.RequireAnyRole(models.RoleVendor, models.RoleAdmin), controllers.GetAllPets)
	pet.Get("/cliente/:clienteId", controllers.GetPetsByClient)
	pet.Get("/:id", controllers.GetPet)
	pet.Post("/", controllers.CreatePet)
	pet.Patch("/:id", controllers.UpdatePet)
	pet.Post("/:id/imagen", controllers.UploadPetPicture)
	pet.Delete("/:id", controllers.DeletePet)
}
