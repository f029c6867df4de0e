package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/huellitas/vetclinic-api/controllers"
	"github.com/huellitas/vetclinic-api/middleware"
)

// SetupAuthRoutes configures all authentication related routes
func SetupAuthRoutes(app *fiber.App) {
	auth := app.Group("/auth")

	// Public routes
	auth.Post("/register", controllers.Register)
	auth.Post("/login", controllers.Login)
	auth.Post("/refresh", controllers.RefreshToken)

	// Protected routes
	auth.Get("/me", middleware.Protected(), controllers.GetUserProfile)
	auth.Patch("/me", middleware.Protected(), controllers.UpdateProfile)
	auth.Post("/logout", middleware.Protected(), controllers.Logout)
}
