package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/huellitas/vetclinic-api/controllers"
	"github.com/huellitas/vetclinic-api/middleware"
	"github.com/huellitas/vetclinic-api/models"
)

// SetupAppointmentRoutes configures all cita related routes
func SetupAppointmentRoutes(app *fiber.App) {
	appointment := app.Group("/citas", middleware.Protected())

	appointment.Get("/", middleware.RequireAnyRole(models.RoleVendor, models.RoleAdmin), controllers.GetAllAppointments)
	appointment.Get("/fecha/:fecha", middleware.RequireAnyRole(models.RoleVendor, models.RoleAdmin), controllers.GetAppointmentsByDate)
	appointment.Get("/cliente/:clienteId", controllers.GetAppointmentsByClient)
	appointment.Get("/cliente/:clienteId/estadisticas", controllers.GetClientAppointmentStats)
	appointment.Get("/:id", controllers.GetAppointment)
	appointment.Post("/", controllers.CreateAppointment)
	appointment.Patch("/:id", controllers.UpdateAppointment)
	appointment.Delete("/:id", controllers.DeleteAppointment)
}
