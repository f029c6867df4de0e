package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/huellitas/vetclinic-api/cron"
	"github.com/huellitas/vetclinic-api/db"
	"github.com/huellitas/vetclinic-api/redis"
	"github.com/huellitas/vetclinic-api/routes"
)

func main() {
	app := fiber.New()

	db.Migrate()
	db.SeedAdmin()
	redis.InitRedis()
	cron.StartCronJobs()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Clínica Veterinaria Huellitas API")
	})

	routes.SetupAuthRoutes(app)
	routes.SetupUserRoutes(app)
	routes.SetupAppointmentRoutes(app)
	routes.SetupPetRoutes(app)
	routes.SetupServiceRoutes(app)
	routes.SetupBranchRoutes(app)
	routes.SetupReportRoutes(app)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	log.Fatal(app.Listen(":" + port))
}
