package db

import (
	"fmt"
	"log"

	"github.com/huellitas/vetclinic-api/models"
)

func Migrate() {
	// Initialize DB connection
	Init()

	// Run AutoMigrate only when explicitly called
	err := DB.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Pet{},
		&models.Service{},
		&models.Department{},
		&models.Municipality{},
		&models.Branch{},
		&models.BranchHours{},
		&models.SpecialHours{},
		&models.NonWorkingDay{},
		&models.Appointment{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	fmt.Println("✅ Migrations applied successfully!")
}
