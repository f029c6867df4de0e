package db

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/huellitas/vetclinic-api/models"
)

// SeedAdmin creates the bootstrap admin account when no admin exists.
// Credentials come from ADMIN_EMAIL / ADMIN_PASSWORD; without them the
// seed is skipped so a fresh deploy never ships a default password.
func SeedAdmin() {
	var count int64
	if err := DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		log.Printf("Seed: could not count admins: %v", err)
		return
	}
	if count > 0 {
		return
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("Seed: ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Seed: failed to hash admin password: %v", err)
		return
	}

	admin := models.User{
		Name:     "Administrador",
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("Seed: failed to create admin: %v", err)
		return
	}
	log.Printf("Seed: admin account %s created", email)
}
