package controllers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/huellitas/vetclinic-api/db"
	"github.com/huellitas/vetclinic-api/models"
	"github.com/huellitas/vetclinic-api/utils"
)

// canManagePet reports whether the caller may edit the pet: its
// owning client, or staff.
func canManagePet(c *fiber.Ctx, pet *models.Pet) bool {
	role, _ := c.Locals("role").(string)
	if role == models.RoleAdmin || role == models.RoleVendor {
		return true
	}
	userID, ok := c.Locals("userID").(uint)
	return ok && pet.BelongsTo(userID)
}

// canViewClient reports whether the caller may read another client's
// records: the client themselves, or staff. Keeps one cliente from
// enumerating another's citas and mascotas.
func canViewClient(c *fiber.Ctx, clientID string) bool {
	role, _ := c.Locals("role").(string)
	if role == models.RoleAdmin || role == models.RoleVendor {
		return true
	}
	userID, ok := c.Locals("userID").(uint)
	return ok && strconv.FormatUint(uint64(userID), 10) == clientID
}

// GetAllPets returns every mascota with its owner, staff view.
func GetAllPets(c *fiber.Ctx) error {
	var pets []models.Pet
	if err := db.DB.Preload("Client").Order("created_at DESC").Find(&pets).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al obtener las mascotas",
			Error:   err.Error(),
		})
	}
	return c.JSON(pets)
}

// GetPet returns a single mascota by ID.
func GetPet(c *fiber.Ctx) error {
	id := c.Params("id")
	var pet models.Pet
	if err := db.DB.Preload("Client").First(&pet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Mascota no encontrada",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al obtener la mascota",
			Error:   err.Error(),
		})
	}
	return c.JSON(pet)
}

// GetPetsByClient lists one client's mascotas, newest first.
func GetPetsByClient(c *fiber.Ctx) error {
	clientID := c.Params("clienteId")
	if !canViewClient(c, clientID) {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "No puedes consultar mascotas de otros clientes",
		})
	}
	var pets []models.Pet
	if err := db.DB.
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&pets).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al obtener las mascotas del cliente",
			Error:   err.Error(),
		})
	}
	return c.JSON(pets)
}

// PetInput is the create/update request body for mascotas.
type PetInput struct {
	Name         string  `json:"nombre" validate:"required"`
	Species      string  `json:"especie" validate:"required"`
	Breed        string  `json:"raza"`
	Age          int     `json:"edad" validate:"gte=0"`
	Weight       float64 `json:"peso" validate:"gte=0"`
	Observations string  `json:"observaciones"`
	HealthStatus string  `json:"estado_salud"`
	ClientID     uint    `json:"cliente_id" validate:"required"`
}

// CreatePet registers a mascota under a client. Clients can only
// register pets for themselves.
func CreatePet(c *fiber.Ctx) error {
	input := new(PetInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cuerpo de solicitud inválido",
			Error:   err.Error(),
		})
	}
	if err := utils.ValidateStruct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: err.Error(),
		})
	}

	role, _ := c.Locals("role").(string)
	if role == models.RoleClient {
		userID, _ := c.Locals("userID").(uint)
		if input.ClientID != userID {
			return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
				Message: "Solo puedes registrar mascotas propias",
			})
		}
	}

	var count int64
	if err := db.DB.Model(&models.User{}).Where("id = ?", input.ClientID).Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al verificar el cliente",
			Error:   err.Error(),
		})
	}
	if count == 0 {
		notFound := &utils.NotFoundError{Kind: "cliente"}
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{Message: notFound.Error()})
	}

	pet := models.Pet{
		Name:         input.Name,
		Species:      input.Species,
		Breed:        input.Breed,
		Age:          input.Age,
		Weight:       input.Weight,
		Observations: input.Observations,
		HealthStatus: input.HealthStatus,
		ClientID:     input.ClientID,
	}
	if pet.HealthStatus == "" {
		pet.HealthStatus = "bueno"
	}

	if err := db.DB.Create(&pet).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al crear la mascota",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(pet)
}

// UpdatePet edits a mascota; owner or staff only.
func UpdatePet(c *fiber.Ctx) error {
	id := c.Params("id")
	var pet models.Pet
	if err := db.DB.First(&pet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Mascota no encontrada",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al obtener la mascota",
			Error:   err.Error(),
		})
	}

	if !canManagePet(c, &pet) {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "No puedes modificar mascotas de otros clientes",
		})
	}

	type PetUpdate struct {
		Name         *string  `json:"nombre"`
		Species      *string  `json:"especie"`
		Breed        *string  `json:"raza"`
		Age          *int     `json:"edad"`
		Weight       *float64 `json:"peso"`
		Observations *string  `json:"observaciones"`
		HealthStatus *string  `json:"estado_salud"`
	}
	update := new(PetUpdate)
	if err := c.BodyParser(update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cuerpo de solicitud inválido",
			Error:   err.Error(),
		})
	}

	if update.Name != nil {
		pet.Name = *update.Name
	}
	if update.Species != nil {
		pet.Species = *update.Species
	}
	if update.Breed != nil {
		pet.Breed = *update.Breed
	}
	if update.Age != nil {
		pet.Age = *update.Age
	}
	if update.Weight != nil {
		pet.Weight = *update.Weight
	}
	if update.Observations != nil {
		pet.Observations = *update.Observations
	}
	if update.HealthStatus != nil {
		pet.HealthStatus = *update.HealthStatus
	}

	if err := db.DB.Save(&pet).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al actualizar la mascota",
			Error:   err.Error(),
		})
	}
	return c.JSON(pet)
}

// DeletePet removes a mascota; owner or staff only.
func DeletePet(c *fiber.Ctx) error {
	id := c.Params("id")
	var pet models.Pet
	if err := db.DB.First(&pet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Mascota no encontrada",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al obtener la mascota",
			Error:   err.Error(),
		})
	}

	if !canManagePet(c, &pet) {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "No puedes eliminar mascotas de otros clientes",
		})
	}

	if err := db.DB.Delete(&pet).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al eliminar la mascota",
			Error:   err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadPetPicture stores the pet's photo in Cloudinary and saves the
// resulting URL.
func UploadPetPicture(c *fiber.Ctx) error {
	id := c.Params("id")
	var pet models.Pet
	if err := db.DB.First(&pet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Mascota no encontrada",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al obtener la mascota",
			Error:   err.Error(),
		})
	}

	if !canManagePet(c, &pet) {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "No puedes modificar mascotas de otros clientes",
		})
	}

	fileHeader, err := c.FormFile("imagen")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Archivo de imagen requerido",
			Error:   err.Error(),
		})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "No se pudo leer la imagen",
			Error:   err.Error(),
		})
	}
	defer file.Close()

	url, err := utils.UploadPetPicture(file, fmt.Sprintf("mascota-%d", pet.ID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al subir la imagen",
			Error:   err.Error(),
		})
	}

	pet.PictureURL = url
	if err := db.DB.Save(&pet).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al guardar la imagen",
			Error:   err.Error(),
		})
	}
	return c.JSON(pet)
}
