package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/huellitas/vetclinic-api/db"
	"github.com/huellitas/vetclinic-api/models"
	"github.com/huellitas/vetclinic-api/utils"
)

// GetAllUsers lists every account for the admin user dashboard,
// optionally filtered by ?rol=.
func GetAllUsers(c *fiber.Ctx) error {
	query := db.DB.Order("created_at DESC")
	if role := c.Query("rol"); role != "" {
		query = query.Where("role = ?", role)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al obtener los usuarios",
			Error:   err.Error(),
		})
	}
	for i := range users {
		users[i].Password = ""
	}
	return c.JSON(users)
}

// GetUserByID returns a single account.
func GetUserByID(c *fiber.Ctx) error {
	id := c.Params("id")
	var user models.User
	if err := db.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Usuario no encontrado",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al obtener el usuario",
			Error:   err.Error(),
		})
	}
	user.Password = ""
	return c.JSON(user)
}

// UserUpdateInput is the admin edit request body. Nil leaves a field
// unchanged; role changes go through here, not through UpdateProfile.
type UserUpdateInput struct {
	Name    *string `json:"nombre"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"telefono"`
	Address *string `json:"direccion"`
	Role    *string `json:"rol" validate:"omitempty,oneof=cliente vendedor admin"`
}

// UpdateUser lets an admin edit any account, including its role.
func UpdateUser(c *fiber.Ctx) error {
	id := c.Params("id")
	var user models.User
	if err := db.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Usuario no encontrado",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al obtener el usuario",
			Error:   err.Error(),
		})
	}

	input := new(UserUpdateInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cuerpo de solicitud inválido",
			Error:   err.Error(),
		})
	}
	if input.Name == nil && input.Email == nil && input.Phone == nil &&
		input.Address == nil && input.Role == nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: utils.ErrNoFieldsToUpdate.Error(),
		})
	}
	if err := utils.ValidateStruct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: err.Error(),
		})
	}

	if input.Email != nil && *input.Email != user.Email {
		var count int64
		if err := db.DB.Model(&models.User{}).
			Where("email = ? AND id <> ?", *input.Email, user.ID).
			Count(&count).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Error al verificar el email",
				Error:   err.Error(),
			})
		}
		if count > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "El email ya está en uso por otro usuario",
			})
		}
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Address != nil {
		user.Address = *input.Address
	}
	if input.Role != nil {
		user.Role = *input.Role
	}

	if err := db.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al actualizar el usuario",
			Error:   err.Error(),
		})
	}

	user.Password = ""
	return c.JSON(fiber.Map{
		"message": "Usuario actualizado correctamente",
		"data":    user,
	})
}

// DeleteUser removes an account. Accounts with citas or mascotas keep
// their history and cannot be deleted; the last admin stays.
func DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	var user models.User
	if err := db.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Usuario no encontrado",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al verificar el usuario",
			Error:   err.Error(),
		})
	}

	var citas, mascotas int64
	if err := db.DB.Model(&models.Appointment{}).Where("client_id = ?", user.ID).Count(&citas).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al verificar registros asociados",
			Error:   err.Error(),
		})
	}
	if err := db.DB.Model(&models.Pet{}).Where("client_id = ?", user.ID).Count(&mascotas).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al verificar registros asociados",
			Error:   err.Error(),
		})
	}
	if citas > 0 || mascotas > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "No se puede eliminar el usuario porque tiene registros asociados (citas, mascotas)",
		})
	}

	if user.IsAdmin() {
		var admins int64
		if err := db.DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Error al verificar administradores",
				Error:   err.Error(),
			})
		}
		if admins <= 1 {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "No se puede eliminar el último administrador",
			})
		}
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Client{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al eliminar el usuario",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Usuario eliminado correctamente",
		"usuario": user.Name,
	})
}
