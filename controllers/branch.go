package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/huellitas/vetclinic-api/db"
	"github.com/huellitas/vetclinic-api/models"
	"github.com/huellitas/vetclinic-api/utils"
)

// GetAllBranches lists sucursales, optionally filtered by
// municipio_id or departamento_id query parameters.
func GetAllBranches(c *fiber.Ctx) error {
	query := db.DB.Preload("Municipality.Department")

	if municipalityID := c.Query("municipio_id"); municipalityID != "" {
		query = query.Where("municipality_id = ?", municipalityID)
	} else if departmentID := c.Query("departamento_id"); departmentID != "" {
		query = query.
			Joins("JOIN municipalities ON municipalities.id = branches.municipality_id").
			Where("municipalities.department_id = ?", departmentID)
	}

	var branches []models.Branch
	if err := query.Order("branches.name ASC").Find(&branches).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al obtener las sucursales",
			Error:   err.Error(),
		})
	}
	return c.JSON(branches)
}

// GetBranch returns one sucursal with its full schedule.
func GetBranch(c *fiber.Ctx) error {
	id := c.Params("id")
	var branch models.Branch
	if err := db.DB.
		Preload("Municipality.Department").
		Preload("Hours").
		Preload("SpecialHours").
		Preload("NonWorkingDays").
		First(&branch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Sucursal no encontrada",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al obtener la sucursal",
			Error:   err.Error(),
		})
	}
	return c.JSON(branch)
}

// BranchInput is the create/update request body for sucursales.
type BranchInput struct {
	Name           string `json:"nombre" validate:"required"`
	Address        string `json:"direccion" validate:"required"`
	Phone          string `json:"telefono"`
	MunicipalityID uint   `json:"municipio_id" validate:"required"`
}

// CreateBranch registers a sucursal and seeds its default weekly
// schedule in the same transaction.
func CreateBranch(c *fiber.Ctx) error {
	input := new(BranchInput)
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

	branch := models.Branch{
		Name:           input.Name,
		Address:        input.Address,
		Phone:          input.Phone,
		MunicipalityID: input.MunicipalityID,
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&branch).Error; err != nil {
			return err
		}
		return createDefaultHours(tx, branch.ID)
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al crear la sucursal",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(branch)
}

// createDefaultHours seeds the weekly schedule: weekdays 08:00-17:00,
// Saturday mornings, closed Sundays.
func createDefaultHours(tx *gorm.DB, branchID uint) error {
	for day := models.Sunday; day <= models.Saturday; day++ {
		hours := models.BranchHours{
			BranchID:  branchID,
			DayOfWeek: day,
			StartTime: "08:00",
			EndTime:   "17:00",
			Active:    true,
		}
		switch day {
		case models.Sunday:
			hours.Active = false
		case models.Saturday:
			hours.EndTime = "12:00"
		}
		if err := tx.Create(&hours).Error; err != nil {
			return err
		}
	}
	return nil
}

// UpdateBranch edits a sucursal's contact data.
func UpdateBranch(c *fiber.Ctx) error {
	id := c.Params("id")
	var branch models.Branch
	if err := db.DB.First(&branch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Sucursal no encontrada",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al obtener la sucursal",
			Error:   err.Error(),
		})
	}

	input := new(BranchInput)
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

	branch.Name = input.Name
	branch.Address = input.Address
	branch.Phone = input.Phone
	branch.MunicipalityID = input.MunicipalityID

	if err := db.DB.Save(&branch).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al actualizar la sucursal",
			Error:   err.Error(),
		})
	}
	return c.JSON(branch)
}

// DeleteBranch removes a sucursal and its schedule rows.
func DeleteBranch(c *fiber.Ctx) error {
	id := c.Params("id")
	var branch models.Branch
	if err := db.DB.First(&branch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Sucursal no encontrada",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al obtener la sucursal",
			Error:   err.Error(),
		})
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("branch_id = ?", branch.ID).Delete(&models.BranchHours{}).Error; err != nil {
			return err
		}
		if err := tx.Where("branch_id = ?", branch.ID).Delete(&models.SpecialHours{}).Error; err != nil {
			return err
		}
		if err := tx.Where("branch_id = ?", branch.ID).Delete(&models.NonWorkingDay{}).Error; err != nil {
			return err
		}
		return tx.Delete(&branch).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al eliminar la sucursal",
			Error:   err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetBranchHours returns a sucursal's weekly schedule ordered by
// weekday.
func GetBranchHours(c *fiber.Ctx) error {
	id := c.Params("id")
	var hours []models.BranchHours
	if err := db.DB.
		Where("branch_id = ?", id).
		Order("day_of_week ASC").
		Find(&hours).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al obtener los horarios",
			Error:   err.Error(),
		})
	}
	return c.JSON(hours)
}

// BranchHoursInput is one weekly row in a bulk schedule update.
type BranchHoursInput struct {
	DayOfWeek models.DayOfWeek `json:"dia_semana" validate:"gte=0,lte=6"`
	StartTime string           `json:"hora_inicio" validate:"required"`
	EndTime   string           `json:"hora_fin" validate:"required"`
	Active    bool             `json:"activo"`
}

// UpdateBranchHours replaces a sucursal's weekly schedule as a batch.
// The rows are swapped inside one transaction so a failed edit never
// leaves the branch half-scheduled.
func UpdateBranchHours(c *fiber.Ctx) error {
	id := c.Params("id")
	var branch models.Branch
	if err := db.DB.First(&branch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Sucursal no encontrada",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al obtener la sucursal",
			Error:   err.Error(),
		})
	}

	var inputs []BranchHoursInput
	if err := c.BodyParser(&inputs); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cuerpo de solicitud inválido",
			Error:   err.Error(),
		})
	}
	for _, input := range inputs {
		if err := utils.ValidateStruct(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: err.Error(),
			})
		}
		if err := utils.ValidateTime(input.StartTime); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: err.Error()})
		}
		if err := utils.ValidateTime(input.EndTime); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: err.Error()})
		}
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("branch_id = ?", branch.ID).Delete(&models.BranchHours{}).Error; err != nil {
			return err
		}
		for _, input := range inputs {
			hours := models.BranchHours{
				BranchID:  branch.ID,
				DayOfWeek: input.DayOfWeek,
				StartTime: input.StartTime,
				EndTime:   input.EndTime,
				Active:    input.Active,
			}
			if err := tx.Create(&hours).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al actualizar los horarios",
			Error:   err.Error(),
		})
	}

	return GetBranchHours(c)
}

// SpecialHoursInput overrides the schedule for one date.
type SpecialHoursInput struct {
	Date      string `json:"fecha" validate:"required"`
	StartTime string `json:"hora_inicio" validate:"required"`
	EndTime   string `json:"hora_fin" validate:"required"`
	Reason    string `json:"motivo"`
}

// CreateSpecialHours adds a per-date schedule override for a branch.
func CreateSpecialHours(c *fiber.Ctx) error {
	id := c.Params("id")
	var branch models.Branch
	if err := db.DB.First(&branch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Sucursal no encontrada",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al obtener la sucursal",
			Error:   err.Error(),
		})
	}

	input := new(SpecialHoursInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cuerpo de solicitud inválido",
			Error:   err.Error(),
		})
	}
	if err := utils.ValidateStruct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: err.Error()})
	}
	if err := utils.ValidateDate(input.Date); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: err.Error()})
	}
	if err := utils.ValidateTime(input.StartTime); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: err.Error()})
	}
	if err := utils.ValidateTime(input.EndTime); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: err.Error()})
	}

	special := models.SpecialHours{
		BranchID:  branch.ID,
		Date:      input.Date,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Reason:    input.Reason,
	}
	if err := db.DB.Create(&special).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al crear el horario especial",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(special)
}

// DeleteSpecialHours removes a per-date override.
func DeleteSpecialHours(c *fiber.Ctx) error {
	specialID := c.Params("specialId")
	result := db.DB.Delete(&models.SpecialHours{}, specialID)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al eliminar el horario especial",
			Error:   result.Error.Error(),
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Horario especial no encontrado",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// NonWorkingDayInput marks one closed date.
type NonWorkingDayInput struct {
	Date   string `json:"fecha" validate:"required"`
	Reason string `json:"motivo"`
}

// CreateNonWorkingDay marks a date the branch stays closed.
func CreateNonWorkingDay(c *fiber.Ctx) error {
	id := c.Params("id")
	var branch models.Branch
	if err := db.DB.First(&branch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Sucursal no encontrada",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al obtener la sucursal",
			Error:   err.Error(),
		})
	}

	input := new(NonWorkingDayInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cuerpo de solicitud inválido",
			Error:   err.Error(),
		})
	}
	if err := utils.ValidateStruct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: err.Error()})
	}
	if err := utils.ValidateDate(input.Date); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: err.Error()})
	}

	day := models.NonWorkingDay{
		BranchID: branch.ID,
		Date:     input.Date,
		Reason:   input.Reason,
	}
	if err := db.DB.Create(&day).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al crear el día no laborable",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(day)
}

// DeleteNonWorkingDay reopens a previously closed date.
func DeleteNonWorkingDay(c *fiber.Ctx) error {
	dayID := c.Params("dayId")
	result := db.DB.Delete(&models.NonWorkingDay{}, dayID)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al eliminar el día no laborable",
			Error:   result.Error.Error(),
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Día no laborable no encontrado",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
