package controllers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/huellitas/vetclinic-api/db"
	"github.com/huellitas/vetclinic-api/models"
	"github.com/huellitas/vetclinic-api/utils"
)

// CreateAppointmentInput is the create-cita request body.
type CreateAppointmentInput struct {
	ClientID     uint                     `json:"cliente_id"`
	PetID        uint                     `json:"mascota_id"`
	ServiceID    uint                     `json:"servicio_id"`
	BranchID     uint                     `json:"sucursal_id"`
	Date         string                   `json:"fecha"`
	Time         string                   `json:"hora"`
	Status       models.AppointmentStatus `json:"estado"`
	Motive       string                   `json:"motivo"`
	Observations string                   `json:"observaciones"`
}

// statusFor maps the validation taxonomy onto HTTP statuses:
// 400 validation, 404 missing references, 409 slot conflicts.
func statusFor(err error) int {
	var missing *utils.MissingFieldsError
	var notFound *utils.NotFoundError
	switch {
	case errors.As(err, &notFound):
		return fiber.StatusNotFound
	case errors.Is(err, utils.ErrSlotUnavailable):
		return fiber.StatusConflict
	case errors.As(err, &missing),
		errors.Is(err, utils.ErrInvalidDateFormat),
		errors.Is(err, utils.ErrInvalidTimeFormat),
		errors.Is(err, utils.ErrPastDate),
		errors.Is(err, utils.ErrPetNotOwned),
		errors.Is(err, utils.ErrNoFieldsToUpdate),
		errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrCompletedNeedsOverride),
		errors.Is(err, models.ErrConfirmedOnlyCancel),
		errors.Is(err, models.ErrCanceledIsTerminal):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

// preloaded returns the base query with every display join the
// dashboards render next to a cita.
func preloaded(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Pet").
		Preload("Service").
		Preload("Branch.Municipality.Department").
		Preload("Client")
}

// GetAllAppointments returns every cita with its display data,
// newest first.
func GetAllAppointments(c *fiber.Ctx) error {
	var appointments []models.Appointment
	if err := preloaded(db.DB).Order("date DESC, time DESC").Find(&appointments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al obtener las citas",
			Error:   err.Error(),
		})
	}
	return c.JSON(appointments)
}

// GetAppointment returns a single cita by ID.
func GetAppointment(c *fiber.Ctx) error {
	id := c.Params("id")
	var appointment models.Appointment
	if err := preloaded(db.DB).First(&appointment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Cita no encontrada",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al obtener la cita",
			Error:   err.Error(),
		})
	}
	return c.JSON(appointment)
}

// GetAppointmentsByClient returns the citas of one client, newest
// first.
func GetAppointmentsByClient(c *fiber.Ctx) error {
	clientID := c.Params("clienteId")
	if !canViewClient(c, clientID) {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "No puedes consultar citas de otros clientes",
		})
	}
	var appointments []models.Appointment
	if err := preloaded(db.DB).
		Where("client_id = ?", clientID).
		Order("date DESC, time DESC").
		Find(&appointments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al obtener las citas del cliente",
			Error:   err.Error(),
		})
	}
	return c.JSON(appointments)
}

// GetAppointmentsByDate returns the citas of one calendar day ordered
// by time, for the branch day views.
func GetAppointmentsByDate(c *fiber.Ctx) error {
	date := c.Params("fecha")
	if err := utils.ValidateDate(date); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: err.Error(),
		})
	}

	var appointments []models.Appointment
	if err := preloaded(db.DB).
		Where("date = ?", date).
		Order("time ASC").
		Find(&appointments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al obtener citas por fecha",
			Error:   err.Error(),
		})
	}
	return c.JSON(appointments)
}

// validateCreate runs the relational checks in their fixed order,
// first failure wins: pet ownership, service existence, branch
// existence, slot availability. Nothing is written here.
func validateCreate(input *CreateAppointmentInput) error {
	var count int64
	if err := db.DB.Model(&models.Pet{}).
		Where("id = ? AND client_id = ?", input.PetID, input.ClientID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return utils.ErrPetNotOwned
	}

	if err := db.DB.Model(&models.Service{}).Where("id = ?", input.ServiceID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return &utils.NotFoundError{Kind: "servicio"}
	}

	if err := db.DB.Model(&models.Branch{}).Where("id = ?", input.BranchID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return &utils.NotFoundError{Kind: "sucursal"}
	}

	available, err := utils.CheckSlotAvailability(db.DB, input.Date, input.Time, input.BranchID)
	if err != nil {
		return err
	}
	if !available {
		return utils.ErrSlotUnavailable
	}
	return nil
}

// CreateAppointment validates and books a new cita. The availability
// check is repeated inside the insert transaction so two concurrent
// requests cannot both take the slot.
func CreateAppointment(c *fiber.Ctx) error {
	input := new(CreateAppointmentInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cuerpo de solicitud inválido",
			Error:   err.Error(),
		})
	}

	var missing []string
	if input.ClientID == 0 {
		missing = append(missing, "cliente_id")
	}
	if input.PetID == 0 {
		missing = append(missing, "mascota_id")
	}
	if input.ServiceID == 0 {
		missing = append(missing, "servicio_id")
	}
	if input.BranchID == 0 {
		missing = append(missing, "sucursal_id")
	}
	if input.Date == "" {
		missing = append(missing, "fecha")
	}
	if input.Time == "" {
		missing = append(missing, "hora")
	}
	if len(missing) > 0 {
		err := &utils.MissingFieldsError{Fields: missing}
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: err.Error()})
	}

	if err := utils.ValidateDate(input.Date); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: err.Error()})
	}
	if err := utils.ValidateTime(input.Time); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: err.Error()})
	}
	if utils.IsPastDate(input.Date) {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: utils.ErrPastDate.Error()})
	}
	if input.Status != "" && !models.ValidStatus(input.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: models.ErrInvalidStatus.Error()})
	}

	if err := validateCreate(input); err != nil {
		status := statusFor(err)
		resp := utils.ErrorResponse{Message: err.Error()}
		if status == fiber.StatusInternalServerError {
			resp.Message = "Error al validar la cita"
			resp.Error = err.Error()
		}
		return c.Status(status).JSON(resp)
	}

	appointment := models.Appointment{
		ClientID:     input.ClientID,
		PetID:        input.PetID,
		ServiceID:    input.ServiceID,
		BranchID:     input.BranchID,
		Date:         input.Date,
		Time:         input.Time,
		Status:       input.Status,
		Motive:       input.Motive,
		Observations: input.Observations,
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		available, err := utils.CheckSlotAvailability(tx, appointment.Date, appointment.Time, appointment.BranchID)
		if err != nil {
			return err
		}
		if !available {
			return utils.ErrSlotUnavailable
		}
		return tx.Create(&appointment).Error
	})
	if err != nil {
		if errors.Is(err, utils.ErrSlotUnavailable) {
			return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al crear la cita",
			Error:   err.Error(),
		})
	}

	// The enrichment re-fetch is best effort: when it fails the cita
	// is already booked, so the raw row goes back with the 201.
	var created models.Appointment
	if err := preloaded(db.DB).First(&created, appointment.ID).Error; err != nil {
		log.Printf("Cita %d creada pero no se pudo recargar: %v", appointment.ID, err)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Cita creada exitosamente",
			"data":    appointment,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Cita creada exitosamente",
		"data":    created,
	})
}

// UpdateAppointment applies a partial update after the transition
// guard and, when the slot moves, a fresh availability check.
func UpdateAppointment(c *fiber.Ctx) error {
	id := c.Params("id")

	update := new(models.AppointmentUpdate)
	if err := c.BodyParser(update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cuerpo de solicitud inválido",
			Error:   err.Error(),
		})
	}

	var appointment models.Appointment
	if err := db.DB.First(&appointment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Cita no encontrada",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al verificar la cita",
			Error:   err.Error(),
		})
	}

	if update.IsEmpty() {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: utils.ErrNoFieldsToUpdate.Error(),
		})
	}

	// The override capability comes from the verified token role or an
	// explicit force flag, never from headers or referrers.
	role, _ := c.Locals("role").(string)
	override := update.Force || role == models.RoleAdmin

	if err := appointment.GuardUpdate(update, override); err != nil {
		return c.Status(statusFor(err)).JSON(utils.ErrorResponse{Message: err.Error()})
	}

	if update.Date != nil {
		if err := utils.ValidateDate(*update.Date); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: err.Error()})
		}
		// A past date is tolerated when the cita is being canceled.
		if utils.IsPastDate(*update.Date) && !update.CancelsAppointment() {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: utils.ErrPastDate.Error()})
		}
	}
	if update.Time != nil {
		if err := utils.ValidateTime(*update.Time); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: err.Error()})
		}
	}

	if update.BranchID != nil {
		var count int64
		if err := db.DB.Model(&models.Branch{}).Where("id = ?", *update.BranchID).Count(&count).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Error al verificar la sucursal",
				Error:   err.Error(),
			})
		}
		if count == 0 {
			notFound := &utils.NotFoundError{Kind: "sucursal"}
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{Message: notFound.Error()})
		}
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if update.ChangesSchedule(&appointment) {
			date, hour, branchID := update.TargetSlot(&appointment)
			available, err := utils.CheckSlotAvailability(tx, date, hour, branchID)
			if err != nil {
				return err
			}
			if !available {
				return utils.ErrSlotUnavailable
			}
		}
		return tx.Model(&appointment).Updates(update.Changes()).Error
	})
	if err != nil {
		if errors.Is(err, utils.ErrSlotUnavailable) {
			return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
				Message: fmt.Sprintf("El nuevo horario seleccionado no está disponible %s-%s", appointment.Date, appointment.Time),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al actualizar la cita",
			Error:   err.Error(),
		})
	}

	var updated models.Appointment
	if err := preloaded(db.DB).First(&updated, appointment.ID).Error; err != nil {
		log.Printf("Cita %d actualizada pero no se pudo recargar: %v", appointment.ID, err)
		return c.JSON(fiber.Map{"message": "Cita actualizada exitosamente"})
	}

	return c.JSON(fiber.Map{
		"message": "Cita actualizada exitosamente",
		"data":    updated,
	})
}

// DeleteAppointment removes a cita. Confirmed and completed citas are
// kept for the record; they must be canceled instead.
func DeleteAppointment(c *fiber.Ctx) error {
	id := c.Params("id")

	var appointment models.Appointment
	if err := db.DB.First(&appointment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Cita no encontrada",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al verificar la cita",
			Error:   err.Error(),
		})
	}

	if !appointment.CanBeDeleted() {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "No se pueden eliminar citas confirmadas o completadas. Usa cancelar en su lugar.",
		})
	}

	if err := db.DB.Delete(&appointment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al eliminar la cita",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{"message": "Cita eliminada exitosamente"})
}

// GetClientAppointmentStats aggregates a client's citas by status for
// the client dashboard cards.
func GetClientAppointmentStats(c *fiber.Ctx) error {
	clientID := c.Params("clienteId")
	if !canViewClient(c, clientID) {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "No puedes consultar citas de otros clientes",
		})
	}

	type statusCount struct {
		Status models.AppointmentStatus
		Count  int64
	}
	var rows []statusCount
	if err := db.DB.Model(&models.Appointment{}).
		Select("status, COUNT(*) as count").
		Where("client_id = ?", clientID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al obtener estadísticas",
			Error:   err.Error(),
		})
	}

	stats := fiber.Map{
		"total":      int64(0),
		"pendiente":  int64(0),
		"confirmada": int64(0),
		"completada": int64(0),
		"cancelada":  int64(0),
	}
	var total int64
	for _, row := range rows {
		total += row.Count
		stats[string(row.Status)] = row.Count
	}
	stats["total"] = total

	return c.JSON(stats)
}
