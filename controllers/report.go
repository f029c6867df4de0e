package controllers

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/huellitas/vetclinic-api/db"
	"github.com/huellitas/vetclinic-api/models"
	"github.com/huellitas/vetclinic-api/redis"
	"github.com/huellitas/vetclinic-api/utils"
)

// reportCacheTTL bounds how stale the admin dashboard may get between
// refreshes.
const reportCacheTTL = 5 * time.Minute

// cachedReport serves a report from Redis when present, otherwise
// computes it and stores the result. ?refresh=true forces a
// recomputation; that explicit trigger replaces the old dashboards'
// habit of re-polling everything on a timer. A broken cache never
// fails the request.
func cachedReport(c *fiber.Ctx, key string, compute func() (interface{}, error)) error {
	refresh := c.Query("refresh") == "true"

	if redis.Client != nil && !refresh {
		if cached, err := redis.Client.Get(redis.Ctx, key).Result(); err == nil {
			c.Set("X-Cache", "hit")
			c.Set("Content-Type", "application/json")
			return c.SendString(cached)
		}
	}

	payload, err := compute()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error al generar el reporte",
			Error:   err.Error(),
		})
	}

	if redis.Client != nil {
		if encoded, err := json.Marshal(payload); err == nil {
			if err := redis.Client.Set(redis.Ctx, key, encoded, reportCacheTTL).Err(); err != nil {
				log.Printf("Reportes: no se pudo cachear %s: %v", key, err)
			}
		}
	}

	c.Set("X-Cache", "miss")
	return c.JSON(payload)
}

// GetSummaryReport returns the admin dashboard headline numbers.
func GetSummaryReport(c *fiber.Ctx) error {
	return cachedReport(c, "reportes:resumen", func() (interface{}, error) {
		type statusCount struct {
			Status models.AppointmentStatus
			Count  int64
		}
		var rows []statusCount
		if err := db.DB.Model(&models.Appointment{}).
			Select("status, COUNT(*) as count").
			Group("status").
			Scan(&rows).Error; err != nil {
			return nil, err
		}

		byStatus := fiber.Map{
			"pendiente":  int64(0),
			"confirmada": int64(0),
			"completada": int64(0),
			"cancelada":  int64(0),
		}
		var totalAppointments int64
		for _, row := range rows {
			totalAppointments += row.Count
			byStatus[string(row.Status)] = row.Count
		}

		var clients, pets, services, branches int64
		if err := db.DB.Model(&models.User{}).Where("role = ?", models.RoleClient).Count(&clients).Error; err != nil {
			return nil, err
		}
		if err := db.DB.Model(&models.Pet{}).Count(&pets).Error; err != nil {
			return nil, err
		}
		if err := db.DB.Model(&models.Service{}).Count(&services).Error; err != nil {
			return nil, err
		}
		if err := db.DB.Model(&models.Branch{}).Count(&branches).Error; err != nil {
			return nil, err
		}

		return fiber.Map{
			"citas":      fiber.Map{"total": totalAppointments, "por_estado": byStatus},
			"clientes":   clients,
			"mascotas":   pets,
			"servicios":  services,
			"sucursales": branches,
		}, nil
	})
}

// GetTopServices returns the most booked services.
func GetTopServices(c *fiber.Ctx) error {
	return cachedReport(c, "reportes:servicios-top", func() (interface{}, error) {
		type row struct {
			ServiceID uint   `json:"servicio_id"`
			Name      string `json:"nombre"`
			Total     int64  `json:"total"`
		}
		var rows []row
		err := db.DB.Model(&models.Appointment{}).
			Select("appointments.service_id, services.name, COUNT(*) as total").
			Joins("JOIN services ON services.id = appointments.service_id").
			Where("appointments.status <> ?", models.StatusCanceled).
			Group("appointments.service_id, services.name").
			Order("total DESC").
			Limit(5).
			Scan(&rows).Error
		return rows, err
	})
}

// GetTopBranches returns the busiest sucursales.
func GetTopBranches(c *fiber.Ctx) error {
	return cachedReport(c, "reportes:sucursales-top", func() (interface{}, error) {
		type row struct {
			BranchID uint   `json:"sucursal_id"`
			Name     string `json:"nombre"`
			Total    int64  `json:"total"`
		}
		var rows []row
		err := db.DB.Model(&models.Appointment{}).
			Select("appointments.branch_id, branches.name, COUNT(*) as total").
			Joins("JOIN branches ON branches.id = appointments.branch_id").
			Where("appointments.status <> ?", models.StatusCanceled).
			Group("appointments.branch_id, branches.name").
			Order("total DESC").
			Limit(5).
			Scan(&rows).Error
		return rows, err
	})
}

// GetMonthlyReport aggregates citas per month. Months come out of the
// opaque date key itself, so no date-type casting is involved.
func GetMonthlyReport(c *fiber.Ctx) error {
	year := c.Query("anio", time.Now().Format("2006"))

	return cachedReport(c, "reportes:mensual:"+year, func() (interface{}, error) {
		type row struct {
			Month string `json:"mes"`
			Total int64  `json:"total"`
		}
		var rows []row
		err := db.DB.Model(&models.Appointment{}).
			Select("substr(date, 1, 7) as month, COUNT(*) as total").
			Where("substr(date, 1, 4) = ?", year).
			Group("substr(date, 1, 7)").
			Order("month ASC").
			Scan(&rows).Error
		return rows, err
	})
}
