package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/huellitas/vetclinic-api/db"
	"github.com/huellitas/vetclinic-api/models"
)

// setupTestApp wires the cita handlers behind a middleware that plants
// the session locals the JWT middleware would set in production.
func setupTestApp(t *testing.T, role string) *fiber.App {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(
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
	))
	db.DB = database

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", uint(1))
		c.Locals("role", role)
		return c.Next()
	})
	app.Get("/citas", GetAllAppointments)
	app.Get("/citas/fecha/:fecha", GetAppointmentsByDate)
	app.Get("/citas/cliente/:clienteId", GetAppointmentsByClient)
	app.Get("/citas/cliente/:clienteId/estadisticas", GetClientAppointmentStats)
	app.Get("/citas/:id", GetAppointment)
	app.Post("/citas", CreateAppointment)
	app.Patch("/citas/:id", UpdateAppointment)
	app.Delete("/citas/:id", DeleteAppointment)
	app.Get("/mascotas/cliente/:clienteId", GetPetsByClient)
	app.Get("/usuarios", GetAllUsers)
	app.Get("/usuarios/:id", GetUserByID)
	app.Patch("/usuarios/:id", UpdateUser)
	app.Delete("/usuarios/:id", DeleteUser)

	seedFixtures(t, database)
	return app
}

// seedFixtures creates one client with a pet, a service and a branch.
func seedFixtures(t *testing.T, database *gorm.DB) {
	t.Helper()
	require.NoError(t, database.Create(&models.User{
		Name: "Ana López", Email: "ana@example.com", Role: models.RoleClient,
	}).Error)
	require.NoError(t, database.Create(&models.Pet{
		Name: "Firulais", Species: "perro", ClientID: 1,
	}).Error)
	require.NoError(t, database.Create(&models.Service{
		Name: "Consulta general", Price: 150,
	}).Error)
	require.NoError(t, database.Create(&models.Department{Name: "Guatemala"}).Error)
	require.NoError(t, database.Create(&models.Municipality{Name: "Mixco", DepartmentID: 1}).Error)
	require.NoError(t, database.Create(&models.Branch{
		Name: "Sucursal Centro", Address: "5a avenida 3-21", MunicipalityID: 1,
	}).Error)
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func newJSONRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := app.Test(newJSONRequest(t, method, path, body), -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func validCreateBody() map[string]interface{} {
	return map[string]interface{}{
		"cliente_id":  1,
		"mascota_id":  1,
		"servicio_id": 1,
		"sucursal_id": 1,
		"fecha":       futureDate(7),
		"hora":        "10:00",
		"motivo":      "Vacunación anual",
	}
}

func TestCreateAppointment(t *testing.T) {
	app := setupTestApp(t, models.RoleClient)

	resp, body := doJSON(t, app, fiber.MethodPost, "/citas", validCreateBody())
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Cita creada exitosamente", body["message"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "pendiente", data["estado"], "status defaults to pendiente")
	assert.Equal(t, futureDate(7), data["fecha"])
	assert.Equal(t, "10:00", data["hora"])
	assert.Equal(t, "Vacunación anual", data["motivo"])
	// Enrichment joins come back on the 201.
	mascota := data["mascota"].(map[string]interface{})
	assert.Equal(t, "Firulais", mascota["nombre"])
}

func TestCreateAppointmentMissingFields(t *testing.T) {
	app := setupTestApp(t, models.RoleClient)

	body := validCreateBody()
	delete(body, "fecha")
	delete(body, "hora")

	resp, decoded := doJSON(t, app, fiber.MethodPost, "/citas", body)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decoded["message"], "fecha")
	assert.Contains(t, decoded["message"], "hora")
}

func TestCreateAppointmentFormatChecks(t *testing.T) {
	app := setupTestApp(t, models.RoleClient)

	body := validCreateBody()
	body["fecha"] = "15/09/2026"
	resp, _ := doJSON(t, app, fiber.MethodPost, "/citas", body)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body = validCreateBody()
	body["hora"] = "25:00"
	resp, _ = doJSON(t, app, fiber.MethodPost, "/citas", body)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body = validCreateBody()
	body["fecha"] = futureDate(-1)
	resp, decoded := doJSON(t, app, fiber.MethodPost, "/citas", body)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decoded["message"], "fechas pasadas")

	body = validCreateBody()
	body["estado"] = "agendada"
	resp, _ = doJSON(t, app, fiber.MethodPost, "/citas", body)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateAppointmentPetNotOwned(t *testing.T) {
	app := setupTestApp(t, models.RoleClient)

	require.NoError(t, db.DB.Create(&models.User{
		Name: "Otro Cliente", Email: "otro@example.com", Role: models.RoleClient,
	}).Error)
	require.NoError(t, db.DB.Create(&models.Pet{
		Name: "Michi", Species: "gato", ClientID: 2,
	}).Error)

	body := validCreateBody()
	body["mascota_id"] = 2 // belongs to client 2

	resp, decoded := doJSON(t, app, fiber.MethodPost, "/citas", body)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decoded["message"], "no pertenece")
}

func TestCreateAppointmentReferencesNotFound(t *testing.T) {
	app := setupTestApp(t, models.RoleClient)

	body := validCreateBody()
	body["servicio_id"] = 99
	resp, decoded := doJSON(t, app, fiber.MethodPost, "/citas", body)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, decoded["message"], "servicio")

	body = validCreateBody()
	body["sucursal_id"] = 99
	resp, decoded = doJSON(t, app, fiber.MethodPost, "/citas", body)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, decoded["message"], "sucursal")
}

func TestCreateAppointmentSlotConflict(t *testing.T) {
	app := setupTestApp(t, models.RoleClient)

	resp, _ := doJSON(t, app, fiber.MethodPost, "/citas", validCreateBody())
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, decoded := doJSON(t, app, fiber.MethodPost, "/citas", validCreateBody())
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Contains(t, decoded["message"], "no está disponible")

	// Canceling the first cita frees the slot for rebooking.
	require.NoError(t, db.DB.Model(&models.Appointment{}).
		Where("id = ?", 1).
		Update("status", models.StatusCanceled).Error)

	resp, _ = doJSON(t, app, fiber.MethodPost, "/citas", validCreateBody())
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func seedAppointment(t *testing.T, status models.AppointmentStatus) models.Appointment {
	t.Helper()
	cita := models.Appointment{
		ClientID: 1, PetID: 1, ServiceID: 1, BranchID: 1,
		Date: futureDate(7), Time: "10:00", Status: status,
	}
	require.NoError(t, db.DB.Create(&cita).Error)
	return cita
}

func TestUpdatePendingAppointment(t *testing.T) {
	app := setupTestApp(t, models.RoleClient)
	cita := seedAppointment(t, models.StatusPending)

	resp, body := doJSON(t, app, fiber.MethodPatch, fmt.Sprintf("/citas/%d", cita.ID), map[string]interface{}{
		"fecha":  futureDate(8),
		"hora":   "14:30",
		"estado": "confirmada",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, futureDate(8), data["fecha"])
	assert.Equal(t, "14:30", data["hora"])
	assert.Equal(t, "confirmada", data["estado"])
}

func TestUpdateEmptyBody(t *testing.T) {
	app := setupTestApp(t, models.RoleClient)
	cita := seedAppointment(t, models.StatusPending)

	resp, decoded := doJSON(t, app, fiber.MethodPatch, fmt.Sprintf("/citas/%d", cita.ID), map[string]interface{}{})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decoded["message"], "no hay campos")
}

func TestUpdateCompletedRequiresOverride(t *testing.T) {
	app := setupTestApp(t, models.RoleClient)
	cita := seedAppointment(t, models.StatusCompleted)
	path := fmt.Sprintf("/citas/%d", cita.ID)

	resp, _ := doJSON(t, app, fiber.MethodPatch, path, map[string]interface{}{
		"observaciones": "control posterior",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body := doJSON(t, app, fiber.MethodPatch, path, map[string]interface{}{
		"observaciones": "control posterior",
		"force":         true,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "control posterior", data["observaciones"])
	assert.Equal(t, "completada", data["estado"])
}

func TestUpdateCompletedAdminOverride(t *testing.T) {
	app := setupTestApp(t, models.RoleAdmin)
	cita := seedAppointment(t, models.StatusCompleted)

	// The admin role carries the override without a force flag.
	resp, _ := doJSON(t, app, fiber.MethodPatch, fmt.Sprintf("/citas/%d", cita.ID), map[string]interface{}{
		"observaciones": "corrección administrativa",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestUpdateConfirmedOnlyCancels(t *testing.T) {
	app := setupTestApp(t, models.RoleClient)
	cita := seedAppointment(t, models.StatusConfirmed)
	path := fmt.Sprintf("/citas/%d", cita.ID)

	resp, _ := doJSON(t, app, fiber.MethodPatch, path, map[string]interface{}{
		"fecha": futureDate(9),
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodPatch, path, map[string]interface{}{
		"estado": "cancelada",
		"motivo": "cambio de planes",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "cancellation must carry no other field")

	resp, _ = doJSON(t, app, fiber.MethodPatch, path, map[string]interface{}{
		"estado": "completada",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "only cancelada is reachable without override")

	resp, body := doJSON(t, app, fiber.MethodPatch, path, map[string]interface{}{
		"estado": "cancelada",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "cancelada", data["estado"])
}

func TestUpdateCanceledIsTerminal(t *testing.T) {
	app := setupTestApp(t, models.RoleAdmin)
	cita := seedAppointment(t, models.StatusCanceled)

	resp, _ := doJSON(t, app, fiber.MethodPatch, fmt.Sprintf("/citas/%d", cita.ID), map[string]interface{}{
		"estado": "confirmada",
		"force":  true,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdateRescheduleConflict(t *testing.T) {
	app := setupTestApp(t, models.RoleClient)
	seedAppointment(t, models.StatusConfirmed) // occupies 10:00
	cita := models.Appointment{
		ClientID: 1, PetID: 1, ServiceID: 1, BranchID: 1,
		Date: futureDate(7), Time: "11:00", Status: models.StatusPending,
	}
	require.NoError(t, db.DB.Create(&cita).Error)

	resp, _ := doJSON(t, app, fiber.MethodPatch, fmt.Sprintf("/citas/%d", cita.ID), map[string]interface{}{
		"hora": "10:00",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Moving to a free time works.
	resp, _ = doJSON(t, app, fiber.MethodPatch, fmt.Sprintf("/citas/%d", cita.ID), map[string]interface{}{
		"hora": "12:00",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestUpdateUnknownBranch(t *testing.T) {
	app := setupTestApp(t, models.RoleClient)
	cita := seedAppointment(t, models.StatusPending)

	resp, _ := doJSON(t, app, fiber.MethodPatch, fmt.Sprintf("/citas/%d", cita.ID), map[string]interface{}{
		"sucursal_id": 99,
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDeleteAppointment(t *testing.T) {
	app := setupTestApp(t, models.RoleClient)

	pending := seedAppointment(t, models.StatusPending)
	resp, body := doJSON(t, app, fiber.MethodDelete, fmt.Sprintf("/citas/%d", pending.ID), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Cita eliminada exitosamente", body["message"])

	confirmed := models.Appointment{
		ClientID: 1, PetID: 1, ServiceID: 1, BranchID: 1,
		Date: futureDate(7), Time: "11:00", Status: models.StatusConfirmed,
	}
	require.NoError(t, db.DB.Create(&confirmed).Error)
	resp, decoded := doJSON(t, app, fiber.MethodDelete, fmt.Sprintf("/citas/%d", confirmed.ID), nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decoded["message"], "cancelar")

	resp, _ = doJSON(t, app, fiber.MethodDelete, "/citas/999", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetAppointmentNotFound(t *testing.T) {
	app := setupTestApp(t, models.RoleClient)

	resp, _ := doJSON(t, app, fiber.MethodGet, "/citas/999", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetAppointmentsByDate(t *testing.T) {
	app := setupTestApp(t, models.RoleVendor)

	date := futureDate(7)
	for _, hora := range []string{"15:00", "09:00", "11:30"} {
		require.NoError(t, db.DB.Create(&models.Appointment{
			ClientID: 1, PetID: 1, ServiceID: 1, BranchID: 1,
			Date: date, Time: hora, Status: models.StatusPending,
		}).Error)
	}

	req := httptest.NewRequest(fiber.MethodGet, "/citas/fecha/"+date, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var citas []models.Appointment
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&citas))
	require.Len(t, citas, 3)
	assert.Equal(t, "09:00", citas[0].Time)
	assert.Equal(t, "11:30", citas[1].Time)
	assert.Equal(t, "15:00", citas[2].Time)

	resp, _ = doJSON(t, app, fiber.MethodGet, "/citas/fecha/15-09-2026", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestClientCannotReadOtherClients(t *testing.T) {
	app := setupTestApp(t, models.RoleClient) // caller is client 1

	resp, _ := doJSON(t, app, fiber.MethodGet, "/citas/cliente/2", nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodGet, "/citas/cliente/2/estadisticas", nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodGet, "/mascotas/cliente/2", nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Own records stay reachable.
	resp, _ = doJSON(t, app, fiber.MethodGet, "/citas/cliente/1", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodGet, "/mascotas/cliente/1", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestStaffCanReadAnyClient(t *testing.T) {
	app := setupTestApp(t, models.RoleVendor)

	resp, _ := doJSON(t, app, fiber.MethodGet, "/citas/cliente/2", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodGet, "/mascotas/cliente/2", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGetClientAppointmentStats(t *testing.T) {
	app := setupTestApp(t, models.RoleClient)

	statuses := []models.AppointmentStatus{
		models.StatusPending, models.StatusPending,
		models.StatusConfirmed, models.StatusCompleted,
	}
	for i, s := range statuses {
		require.NoError(t, db.DB.Create(&models.Appointment{
			ClientID: 1, PetID: 1, ServiceID: 1, BranchID: 1,
			Date: futureDate(7), Time: fmt.Sprintf("%02d:00", 9+i), Status: s,
		}).Error)
	}

	resp, stats := doJSON(t, app, fiber.MethodGet, "/citas/cliente/1/estadisticas", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(4), stats["total"])
	assert.Equal(t, float64(2), stats["pendiente"])
	assert.Equal(t, float64(1), stats["confirmada"])
	assert.Equal(t, float64(1), stats["completada"])
	assert.Equal(t, float64(0), stats["cancelada"])
}
