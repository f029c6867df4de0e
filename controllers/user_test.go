package controllers

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huellitas/vetclinic-api/db"
	"github.com/huellitas/vetclinic-api/models"
)

func seedUser(t *testing.T, name, email, role string) models.User {
	t.Helper()
	user := models.User{Name: name, Email: email, Role: role}
	require.NoError(t, db.DB.Create(&user).Error)
	return user
}

func TestGetAllUsersHidesPasswords(t *testing.T) {
	app := setupTestApp(t, models.RoleAdmin)
	seedUser(t, "Admin", "admin@example.com", models.RoleAdmin)

	req := newJSONRequest(t, fiber.MethodGet, "/usuarios", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var users []models.User
	decodeJSON(t, resp, &users)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.Empty(t, u.Password)
	}
}

func TestGetAllUsersFilterByRole(t *testing.T) {
	app := setupTestApp(t, models.RoleAdmin)
	seedUser(t, "Admin", "admin@example.com", models.RoleAdmin)
	seedUser(t, "Vendedor", "ventas@example.com", models.RoleVendor)

	req := newJSONRequest(t, fiber.MethodGet, "/usuarios?rol=vendedor", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var users []models.User
	decodeJSON(t, resp, &users)
	require.Len(t, users, 1)
	assert.Equal(t, "Vendedor", users[0].Name)
}

func TestGetUserByID(t *testing.T) {
	app := setupTestApp(t, models.RoleAdmin)

	resp, body := doJSON(t, app, fiber.MethodGet, "/usuarios/1", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Ana López", body["nombre"])

	resp, _ = doJSON(t, app, fiber.MethodGet, "/usuarios/99", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUpdateUserRole(t *testing.T) {
	app := setupTestApp(t, models.RoleAdmin)

	resp, body := doJSON(t, app, fiber.MethodPatch, "/usuarios/1", map[string]interface{}{
		"rol": "vendedor",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "vendedor", data["rol"])

	var stored models.User
	require.NoError(t, db.DB.First(&stored, 1).Error)
	assert.Equal(t, models.RoleVendor, stored.Role)
}

func TestUpdateUserValidation(t *testing.T) {
	app := setupTestApp(t, models.RoleAdmin)

	resp, _ := doJSON(t, app, fiber.MethodPatch, "/usuarios/1", map[string]interface{}{})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodPatch, "/usuarios/1", map[string]interface{}{
		"rol": "superusuario",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodPatch, "/usuarios/1", map[string]interface{}{
		"email": "no-es-un-email",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdateUserDuplicateEmail(t *testing.T) {
	app := setupTestApp(t, models.RoleAdmin)
	other := seedUser(t, "Otro", "otro@example.com", models.RoleClient)

	resp, decoded := doJSON(t, app, fiber.MethodPatch, fmt.Sprintf("/usuarios/%d", other.ID), map[string]interface{}{
		"email": "ana@example.com",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decoded["message"], "ya está en uso")
}

func TestDeleteUser(t *testing.T) {
	app := setupTestApp(t, models.RoleAdmin)
	fresh := seedUser(t, "Sin Registros", "nuevo@example.com", models.RoleClient)

	resp, body := doJSON(t, app, fiber.MethodDelete, fmt.Sprintf("/usuarios/%d", fresh.ID), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Usuario eliminado correctamente", body["message"])

	resp, _ = doJSON(t, app, fiber.MethodDelete, "/usuarios/99", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDeleteUserWithRecordsBlocked(t *testing.T) {
	app := setupTestApp(t, models.RoleAdmin)

	// The fixture client owns a mascota; deleting would orphan it.
	resp, decoded := doJSON(t, app, fiber.MethodDelete, "/usuarios/1", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decoded["message"], "registros asociados")
}

func TestDeleteLastAdminBlocked(t *testing.T) {
	app := setupTestApp(t, models.RoleAdmin)
	admin := seedUser(t, "Admin", "admin@example.com", models.RoleAdmin)

	resp, decoded := doJSON(t, app, fiber.MethodDelete, fmt.Sprintf("/usuarios/%d", admin.ID), nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decoded["message"], "último administrador")

	// With a second admin the first becomes deletable.
	second := seedUser(t, "Admin Dos", "admin2@example.com", models.RoleAdmin)
	resp, _ = doJSON(t, app, fiber.MethodDelete, fmt.Sprintf("/usuarios/%d", second.ID), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
