package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/huellitas/vetclinic-api/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// One connection keeps the in-memory database alive for the test.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Appointment{}))
	return db
}

func TestCheckSlotAvailability(t *testing.T) {
	db := openTestDB(t)

	free, err := CheckSlotAvailability(db, "2026-09-15", "10:00", 1)
	require.NoError(t, err)
	assert.True(t, free, "empty schedule should be available")

	require.NoError(t, db.Create(&models.Appointment{
		ClientID: 1, PetID: 1, ServiceID: 1, BranchID: 1,
		Date: "2026-09-15", Time: "10:00", Status: models.StatusPending,
	}).Error)

	free, err = CheckSlotAvailability(db, "2026-09-15", "10:00", 1)
	require.NoError(t, err)
	assert.False(t, free, "pending cita occupies the slot")

	// Same time, different branch.
	free, err = CheckSlotAvailability(db, "2026-09-15", "10:00", 2)
	require.NoError(t, err)
	assert.True(t, free)

	// Same branch and date, different time.
	free, err = CheckSlotAvailability(db, "2026-09-15", "10:30", 1)
	require.NoError(t, err)
	assert.True(t, free)
}

func TestCanceledAppointmentReleasesSlot(t *testing.T) {
	db := openTestDB(t)

	cita := models.Appointment{
		ClientID: 1, PetID: 1, ServiceID: 1, BranchID: 1,
		Date: "2026-09-15", Time: "10:00", Status: models.StatusConfirmed,
	}
	require.NoError(t, db.Create(&cita).Error)

	free, err := CheckSlotAvailability(db, "2026-09-15", "10:00", 1)
	require.NoError(t, err)
	assert.False(t, free)

	require.NoError(t, db.Model(&cita).Update("status", models.StatusCanceled).Error)

	free, err = CheckSlotAvailability(db, "2026-09-15", "10:00", 1)
	require.NoError(t, err)
	assert.True(t, free, "canceled cita releases the slot")
}
