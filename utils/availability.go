package utils

import (
	"gorm.io/gorm"

	"github.com/huellitas/vetclinic-api/models"
)

// CheckSlotAvailability reports whether the exact (date, time, branch)
// slot is free of active appointments. Canceled appointments release
// their slot. The check is an exact-triple count: it does not weigh
// service duration, so a long service does not block neighboring
// times (kept as-is pending a product decision).
//
// The caller is responsible for validating that the branch exists; an
// unknown branch simply counts zero rows and reads as available.
func CheckSlotAvailability(tx *gorm.DB, date, hour string, branchID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.Appointment{}).
		Where("date = ? AND time = ? AND branch_id = ? AND status <> ?",
			date, hour, branchID, models.StatusCanceled).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
