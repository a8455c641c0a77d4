/*
Package database - Schema Migrations

==============================================================================
FILE: internal/database/migrations.go
==============================================================================

DESCRIPTION:
    Runs GORM AutoMigrate across every model in the workforce core. Model
    order follows foreign-key dependency: organizations/branches/users
    first, then scheduling, timeclock, kiosk, and payroll in the order
    each subsystem depends on the ones before it.

==============================================================================
*/
package database

import (
	"gorm.io/gorm"

	"github.com/shiftcore/workforce/internal/models"
)

// Migrate performs database migrations.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Organization{},
		&models.Branch{},
		&models.User{},
		&models.WorkforcePolicy{},

		&models.ShiftTemplate{},
		&models.ScheduledShift{},
		&models.OpenShiftClaim{},
		&models.AvailabilityException{},
		&models.AvailabilitySlot{},

		&models.TimeEntry{},
		&models.BreakEntry{},

		&models.PayPeriod{},
		&models.TimesheetApproval{},

		&models.BranchGeoFence{},
		&models.GeoFenceEvent{},

		&models.KioskDevice{},
		&models.KioskDeviceSession{},
		&models.KioskPINAttempt{},
		&models.KioskEventBatch{},
		&models.KioskEvent{},

		&models.ComplianceIncident{},

		&models.CompensationComponent{},
		&models.CompensationProfile{},

		&models.PayrollRun{},
		&models.PayrollRunLine{},
		&models.Payslip{},
		&models.PayslipLineItem{},
		&models.PayrollPostingMapping{},
		&models.JournalEntry{},
		&models.JournalLine{},
		&models.JournalLink{},

		&models.AuditLogEntry{},
	)
}
