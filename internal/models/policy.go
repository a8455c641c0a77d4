package models

import "github.com/google/uuid"

// WorkforcePolicy is the per-org configurable thresholds governing
// overtime, break requirements, and kiosk rate limits, with documented
// defaults. An org has at most one row; where none exists, readers use
// DefaultWorkforcePolicy in memory and nothing is persisted.
type WorkforcePolicy struct {
	BaseModel
	OrgID uuid.UUID `gorm:"type:text;not null;uniqueIndex" json:"org_id"`

	DailyOTThresholdMinutes  int    `gorm:"not null;default:480" json:"daily_ot_threshold_minutes"`
	WeeklyOTThresholdMinutes int    `gorm:"not null;default:2400" json:"weekly_ot_threshold_minutes"`
	RoundingIntervalMinutes  int    `gorm:"not null;default:15" json:"rounding_interval_minutes"`
	RoundingMode             string `gorm:"size:10;not null;default:NEAREST" json:"rounding_mode"`
	RequireApproval          bool   `gorm:"not null;default:true" json:"require_approval"`
	AutoLockDays             int    `gorm:"not null;default:7" json:"auto_lock_days"`

	MealBreakRequiredAfterHours float64 `gorm:"not null;default:6" json:"meal_break_required_after_hours"`
	MealBreakMinimumMinutes     int     `gorm:"not null;default:30" json:"meal_break_minimum_minutes"`
	RestBreakRequiredAfterHours float64 `gorm:"not null;default:4" json:"rest_break_required_after_hours"`
	RestBreakMinimumMinutes     int     `gorm:"not null;default:10" json:"rest_break_minimum_minutes"`

	KioskPINRateLimitPerMinute   int  `gorm:"not null;default:5" json:"kiosk_pin_rate_limit_per_minute"`
	KioskSessionTimeoutMinutes   int  `gorm:"not null;default:720" json:"kiosk_session_timeout_minutes"`
	KioskMaxInvalidPINsPerMinute int  `gorm:"not null;default:10" json:"kiosk_max_invalid_pins_per_minute"`
	RequireGeofenceForKiosk      bool `gorm:"not null;default:false" json:"require_geofence_for_kiosk"`

	// TaxPercent is consumed by the gross-to-net step 4 (taxesWithheld):
	// a flat configurable percent of taxable wages, applied on top of
	// any explicit TAX components.
	TaxPercent float64 `gorm:"not null;default:0" json:"tax_percent"`
}

func (WorkforcePolicy) TableName() string { return "workforce_policies" }

// DefaultWorkforcePolicy returns the documented defaults for a new org.
func DefaultWorkforcePolicy(orgID uuid.UUID) *WorkforcePolicy {
	return &WorkforcePolicy{
		OrgID:                        orgID,
		DailyOTThresholdMinutes:      480,
		WeeklyOTThresholdMinutes:     2400,
		RoundingIntervalMinutes:      15,
		RoundingMode:                 "NEAREST",
		RequireApproval:              true,
		AutoLockDays:                 7,
		MealBreakRequiredAfterHours:  6,
		MealBreakMinimumMinutes:      30,
		RestBreakRequiredAfterHours:  4,
		RestBreakMinimumMinutes:      10,
		KioskPINRateLimitPerMinute:   5,
		KioskSessionTimeoutMinutes:   720,
		KioskMaxInvalidPINsPerMinute: 10,
		RequireGeofenceForKiosk:      false,
	}
}
