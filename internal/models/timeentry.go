/*
Package models - Timeclock Models

==============================================================================
FILE: internal/models/timeentry.go
==============================================================================

DESCRIPTION:
    TimeEntry and BreakEntry. Breaks live in their own child table
    rather than as an aggregate minute count on the entry, so each
    break's own start/end and the at-most-one-open invariant can be
    enforced directly; geo-fence metadata is captured separately for
    clock-in and clock-out since they can happen at different
    locations.

==============================================================================
*/
package models

import (
	"time"

	"github.com/google/uuid"
)

// ClockMethod is how a clock action was authenticated.
type ClockMethod string

const (
	ClockMethodPassword ClockMethod = "PASSWORD"
	ClockMethodMSR      ClockMethod = "MSR"
	ClockMethodPasskey  ClockMethod = "PASSKEY"
	ClockMethodKioskPIN ClockMethod = "KIOSK_PIN"
)

// GeoSource is where a geo-coordinate reading came from.
type GeoSource string

const (
	GeoSourceGPS    GeoSource = "GPS"
	GeoSourceWiFi   GeoSource = "WIFI"
	GeoSourceManual GeoSource = "MANUAL"
)

// TimeEntry is one clock-in/clock-out session. At most one row per
// (user, org) has ClockOutAt == nil.
type TimeEntry struct {
	BaseModel
	OrgID    uuid.UUID  `gorm:"type:text;not null;index:idx_time_entry_open,priority:1" json:"org_id"`
	BranchID uuid.UUID  `gorm:"type:text;not null;index" json:"branch_id"`
	UserID   uuid.UUID  `gorm:"type:text;not null;index:idx_time_entry_open,priority:2" json:"user_id"`
	ShiftID  *uuid.UUID `gorm:"type:text;index" json:"shift_id,omitempty"`

	ClockInAt  time.Time  `gorm:"not null" json:"clock_in_at"`
	ClockOutAt *time.Time `gorm:"index" json:"clock_out_at,omitempty"`
	Method     ClockMethod `gorm:"size:20;not null" json:"method"`

	TotalMinutes     *int `json:"total_minutes,omitempty"`
	BreakMinutes     *int `json:"break_minutes,omitempty"`
	WorkMinutes      *int `json:"work_minutes,omitempty"`
	OvertimeMinutes  *int `json:"overtime_minutes,omitempty"`

	ClockInLat      *float64  `json:"clock_in_lat,omitempty"`
	ClockInLng      *float64  `json:"clock_in_lng,omitempty"`
	ClockInAccuracy *float64  `json:"clock_in_accuracy_m,omitempty"`
	ClockInSource   *GeoSource `gorm:"size:10" json:"clock_in_source,omitempty"`
	ClockInOverride bool       `gorm:"default:false" json:"clock_in_override"`
	ClockInOverrideReason string `gorm:"size:500" json:"clock_in_override_reason,omitempty"`

	ClockOutLat      *float64   `json:"clock_out_lat,omitempty"`
	ClockOutLng      *float64   `json:"clock_out_lng,omitempty"`
	ClockOutAccuracy *float64   `json:"clock_out_accuracy_m,omitempty"`
	ClockOutSource   *GeoSource `gorm:"size:10" json:"clock_out_source,omitempty"`
	ClockOutOverride bool       `gorm:"default:false" json:"clock_out_override"`
	ClockOutOverrideReason string `gorm:"size:500" json:"clock_out_override_reason,omitempty"`

	Approved bool       `gorm:"default:false" json:"approved"`

	Breaks []BreakEntry `gorm:"foreignKey:TimeEntryID" json:"breaks,omitempty"`
}

func (TimeEntry) TableName() string { return "time_entries" }

// BreakEntry is one break within a TimeEntry. At most one row per
// TimeEntry has EndAt == nil.
type BreakEntry struct {
	BaseModel
	OrgID       uuid.UUID `gorm:"type:text;not null;index" json:"org_id"`
	TimeEntryID uuid.UUID `gorm:"type:text;not null;index:idx_break_open,priority:1" json:"time_entry_id"`
	StartAt     time.Time `gorm:"not null" json:"start_at"`
	EndAt       *time.Time `gorm:"index:idx_break_open,priority:2" json:"end_at,omitempty"`
	Minutes     *int       `json:"minutes,omitempty"`
}

func (BreakEntry) TableName() string { return "break_entries" }
