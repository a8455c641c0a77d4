/*
Package models - Scheduling Models

==============================================================================
FILE: internal/models/shift.go
==============================================================================

DESCRIPTION:
    Shift templates and scheduled shifts, built around the lifecycle
    DRAFT -> PUBLISHED -> IN_PROGRESS -> COMPLETED -> APPROVED, or
    DRAFT|PUBLISHED -> CANCELLED.

==============================================================================
*/
package models

import (
	"time"

	"github.com/google/uuid"
)

// ShiftStatus is the scheduled-shift lifecycle state.
type ShiftStatus string

const (
	ShiftDraft      ShiftStatus = "DRAFT"
	ShiftPublished  ShiftStatus = "PUBLISHED"
	ShiftInProgress ShiftStatus = "IN_PROGRESS"
	ShiftCompleted  ShiftStatus = "COMPLETED"
	ShiftApproved   ShiftStatus = "APPROVED"
	ShiftCancelled  ShiftStatus = "CANCELLED"
)

// ShiftTemplate is a reusable shift definition; an input hint for shift
// creation, never referenced from a ScheduledShift once created.
type ShiftTemplate struct {
	BaseModel
	OrgID           uuid.UUID  `gorm:"type:text;not null;index" json:"org_id"`
	BranchID        *uuid.UUID `gorm:"type:text;index" json:"branch_id,omitempty"`
	Name            string     `gorm:"size:150;not null" json:"name"`
	Role            string     `gorm:"size:100" json:"role"`
	StartTimeOfDay  string     `gorm:"size:5;not null" json:"start_time_of_day"` // "HH:MM"
	EndTimeOfDay    string     `gorm:"size:5;not null" json:"end_time_of_day"`
	BreakMinutes    int        `gorm:"not null;default:0" json:"break_minutes"`
	Description     string     `gorm:"size:500" json:"description,omitempty"`
	IsActive        bool       `gorm:"default:true" json:"is_active"`
}

func (ShiftTemplate) TableName() string { return "shift_templates" }

// ScheduledShift is a concrete staffed assignment at (branch, user, start,
// end, role).
type ScheduledShift struct {
	BaseModel
	OrgID    uuid.UUID  `gorm:"type:text;not null;index:idx_shift_org_user" json:"org_id"`
	BranchID uuid.UUID  `gorm:"type:text;not null;index" json:"branch_id"`
	UserID   *uuid.UUID `gorm:"type:text;index:idx_shift_org_user" json:"user_id,omitempty"`
	Role     string     `gorm:"size:100" json:"role"`

	StartAt time.Time `gorm:"not null;index" json:"start_at"`
	EndAt   time.Time `gorm:"not null" json:"end_at"`

	Status ShiftStatus `gorm:"size:20;not null;default:DRAFT;index" json:"status"`
	IsOpen bool        `gorm:"not null;default:false;index" json:"is_open"`

	PlannedMinutes  int  `gorm:"not null" json:"planned_minutes"`
	ActualMinutes   *int `json:"actual_minutes,omitempty"`
	OvertimeMinutes *int `json:"overtime_minutes,omitempty"`

	PublishedByID  *uuid.UUID `gorm:"type:text" json:"published_by_id,omitempty"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	CancelledByID  *uuid.UUID `gorm:"type:text" json:"cancelled_by_id,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
	CancelReason   string     `gorm:"size:500" json:"cancel_reason,omitempty"`
}

func (ScheduledShift) TableName() string { return "scheduled_shifts" }

// ClaimStatus is the open-shift claim lifecycle state.
type ClaimStatus string

const (
	ClaimPending   ClaimStatus = "PENDING"
	ClaimApproved  ClaimStatus = "APPROVED"
	ClaimRejected  ClaimStatus = "REJECTED"
	ClaimWithdrawn ClaimStatus = "WITHDRAWN"
)

// OpenShiftClaim is a user's bid on an is-open ScheduledShift.
type OpenShiftClaim struct {
	BaseModel
	OrgID      uuid.UUID   `gorm:"type:text;not null;index" json:"org_id"`
	ShiftID    uuid.UUID   `gorm:"type:text;not null;index" json:"shift_id"`
	UserID     uuid.UUID   `gorm:"type:text;not null;index" json:"user_id"`
	Status     ClaimStatus `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	DecidedByID *uuid.UUID `gorm:"type:text" json:"decided_by_id,omitempty"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
}

func (OpenShiftClaim) TableName() string { return "open_shift_claims" }

// AvailabilityException overrides a user's weekly availability for one
// specific date; checked as the third and softest layer of the
// conflict check, after pay-period lock and schedule overlap.
type AvailabilityException struct {
	BaseModel
	OrgID     uuid.UUID `gorm:"type:text;not null;index" json:"org_id"`
	UserID    uuid.UUID `gorm:"type:text;not null;index:idx_avail_exc_user_date" json:"user_id"`
	Date      time.Time `gorm:"type:date;not null;index:idx_avail_exc_user_date" json:"date"`
	Available bool      `gorm:"not null" json:"available"`
	StartTime string    `gorm:"size:5" json:"start_time,omitempty"`
	EndTime   string    `gorm:"size:5" json:"end_time,omitempty"`
}

func (AvailabilityException) TableName() string { return "availability_exceptions" }

// AvailabilitySlot is a recurring weekly window a user is available.
type AvailabilitySlot struct {
	BaseModel
	OrgID     uuid.UUID `gorm:"type:text;not null;index" json:"org_id"`
	UserID    uuid.UUID `gorm:"type:text;not null;index:idx_avail_slot_user_day" json:"user_id"`
	Weekday   int       `gorm:"not null;index:idx_avail_slot_user_day" json:"weekday"` // 0=Sunday
	StartTime string    `gorm:"size:5;not null" json:"start_time"`
	EndTime   string    `gorm:"size:5;not null" json:"end_time"`
}

func (AvailabilitySlot) TableName() string { return "availability_slots" }
