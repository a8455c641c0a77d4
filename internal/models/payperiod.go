package models

import (
	"time"

	"github.com/google/uuid"
)

// PayPeriodType is the cadence a PayPeriod covers.
type PayPeriodType string

const (
	PayPeriodWeekly   PayPeriodType = "WEEKLY"
	PayPeriodBiweekly PayPeriodType = "BIWEEKLY"
	PayPeriodMonthly  PayPeriodType = "MONTHLY"
)

// PayPeriodStatus is the pay period lifecycle state.
type PayPeriodStatus string

const (
	PayPeriodOpen     PayPeriodStatus = "OPEN"
	PayPeriodClosed   PayPeriodStatus = "CLOSED"
	PayPeriodExported PayPeriodStatus = "EXPORTED"
)

// PayPeriod is a closed interval payroll is computed over. Closing it
// locks every TimesheetApproval it contains.
type PayPeriod struct {
	BaseModel
	OrgID     uuid.UUID       `gorm:"type:text;not null;index" json:"org_id"`
	BranchID  *uuid.UUID      `gorm:"type:text;index" json:"branch_id,omitempty"`
	StartDate time.Time       `gorm:"type:date;not null;index" json:"start_date"`
	EndDate   time.Time       `gorm:"type:date;not null" json:"end_date"`
	Type      PayPeriodType   `gorm:"size:10;not null" json:"type"`
	Status    PayPeriodStatus `gorm:"size:10;not null;default:OPEN;index" json:"status"`
	ClosedAt  *time.Time      `json:"closed_at,omitempty"`
}

func (PayPeriod) TableName() string { return "pay_periods" }

// TimesheetApprovalStatus is the approval lifecycle state.
type TimesheetApprovalStatus string

const (
	ApprovalPending  TimesheetApprovalStatus = "PENDING"
	ApprovalApproved TimesheetApprovalStatus = "APPROVED"
	ApprovalRejected TimesheetApprovalStatus = "REJECTED"
)

// TimesheetApproval is one-to-one with a TimeEntry. LockedAt is set by
// pay-period close; a locked approval rejects further mutation.
type TimesheetApproval struct {
	BaseModel
	OrgID       uuid.UUID               `gorm:"type:text;not null;index" json:"org_id"`
	TimeEntryID uuid.UUID               `gorm:"type:text;not null;uniqueIndex" json:"time_entry_id"`
	Status      TimesheetApprovalStatus `gorm:"size:10;not null;default:PENDING;index" json:"status"`
	ApprovedByID *uuid.UUID             `gorm:"type:text" json:"approved_by_id,omitempty"`
	ApprovedAt   *time.Time             `json:"approved_at,omitempty"`
	LockedAt     *time.Time             `json:"locked_at,omitempty"`
}

func (TimesheetApproval) TableName() string { return "timesheet_approvals" }
