package models

import (
	"time"

	"github.com/google/uuid"
)

type IncidentType string

const (
	MealBreakMissed IncidentType = "MEAL_BREAK_MISSED"
	MealBreakShort  IncidentType = "MEAL_BREAK_SHORT"
	RestBreakMissed IncidentType = "REST_BREAK_MISSED"
	RestBreakShort  IncidentType = "REST_BREAK_SHORT"
)

type IncidentSeverity string

const (
	SeverityLow    IncidentSeverity = "LOW"
	SeverityMedium IncidentSeverity = "MEDIUM"
	SeverityHigh   IncidentSeverity = "HIGH"
)

// ComplianceIncident is idempotent by (org, time-entry, type): at most
// one non-reversed row per key.
type ComplianceIncident struct {
	BaseModel
	OrgID          uuid.UUID        `gorm:"type:text;not null;index:idx_incident_key,unique,priority:1" json:"org_id"`
	BranchID       uuid.UUID        `gorm:"type:text;not null;index" json:"branch_id"`
	UserID         uuid.UUID        `gorm:"type:text;not null;index" json:"user_id"`
	TimeEntryID    uuid.UUID        `gorm:"type:text;not null;index:idx_incident_key,unique,priority:2" json:"time_entry_id"`
	Type           IncidentType     `gorm:"size:20;not null;index:idx_incident_key,unique,priority:3" json:"type"`
	Severity       IncidentSeverity `gorm:"size:10;not null" json:"severity"`
	IncidentDate   time.Time        `gorm:"type:date;not null" json:"incident_date"`
	PenaltyMinutes int              `gorm:"not null" json:"penalty_minutes"`
	Resolved       bool             `gorm:"default:false" json:"resolved"`
	ResolvedAt     *time.Time       `json:"resolved_at,omitempty"`
}

func (ComplianceIncident) TableName() string { return "compliance_incidents" }
