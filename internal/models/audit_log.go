/*
Package models - Audit Log Model

==============================================================================
FILE: internal/models/audit_log.go
==============================================================================

DESCRIPTION:
    AuditLogEntry is a single append-only action record: (org, actor-id,
    action-code, entity-type, entity-id, payload-JSON, timestamp).
    ActionCode is a closed enum rather than a free string; the payload
    is whatever value the caller passes, stored as free-form JSON.

==============================================================================
*/
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ActionCode is the closed set of state-changing actions the core
// records. Every package that mutates state appends one of these in
// the same transaction as its mutation.
type ActionCode string

const (
	ActionShiftCreated       ActionCode = "SHIFT_CREATED"
	ActionShiftUpdated       ActionCode = "SHIFT_UPDATED"
	ActionShiftPublished     ActionCode = "SHIFT_PUBLISHED"
	ActionShiftCancelled     ActionCode = "SHIFT_CANCELLED"
	ActionClaimApproved      ActionCode = "CLAIM_APPROVED"
	ActionClaimRejected      ActionCode = "CLAIM_REJECTED"
	ActionSwapExecuted       ActionCode = "SWAP_EXECUTED"
	ActionClockIn            ActionCode = "CLOCK_IN"
	ActionClockOut           ActionCode = "CLOCK_OUT"
	ActionBreakStart         ActionCode = "BREAK_START"
	ActionBreakEnd           ActionCode = "BREAK_END"
	ActionGeoFenceOverride   ActionCode = "GEOFENCE_OVERRIDE"
	ActionDeviceEnrolled     ActionCode = "DEVICE_ENROLLED"
	ActionDeviceRotated      ActionCode = "DEVICE_ROTATED"
	ActionKioskSessionStart  ActionCode = "KIOSK_SESSION_START"
	ActionKioskRateLimited   ActionCode = "KIOSK_RATE_LIMITED"
	ActionKioskBatchReceived ActionCode = "KIOSK_BATCH_RECEIVED"
	ActionKioskEventAccepted ActionCode = "KIOSK_EVENT_ACCEPTED"
	ActionKioskEventRejected ActionCode = "KIOSK_EVENT_REJECTED"
	ActionComplianceIncident ActionCode = "COMPLIANCE_INCIDENT_CREATED"
	ActionPayrollCalculated  ActionCode = "PAYROLL_CALCULATED"
	ActionPayrollApproved    ActionCode = "PAYROLL_APPROVED"
	ActionPayrollPosted      ActionCode = "PAYROLL_POSTED"
	ActionPayrollPaid        ActionCode = "PAYROLL_PAID"
	ActionPayrollVoided      ActionCode = "PAYROLL_VOIDED"
	ActionCSVExported        ActionCode = "CSV_EXPORTED"
)

// AuditLogEntry is the single append-only audit record type. Writes
// happen in the same transaction as the mutation they describe.
type AuditLogEntry struct {
	BaseModel
	OrgID      uuid.UUID      `gorm:"type:text;not null;index:idx_audit_lookup,priority:1" json:"org_id"`
	ActorID    uuid.UUID      `gorm:"type:text;not null;index" json:"actor_id"`
	ActionCode ActionCode     `gorm:"size:40;not null;index:idx_audit_lookup,priority:4" json:"action_code"`
	EntityType string         `gorm:"size:50;not null;index:idx_audit_lookup,priority:2" json:"entity_type"`
	EntityID   uuid.UUID      `gorm:"type:text;not null;index:idx_audit_lookup,priority:3" json:"entity_id"`
	Payload    datatypes.JSON `json:"payload"`
	OccurredAt time.Time      `gorm:"not null;index" json:"occurred_at"`
}

func (AuditLogEntry) TableName() string { return "audit_log_entries" }
