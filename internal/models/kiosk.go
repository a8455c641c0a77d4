/*
Package models - Kiosk Device and Ingest Models

==============================================================================
FILE: internal/models/kiosk.go
==============================================================================

DESCRIPTION:
    A kiosk device is a shared tablet bound to one branch. Device
    secrets and PINs are never stored in plaintext - see
    internal/secrethash. Device sessions follow the same session/
    heartbeat shape a human login would, generalized to a shared device.

==============================================================================
*/
package models

import (
	"time"

	"github.com/google/uuid"
)

// KioskDevice is a shared tablet bound to one branch.
type KioskDevice struct {
	BaseModel
	OrgID        uuid.UUID `gorm:"type:text;not null;index" json:"org_id"`
	BranchID     uuid.UUID `gorm:"type:text;not null;index" json:"branch_id"`
	PublicID     string    `gorm:"size:40;not null;uniqueIndex" json:"public_id"`
	SecretHash   string    `gorm:"size:200;not null" json:"-"`
	Enabled      bool      `gorm:"default:true" json:"enabled"`
	Name         string    `gorm:"size:150" json:"name"`
	AllowedCIDRs string    `gorm:"size:500" json:"allowed_cidrs,omitempty"` // comma-separated
	LastSeenAt   *time.Time `json:"last_seen_at,omitempty"`
}

func (KioskDevice) TableName() string { return "kiosk_devices" }

// DeviceHealth is derived at read time from LastSeenAt and Enabled.
type DeviceHealth string

const (
	HealthOnline   DeviceHealth = "ONLINE"
	HealthStale    DeviceHealth = "STALE"
	HealthOffline  DeviceHealth = "OFFLINE"
	HealthDisabled DeviceHealth = "DISABLED"
)

type SessionEndReason string

const (
	SessionEndExpired         SessionEndReason = "EXPIRED"
	SessionEndRotated         SessionEndReason = "ROTATED"
	SessionEndManual          SessionEndReason = "MANUAL"
	SessionEndHeartbeatTimeout SessionEndReason = "HEARTBEAT_TIMEOUT"
)

// KioskDeviceSession is at most one active session per device; starting
// a new session ends any existing active one.
type KioskDeviceSession struct {
	BaseModel
	OrgID             uuid.UUID         `gorm:"type:text;not null;index" json:"org_id"`
	DeviceID          uuid.UUID         `gorm:"type:text;not null;index:idx_kiosk_session_active" json:"device_id"`
	StartedAt         time.Time         `gorm:"not null" json:"started_at"`
	LastHeartbeatAt   time.Time         `gorm:"not null" json:"last_heartbeat_at"`
	EndedAt           *time.Time        `gorm:"index:idx_kiosk_session_active" json:"ended_at,omitempty"`
	EndedReason       *SessionEndReason `gorm:"size:20" json:"ended_reason,omitempty"`
}

func (KioskDeviceSession) TableName() string { return "kiosk_device_sessions" }

// KioskPINAttempt is an append-only record of every PIN verification
// attempt at a device, success or failure. The PIN itself is masked to
// its last two digits - the raw value is never stored.
type KioskPINAttempt struct {
	BaseModel
	OrgID     uuid.UUID  `gorm:"type:text;not null;index" json:"org_id"`
	DeviceID  uuid.UUID  `gorm:"type:text;not null;index:idx_pin_attempt_device_time" json:"device_id"`
	AttemptedAt time.Time `gorm:"not null;index:idx_pin_attempt_device_time" json:"attempted_at"`
	MaskedPIN string     `gorm:"size:10;not null" json:"masked_pin"`
	Success   bool       `gorm:"not null;index" json:"success"`
	UserID    *uuid.UUID `gorm:"type:text" json:"user_id,omitempty"`
	IP        string     `gorm:"size:64" json:"ip,omitempty"`
}

func (KioskPINAttempt) TableName() string { return "kiosk_pin_attempts" }

type KioskBatchStatus string

const (
	BatchReceived  KioskBatchStatus = "RECEIVED"
	BatchProcessed KioskBatchStatus = "PROCESSED"
)

// KioskEventBatch is unique by (device, batch-id) - the idempotency
// anchor for offline replay.
type KioskEventBatch struct {
	BaseModel
	OrgID         uuid.UUID        `gorm:"type:text;not null;index" json:"org_id"`
	DeviceID      uuid.UUID        `gorm:"type:text;not null;index:idx_batch_device_id,unique" json:"device_id"`
	ClientBatchID string           `gorm:"size:100;not null;index:idx_batch_device_id,unique" json:"batch_id"`
	EventCount    int              `gorm:"not null" json:"event_count"`
	Status        KioskBatchStatus `gorm:"size:10;not null;default:RECEIVED" json:"status"`
	AcceptedCount int              `gorm:"not null;default:0" json:"accepted_count"`
	RejectedCount int              `gorm:"not null;default:0" json:"rejected_count"`

	Events []KioskEvent `gorm:"foreignKey:BatchID" json:"events,omitempty"`
}

func (KioskEventBatch) TableName() string { return "kiosk_event_batches" }

type KioskEventType string

const (
	EventClockIn    KioskEventType = "CLOCK_IN"
	EventClockOut   KioskEventType = "CLOCK_OUT"
	EventBreakStart KioskEventType = "BREAK_START"
	EventBreakEnd   KioskEventType = "BREAK_END"
)

type KioskEventStatus string

const (
	EventAccepted KioskEventStatus = "ACCEPTED"
	EventRejected KioskEventStatus = "REJECTED"
)

// KioskEvent is unique by (device, idempotency-key) - the per-event
// idempotency anchor.
type KioskEvent struct {
	BaseModel
	OrgID          uuid.UUID        `gorm:"type:text;not null;index" json:"org_id"`
	DeviceID       uuid.UUID        `gorm:"type:text;not null;index:idx_event_device_key,unique" json:"device_id"`
	BatchID        *uuid.UUID       `gorm:"type:text;index" json:"batch_id,omitempty"`
	IdempotencyKey string           `gorm:"size:150;not null;index:idx_event_device_key,unique" json:"idempotency_key"`
	Type           KioskEventType   `gorm:"size:20;not null" json:"type"`
	OccurredAt     time.Time        `gorm:"not null" json:"occurred_at"`
	Status         KioskEventStatus `gorm:"size:10;not null" json:"status"`
	RejectCode     string           `gorm:"size:40" json:"reject_code,omitempty"`
	UserID         *uuid.UUID       `gorm:"type:text" json:"user_id,omitempty"`
	TimeEntryID    *uuid.UUID       `gorm:"type:text" json:"time_entry_id,omitempty"`
	BreakEntryID   *uuid.UUID       `gorm:"type:text" json:"break_entry_id,omitempty"`
}

func (KioskEvent) TableName() string { return "kiosk_events" }
