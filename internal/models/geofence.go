package models

import (
	"time"

	"github.com/google/uuid"
)

// BranchGeoFence is the optional geo-fence configuration for one branch.
type BranchGeoFence struct {
	BaseModel
	OrgID               uuid.UUID `gorm:"type:text;not null;index" json:"org_id"`
	BranchID            uuid.UUID `gorm:"type:text;not null;uniqueIndex" json:"branch_id"`
	Enabled             bool      `gorm:"default:false" json:"enabled"`
	CenterLat           float64   `json:"center_lat"`
	CenterLng           float64   `json:"center_lng"`
	RadiusMeters         float64   `gorm:"not null" json:"radius_meters"`
	EnforceClockIn      bool      `gorm:"default:false" json:"enforce_clock_in"`
	EnforceClockOut     bool      `gorm:"default:false" json:"enforce_clock_out"`
	AllowManagerOverride bool     `gorm:"default:false" json:"allow_manager_override"`
	MaxAccuracyMeters    float64  `gorm:"not null;default:200" json:"max_accuracy_meters"`
}

func (BranchGeoFence) TableName() string { return "branch_geofences" }

type GeoFenceEventType string

const (
	GeoFenceBlocked  GeoFenceEventType = "BLOCKED"
	GeoFenceOverride GeoFenceEventType = "OVERRIDE"
	GeoFenceAllowed  GeoFenceEventType = "ALLOWED"
)

type GeoFenceReasonCode string

const (
	ReasonOutsideGeofence GeoFenceReasonCode = "OUTSIDE_GEOFENCE"
	ReasonAccuracyTooLow  GeoFenceReasonCode = "ACCURACY_TOO_LOW"
	ReasonMissingLocation GeoFenceReasonCode = "MISSING_LOCATION"
)

// GeoFenceEvent logs every block/allow/override decision for analytics.
type GeoFenceEvent struct {
	BaseModel
	OrgID          uuid.UUID          `gorm:"type:text;not null;index" json:"org_id"`
	BranchID       uuid.UUID          `gorm:"type:text;not null;index" json:"branch_id"`
	UserID         uuid.UUID          `gorm:"type:text;not null;index" json:"user_id"`
	EventType      GeoFenceEventType  `gorm:"size:10;not null" json:"event_type"`
	ReasonCode     GeoFenceReasonCode `gorm:"size:25" json:"reason_code,omitempty"`
	ClockAction    string             `gorm:"size:20;not null" json:"clock_action"`
	Lat            *float64           `json:"lat,omitempty"`
	Lng            *float64           `json:"lng,omitempty"`
	DistanceMeters *float64           `json:"distance_meters,omitempty"`
	OverrideReason string             `gorm:"size:500" json:"override_reason,omitempty"`
	OccurredAt     time.Time          `gorm:"not null" json:"occurred_at"`
}

func (GeoFenceEvent) TableName() string { return "geofence_events" }
