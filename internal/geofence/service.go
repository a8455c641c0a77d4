package geofence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shiftcore/workforce/internal/audit"
	"github.com/shiftcore/workforce/internal/errs"
	"github.com/shiftcore/workforce/internal/models"
	"github.com/shiftcore/workforce/internal/models/enums"
	"github.com/shiftcore/workforce/internal/reqctx"
)

// MinOverrideReasonLen is the minimum override-reason length a manager
// override must supply.
const MinOverrideReasonLen = 10

// Service evaluates and logs geo-fence decisions.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Check loads the branch's fence configuration (if any) and evaluates
// it, then logs the resulting event. The decision is computed before
// the log insert, but if the insert fails Check returns that error and
// an empty Decision.
func (s *Service) Check(ctx context.Context, rc reqctx.Context, branchID, userID uuid.UUID, action ClockAction, loc Location, now time.Time) (Decision, error) {
	var fence models.BranchGeoFence
	err := s.db.WithContext(ctx).Where("branch_id = ?", branchID).First(&fence).Error
	var fencePtr *models.BranchGeoFence
	if err == nil {
		fencePtr = &fence
	} else if err != gorm.ErrRecordNotFound {
		return Decision{}, err
	}

	decision := Enforce(fencePtr, action, loc)

	eventType := models.GeoFenceAllowed
	if !decision.Allowed {
		eventType = models.GeoFenceBlocked
	}
	event := models.GeoFenceEvent{
		OrgID:          rc.OrgID,
		BranchID:       branchID,
		UserID:         userID,
		EventType:      eventType,
		ReasonCode:     decision.ReasonCode,
		ClockAction:    string(action),
		DistanceMeters: decision.DistanceMeters,
		OccurredAt:     now,
	}
	if loc.Present {
		event.Lat = &loc.Lat
		event.Lng = &loc.Lng
	}
	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		return Decision{}, err
	}

	return decision, nil
}

// Override applies a manager override for a blocked clock action.
// Requires role >= L3 and a reason of at least MinOverrideReasonLen
// characters. Mutates the time entry's override markers, writes an
// OVERRIDE geo-fence event, and appends an audit entry, all inside tx.
func (s *Service) Override(ctx context.Context, tx *gorm.DB, rc reqctx.Context, entry *models.TimeEntry, action ClockAction, reason string, now time.Time) error {
	if !rc.RequireRole(enums.RoleManager) {
		return errs.New(errs.Forbidden, "FORBIDDEN", "geofence override requires manager role or above")
	}
	if len(reason) < MinOverrideReasonLen {
		return errs.WithField(errs.Validation, "VALIDATION", "reason", "override reason must be at least 10 characters")
	}

	if action == ClockIn {
		entry.ClockInOverride = true
		entry.ClockInOverrideReason = reason
	} else {
		entry.ClockOutOverride = true
		entry.ClockOutOverrideReason = reason
	}
	if err := tx.Save(entry).Error; err != nil {
		return err
	}

	event := models.GeoFenceEvent{
		OrgID:          rc.OrgID,
		BranchID:       entry.BranchID,
		UserID:         entry.UserID,
		EventType:      models.GeoFenceOverride,
		ClockAction:    string(action),
		OverrideReason: reason,
		OccurredAt:     now,
	}
	if err := tx.Create(&event).Error; err != nil {
		return err
	}

	return audit.Record(ctx, tx, rc.OrgID, rc.UserID, models.ActionGeoFenceOverride, "time_entry", entry.ID, map[string]interface{}{
		"action": action,
		"reason": reason,
	}, now)
}
