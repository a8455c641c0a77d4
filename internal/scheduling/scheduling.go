/*
Package scheduling implements shift templates, scheduled-shift CRUD,
publish, conflict detection, and the open-shift claim workflow, built
around a DRAFT->PUBLISHED->IN_PROGRESS->COMPLETED->APPROVED lifecycle
and a shared overlap predicate used by both conflict detection and
claim approval.
*/
package scheduling

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shiftcore/workforce/internal/audit"
	"github.com/shiftcore/workforce/internal/errs"
	"github.com/shiftcore/workforce/internal/models"
	"github.com/shiftcore/workforce/internal/models/enums"
	"github.com/shiftcore/workforce/internal/reqctx"
	"github.com/shiftcore/workforce/internal/store"
)

const (
	MinPlannedMinutes = 60
	MaxPlannedMinutes = 960
)

type Service struct {
	store *store.Store
}

func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

// PlannedMinutes computes the rounded planned-minutes for a shift
// window.
func PlannedMinutes(start, end time.Time) int {
	return int(end.Sub(start).Round(time.Minute).Minutes())
}

func validateWindow(start, end time.Time) error {
	if !start.Before(end) {
		return errs.WithField(errs.Validation, "INVALID_WINDOW", "end_at", "start must be before end")
	}
	minutes := PlannedMinutes(start, end)
	if minutes < MinPlannedMinutes || minutes > MaxPlannedMinutes {
		return errs.WithField(errs.Validation, "INVALID_DURATION", "end_at", "planned minutes must be between 60 and 960")
	}
	return nil
}

// CheckConflicts implements the shared overlap predicate:
// existing.start < requested.end AND existing.end > requested.start,
// over shifts of `userID` excluding CANCELLED (and excluding PUBLISHED
// unless includePublished), and excluding any id in excludeShiftIDs.
// Results are ordered by shift id ascending for deterministic output.
func (sv *Service) CheckConflicts(ctx context.Context, tx *gorm.DB, orgID, userID uuid.UUID, start, end time.Time, excludeShiftIDs []uuid.UUID, includePublished bool) ([]models.ScheduledShift, error) {
	q := tx.WithContext(ctx).
		Where("org_id = ? AND user_id = ?", orgID, userID).
		Where("status <> ?", models.ShiftCancelled).
		Where("start_at < ? AND end_at > ?", end, start)

	if !includePublished {
		q = q.Where("status <> ?", models.ShiftPublished)
	}
	if len(excludeShiftIDs) > 0 {
		q = q.Where("id NOT IN ?", excludeShiftIDs)
	}

	var shifts []models.ScheduledShift
	if err := q.Order("id ASC").Find(&shifts).Error; err != nil {
		return nil, err
	}
	return shifts, nil
}

// CreateShift requires authoring role L4+.
func (sv *Service) CreateShift(ctx context.Context, rc reqctx.Context, branchID uuid.UUID, userID *uuid.UUID, role string, start, end time.Time, now time.Time) (*models.ScheduledShift, error) {
	if !rc.RequireRole(enums.RoleGeneralManager) {
		return nil, errs.New(errs.Forbidden, "INSUFFICIENT_ROLE", "creating shifts requires general-manager role or above")
	}
	if err := validateWindow(start, end); err != nil {
		return nil, err
	}

	var created *models.ScheduledShift
	err := sv.store.WithTransaction(ctx, func(tx *gorm.DB) error {
		if userID != nil {
			conflicts, err := sv.CheckConflicts(ctx, tx, rc.OrgID, *userID, start, end, nil, false)
			if err != nil {
				return err
			}
			if len(conflicts) > 0 {
				return errs.Newf(errs.ConflictOverlap, "SCHEDULE_OVERLAP", "conflicts with shift %s", conflicts[0].ID)
			}
		}

		shift := models.ScheduledShift{
			OrgID:          rc.OrgID,
			BranchID:       branchID,
			UserID:         userID,
			Role:           role,
			StartAt:        start,
			EndAt:          end,
			Status:         models.ShiftDraft,
			IsOpen:         userID == nil,
			PlannedMinutes: PlannedMinutes(start, end),
		}
		if err := tx.Create(&shift).Error; err != nil {
			return err
		}
		if err := audit.Record(ctx, tx, rc.OrgID, rc.UserID, models.ActionShiftCreated, "scheduled_shift", shift.ID, shift, now); err != nil {
			return err
		}
		created = &shift
		return nil
	})
	return created, err
}

func (sv *Service) loadOwnedDraft(tx *gorm.DB, ctx context.Context, orgID, shiftID uuid.UUID) (*models.ScheduledShift, error) {
	var shift models.ScheduledShift
	if err := tx.WithContext(ctx).First(&shift, "id = ?", shiftID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.ErrNotFoundGeneric
		}
		return nil, err
	}
	if shift.OrgID != orgID {
		return nil, errs.ErrCrossOrg
	}
	if shift.Status != models.ShiftDraft {
		return nil, errs.Newf(errs.StateConflict, "NOT_DRAFT", "shift is in state %s, only DRAFT shifts may be mutated", shift.Status)
	}
	return &shift, nil
}

// UpdateShift recomputes planned-minutes and re-checks conflicts
// excluding self. Only legal while the shift is DRAFT.
func (sv *Service) UpdateShift(ctx context.Context, rc reqctx.Context, shiftID uuid.UUID, start, end time.Time, role string, now time.Time) (*models.ScheduledShift, error) {
	if err := validateWindow(start, end); err != nil {
		return nil, err
	}
	var updated *models.ScheduledShift
	err := sv.store.WithTransaction(ctx, func(tx *gorm.DB) error {
		shift, err := sv.loadOwnedDraft(tx, ctx, rc.OrgID, shiftID)
		if err != nil {
			return err
		}
		if shift.UserID != nil {
			conflicts, err := sv.CheckConflicts(ctx, tx, rc.OrgID, *shift.UserID, start, end, []uuid.UUID{shift.ID}, false)
			if err != nil {
				return err
			}
			if len(conflicts) > 0 {
				return errs.Newf(errs.ConflictOverlap, "SCHEDULE_OVERLAP", "conflicts with shift %s", conflicts[0].ID)
			}
		}
		shift.StartAt = start
		shift.EndAt = end
		shift.Role = role
		shift.PlannedMinutes = PlannedMinutes(start, end)
		if err := tx.Save(shift).Error; err != nil {
			return err
		}
		if err := audit.Record(ctx, tx, rc.OrgID, rc.UserID, models.ActionShiftUpdated, "scheduled_shift", shift.ID, shift, now); err != nil {
			return err
		}
		updated = shift
		return nil
	})
	return updated, err
}

// DeleteShift is only legal while the shift is DRAFT.
func (sv *Service) DeleteShift(ctx context.Context, rc reqctx.Context, shiftID uuid.UUID) error {
	return sv.store.WithTransaction(ctx, func(tx *gorm.DB) error {
		shift, err := sv.loadOwnedDraft(tx, ctx, rc.OrgID, shiftID)
		if err != nil {
			return err
		}
		return tx.Delete(shift).Error
	})
}

// CancelShift transitions DRAFT|PUBLISHED -> CANCELLED.
func (sv *Service) CancelShift(ctx context.Context, rc reqctx.Context, shiftID uuid.UUID, reason string, now time.Time) (*models.ScheduledShift, error) {
	var cancelled *models.ScheduledShift
	err := sv.store.WithTransaction(ctx, func(tx *gorm.DB) error {
		var shift models.ScheduledShift
		if err := tx.WithContext(ctx).First(&shift, "id = ?", shiftID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errs.ErrNotFoundGeneric
			}
			return err
		}
		if shift.OrgID != rc.OrgID {
			return errs.ErrCrossOrg
		}
		if shift.Status != models.ShiftDraft && shift.Status != models.ShiftPublished {
			return errs.Newf(errs.StateConflict, "CANNOT_CANCEL", "shift in state %s cannot be cancelled", shift.Status)
		}
		shift.Status = models.ShiftCancelled
		shift.CancelledByID = &rc.UserID
		shift.CancelledAt = &now
		shift.CancelReason = reason
		if err := tx.Save(&shift).Error; err != nil {
			return err
		}
		if err := audit.Record(ctx, tx, rc.OrgID, rc.UserID, models.ActionShiftCancelled, "scheduled_shift", shift.ID, shift, now); err != nil {
			return err
		}
		cancelled = &shift
		return nil
	})
	return cancelled, err
}

// PublishRange publishes every DRAFT shift in (branchID, [from,to]),
// re-validating each against already-PUBLISHED shifts. All-or-nothing:
// any conflict aborts the whole batch.
func (sv *Service) PublishRange(ctx context.Context, rc reqctx.Context, branchID uuid.UUID, from, to time.Time, now time.Time) ([]models.ScheduledShift, error) {
	if !rc.RequireRole(enums.RoleGeneralManager) {
		return nil, errs.New(errs.Forbidden, "INSUFFICIENT_ROLE", "publishing requires general-manager role or above")
	}
	var published []models.ScheduledShift
	err := sv.store.WithTransaction(ctx, func(tx *gorm.DB) error {
		var drafts []models.ScheduledShift
		err := tx.WithContext(ctx).
			Where("org_id = ? AND branch_id = ? AND status = ?", rc.OrgID, branchID, models.ShiftDraft).
			Where("start_at >= ? AND start_at <= ?", from, to).
			Order("id ASC").
			Find(&drafts).Error
		if err != nil {
			return err
		}

		for _, d := range drafts {
			if d.UserID == nil {
				continue
			}
			exclude := make([]uuid.UUID, 0, len(drafts))
			for _, other := range drafts {
				exclude = append(exclude, other.ID)
			}
			conflicts, err := sv.CheckConflicts(ctx, tx, rc.OrgID, *d.UserID, d.StartAt, d.EndAt, exclude, true)
			if err != nil {
				return err
			}
			if len(conflicts) > 0 {
				return errs.Newf(errs.ConflictOverlap, "SCHEDULE_OVERLAP", "shift %s conflicts with %s", d.ID, conflicts[0].ID)
			}
		}

		for i := range drafts {
			drafts[i].Status = models.ShiftPublished
			drafts[i].PublishedByID = &rc.UserID
			drafts[i].PublishedAt = &now
			if err := tx.Save(&drafts[i]).Error; err != nil {
				return err
			}
			if err := audit.Record(ctx, tx, rc.OrgID, rc.UserID, models.ActionShiftPublished, "scheduled_shift", drafts[i].ID, drafts[i], now); err != nil {
				return err
			}
		}
		published = drafts
		return nil
	})
	return published, err
}

// WeeklyOvertimeWarning is a non-blocking advisory check: does adding
// additionalMinutes for the given week push the user's
// published/in-progress minutes past the weekly OT threshold?
func (sv *Service) WeeklyOvertimeWarning(ctx context.Context, tx *gorm.DB, orgID, userID uuid.UUID, weekStart time.Time, additionalMinutes, weeklyThreshold int) (bool, error) {
	weekEnd := weekStart.AddDate(0, 0, 7)
	var shifts []models.ScheduledShift
	err := tx.WithContext(ctx).
		Where("org_id = ? AND user_id = ?", orgID, userID).
		Where("status IN ?", []models.ShiftStatus{models.ShiftPublished, models.ShiftInProgress}).
		Where("start_at >= ? AND start_at < ?", weekStart, weekEnd).
		Find(&shifts).Error
	if err != nil {
		return false, err
	}
	total := additionalMinutes
	for _, s := range shifts {
		total += s.PlannedMinutes
	}
	return total > weeklyThreshold, nil
}

// sortShiftsByID orders shifts by id ascending, the deterministic
// tie-break; nothing in the package calls it.
func sortShiftsByID(shifts []models.ScheduledShift) {
	sort.Slice(shifts, func(i, j int) bool { return shifts[i].ID.String() < shifts[j].ID.String() })
}
