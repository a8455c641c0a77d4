package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shiftcore/workforce/internal/errs"
	"github.com/shiftcore/workforce/internal/models"
)

// LayeredCheck runs the three-step gate used by swaps and claims:
// pay-period lock, schedule overlap, then soft availability.
func (sv *Service) LayeredCheck(ctx context.Context, tx *gorm.DB, orgID, branchID, userID uuid.UUID, start, end time.Time, excludeShiftIDs []uuid.UUID) error {
	var period models.PayPeriod
	err := tx.WithContext(ctx).
		Where("org_id = ? AND (branch_id = ? OR branch_id IS NULL)", orgID, branchID).
		Where("start_date <= ? AND end_date >= ?", start, start).
		First(&period).Error
	if err == nil {
		if period.Status == models.PayPeriodClosed || period.Status == models.PayPeriodExported {
			return errs.New(errs.StateConflict, "PAY_PERIOD_LOCKED", "the pay period covering this date is locked")
		}
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	conflicts, err := sv.CheckConflicts(ctx, tx, orgID, userID, start, end, excludeShiftIDs, false)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return errs.Newf(errs.ConflictOverlap, "SCHEDULE_OVERLAP", "conflicts with shift %s", conflicts[0].ID)
	}

	return sv.checkAvailability(ctx, tx, orgID, userID, start, end)
}

func (sv *Service) checkAvailability(ctx context.Context, tx *gorm.DB, orgID, userID uuid.UUID, start, end time.Time) error {
	date := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())

	var exception models.AvailabilityException
	err := tx.WithContext(ctx).
		Where("org_id = ? AND user_id = ? AND date = ?", orgID, userID, date).
		First(&exception).Error
	if err == nil {
		if !exception.Available {
			return errs.New(errs.ConflictOverlap, "UNAVAILABLE", "user marked unavailable on this date")
		}
		if exception.StartTime != "" && exception.EndTime != "" && !withinWindow(start, end, exception.StartTime, exception.EndTime) {
			return errs.New(errs.ConflictOverlap, "OUTSIDE_AVAILABILITY", "shift falls outside the user's availability exception window")
		}
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	var slots []models.AvailabilitySlot
	if err := tx.WithContext(ctx).Where("org_id = ? AND user_id = ? AND weekday = ?", orgID, userID, int(start.Weekday())).Find(&slots).Error; err != nil {
		return err
	}
	if len(slots) == 0 {
		return nil // no configuration -> allow by default
	}
	for _, slot := range slots {
		if withinWindow(start, end, slot.StartTime, slot.EndTime) {
			return nil
		}
	}
	return errs.New(errs.ConflictOverlap, "OUTSIDE_AVAILABILITY", "shift falls outside every configured availability slot")
}

func withinWindow(start, end time.Time, startHHMM, endHHMM string) bool {
	ws, werr := time.Parse("15:04", startHHMM)
	we, eerr := time.Parse("15:04", endHHMM)
	if werr != nil || eerr != nil {
		return true
	}
	dayStart := time.Date(start.Year(), start.Month(), start.Day(), ws.Hour(), ws.Minute(), 0, 0, start.Location())
	dayEnd := time.Date(start.Year(), start.Month(), start.Day(), we.Hour(), we.Minute(), 0, 0, start.Location())
	return !start.Before(dayStart) && !end.After(dayEnd)
}
