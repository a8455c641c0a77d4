/*
Package timeclock implements the clock-in/clock-out and break state
machine: ClockIn/ClockOut/BreakStart/BreakEnd over a TimeEntry, with
open-shift attachment rules, a geo-fence enforcement hook, and overtime
computation on clock-out.
*/
package timeclock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shiftcore/workforce/internal/audit"
	"github.com/shiftcore/workforce/internal/errs"
	"github.com/shiftcore/workforce/internal/geofence"
	"github.com/shiftcore/workforce/internal/models"
	"github.com/shiftcore/workforce/internal/reqctx"
	"github.com/shiftcore/workforce/internal/store"
)

type Service struct {
	store    *store.Store
	geofence *geofence.Service
}

func NewService(s *store.Store, gf *geofence.Service) *Service {
	return &Service{store: s, geofence: gf}
}

// GeoInput is the optional location payload a clock request carries.
type GeoInput struct {
	Present  bool
	Lat, Lng float64
	Accuracy float64
	Source   models.GeoSource
	Override bool
	Reason   string
}

func validateGeo(g GeoInput) error {
	if !g.Present {
		return nil
	}
	if g.Lat < -90 || g.Lat > 90 {
		return errs.WithField(errs.Validation, "INVALID_LAT", "lat", "latitude must be within [-90, 90]")
	}
	if g.Lng < -180 || g.Lng > 180 {
		return errs.WithField(errs.Validation, "INVALID_LNG", "lng", "longitude must be within [-180, 180]")
	}
	if g.Accuracy < 0 {
		return errs.WithField(errs.Validation, "INVALID_ACCURACY", "accuracy", "accuracy must be >= 0")
	}
	return nil
}

func openEntry(ctx context.Context, tx *gorm.DB, orgID, userID uuid.UUID) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	err := tx.WithContext(ctx).Where("org_id = ? AND user_id = ? AND clock_out_at IS NULL", orgID, userID).First(&entry).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func openBreak(ctx context.Context, tx *gorm.DB, timeEntryID uuid.UUID) (*models.BreakEntry, error) {
	var b models.BreakEntry
	err := tx.WithContext(ctx).Where("time_entry_id = ? AND end_at IS NULL", timeEntryID).First(&b).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ClockIn implements the clock-in rules: reject if already open,
// resolve/validate the shift attachment, validate and persist
// geo-metadata, and create the time entry.
func (s *Service) ClockIn(ctx context.Context, rc reqctx.Context, branchID uuid.UUID, shiftID *uuid.UUID, method models.ClockMethod, geo GeoInput, now time.Time) (*models.TimeEntry, error) {
	var created *models.TimeEntry
	err := s.store.WithTransaction(ctx, func(tx *gorm.DB) error {
		entry, err := s.ClockInTx(ctx, tx, rc, branchID, shiftID, method, geo, now)
		created = entry
		return err
	})
	return created, err
}

// ClockInTx is ClockIn's body run against a caller-supplied transaction,
// for callers (e.g. kiosk batch ingest) that must combine the clock
// action with other writes in a single transaction.
func (s *Service) ClockInTx(ctx context.Context, tx *gorm.DB, rc reqctx.Context, branchID uuid.UUID, shiftID *uuid.UUID, method models.ClockMethod, geo GeoInput, now time.Time) (*models.TimeEntry, error) {
	if err := validateGeo(geo); err != nil {
		return nil, err
	}

	var created *models.TimeEntry
	err := func() error {
		existing, err := openEntry(ctx, tx, rc.OrgID, rc.UserID)
		if err != nil {
			return err
		}
		if existing != nil {
			return errs.New(errs.StateConflict, "ALREADY_CLOCKED_IN", "user already has an open time entry")
		}

		var shift *models.ScheduledShift
		if shiftID != nil {
			var sh models.ScheduledShift
			if err := tx.WithContext(ctx).First(&sh, "id = ?", *shiftID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return errs.ErrNotFoundGeneric
				}
				return err
			}
			if sh.UserID == nil || *sh.UserID != rc.UserID {
				return errs.New(errs.Forbidden, "NOT_YOUR_SHIFT", "shift does not belong to this user")
			}
			if sh.Status != models.ShiftPublished {
				return errs.Newf(errs.StateConflict, "SHIFT_NOT_PUBLISHED", "shift is in state %s", sh.Status)
			}
			if now.Before(sh.StartAt.Add(-15 * time.Minute)) {
				return errs.New(errs.StateConflict, "TOO_EARLY", "cannot clock in more than 15 minutes before shift start")
			}
			shift = &sh
		} else {
			var sh models.ScheduledShift
			err := tx.WithContext(ctx).
				Where("org_id = ? AND branch_id = ? AND user_id = ? AND status = ?", rc.OrgID, branchID, rc.UserID, models.ShiftPublished).
				Where("start_at <= ? AND end_at > ?", now.Add(15*time.Minute), now.Add(15*time.Minute)).
				First(&sh).Error
			if err == nil {
				shift = &sh
			} else if err != gorm.ErrRecordNotFound {
				return err
			}
		}

		entry := models.TimeEntry{
			OrgID:     rc.OrgID,
			BranchID:  branchID,
			UserID:    rc.UserID,
			ClockInAt: now,
			Method:    method,
		}
		if shift != nil {
			entry.ShiftID = &shift.ID
		}
		if geo.Present {
			entry.ClockInLat = &geo.Lat
			entry.ClockInLng = &geo.Lng
			entry.ClockInAccuracy = &geo.Accuracy
			entry.ClockInSource = &geo.Source
			entry.ClockInOverride = geo.Override
			entry.ClockInOverrideReason = geo.Reason
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		if shift != nil {
			shift.Status = models.ShiftInProgress
			if err := tx.Save(shift).Error; err != nil {
				return err
			}
		}

		if err := audit.Record(ctx, tx, rc.OrgID, rc.UserID, models.ActionClockIn, "time_entry", entry.ID, entry, now); err != nil {
			return err
		}
		created = &entry
		return nil
	}()
	return created, err
}

// ClockOut ends any active break first, computes totals, and flips a
// linked IN_PROGRESS shift to COMPLETED.
func (s *Service) ClockOut(ctx context.Context, rc reqctx.Context, geo GeoInput, dailyOTThreshold int, now time.Time) (*models.TimeEntry, error) {
	var result *models.TimeEntry
	err := s.store.WithTransaction(ctx, func(tx *gorm.DB) error {
		entry, err := s.ClockOutTx(ctx, tx, rc, geo, dailyOTThreshold, now)
		result = entry
		return err
	})
	return result, err
}

// ClockOutTx is ClockOut's body against a caller-supplied transaction.
func (s *Service) ClockOutTx(ctx context.Context, tx *gorm.DB, rc reqctx.Context, geo GeoInput, dailyOTThreshold int, now time.Time) (*models.TimeEntry, error) {
	if err := validateGeo(geo); err != nil {
		return nil, err
	}

	var result *models.TimeEntry
	err := func() error {
		entry, err := openEntry(ctx, tx, rc.OrgID, rc.UserID)
		if err != nil {
			return err
		}
		if entry == nil {
			return errs.New(errs.StateConflict, "NOT_CLOCKED_IN", "user has no open time entry")
		}

		brk, err := openBreak(ctx, tx, entry.ID)
		if err != nil {
			return err
		}
		if brk != nil {
			minutes := int(now.Sub(brk.StartAt).Minutes())
			brk.EndAt = &now
			brk.Minutes = &minutes
			if err := tx.Save(brk).Error; err != nil {
				return err
			}
		}

		var breaks []models.BreakEntry
		if err := tx.WithContext(ctx).Where("time_entry_id = ?", entry.ID).Find(&breaks).Error; err != nil {
			return err
		}
		breakMinutes := 0
		for _, b := range breaks {
			if b.Minutes != nil {
				breakMinutes += *b.Minutes
			}
		}

		totalMinutes := int(now.Sub(entry.ClockInAt).Minutes())
		workMinutes := totalMinutes - breakMinutes
		if workMinutes < 0 {
			workMinutes = 0
		}
		overtimeMinutes := workMinutes - dailyOTThreshold
		if overtimeMinutes < 0 {
			overtimeMinutes = 0
		}

		entry.ClockOutAt = &now
		entry.TotalMinutes = &totalMinutes
		entry.BreakMinutes = &breakMinutes
		entry.WorkMinutes = &workMinutes
		entry.OvertimeMinutes = &overtimeMinutes
		if geo.Present {
			entry.ClockOutLat = &geo.Lat
			entry.ClockOutLng = &geo.Lng
			entry.ClockOutAccuracy = &geo.Accuracy
			entry.ClockOutSource = &geo.Source
			entry.ClockOutOverride = geo.Override
			entry.ClockOutOverrideReason = geo.Reason
		}
		if err := tx.Save(entry).Error; err != nil {
			return err
		}

		if entry.ShiftID != nil {
			var shift models.ScheduledShift
			if err := tx.WithContext(ctx).First(&shift, "id = ?", *entry.ShiftID).Error; err == nil && shift.Status == models.ShiftInProgress {
				shift.Status = models.ShiftCompleted
				shift.ActualMinutes = &workMinutes
				shift.OvertimeMinutes = &overtimeMinutes
				if err := tx.Save(&shift).Error; err != nil {
					return err
				}
			}
		}

		if err := audit.Record(ctx, tx, rc.OrgID, rc.UserID, models.ActionClockOut, "time_entry", entry.ID, entry, now); err != nil {
			return err
		}
		result = entry
		return nil
	}()
	return result, err
}

// BreakStart opens a new break on the caller's open time entry.
func (s *Service) BreakStart(ctx context.Context, rc reqctx.Context, now time.Time) (*models.BreakEntry, error) {
	var created *models.BreakEntry
	err := s.store.WithTransaction(ctx, func(tx *gorm.DB) error {
		entry, err := s.BreakStartTx(ctx, tx, rc, now)
		created = entry
		return err
	})
	return created, err
}

// BreakStartTx is BreakStart's body against a caller-supplied transaction.
func (s *Service) BreakStartTx(ctx context.Context, tx *gorm.DB, rc reqctx.Context, now time.Time) (*models.BreakEntry, error) {
	var created *models.BreakEntry
	err := func() error {
		entry, err := openEntry(ctx, tx, rc.OrgID, rc.UserID)
		if err != nil {
			return err
		}
		if entry == nil {
			return errs.New(errs.StateConflict, "NOT_CLOCKED_IN", "user has no open time entry")
		}
		existing, err := openBreak(ctx, tx, entry.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return errs.New(errs.StateConflict, "ALREADY_ON_BREAK", "user already has an open break")
		}
		b := models.BreakEntry{OrgID: rc.OrgID, TimeEntryID: entry.ID, StartAt: now}
		if err := tx.Create(&b).Error; err != nil {
			return err
		}
		if err := audit.Record(ctx, tx, rc.OrgID, rc.UserID, models.ActionBreakStart, "break_entry", b.ID, b, now); err != nil {
			return err
		}
		created = &b
		return nil
	}()
	return created, err
}

// BreakEnd closes the caller's active break.
func (s *Service) BreakEnd(ctx context.Context, rc reqctx.Context, now time.Time) (*models.BreakEntry, error) {
	var result *models.BreakEntry
	err := s.store.WithTransaction(ctx, func(tx *gorm.DB) error {
		entry, err := s.BreakEndTx(ctx, tx, rc, now)
		result = entry
		return err
	})
	return result, err
}

// BreakEndTx is BreakEnd's body against a caller-supplied transaction.
func (s *Service) BreakEndTx(ctx context.Context, tx *gorm.DB, rc reqctx.Context, now time.Time) (*models.BreakEntry, error) {
	var result *models.BreakEntry
	err := func() error {
		entry, err := openEntry(ctx, tx, rc.OrgID, rc.UserID)
		if err != nil {
			return err
		}
		if entry == nil {
			return errs.New(errs.StateConflict, "NOT_CLOCKED_IN", "user has no open time entry")
		}
		b, err := openBreak(ctx, tx, entry.ID)
		if err != nil {
			return err
		}
		if b == nil {
			return errs.New(errs.StateConflict, "NOT_ON_BREAK", "user has no open break")
		}
		minutes := int(now.Sub(b.StartAt).Minutes())
		b.EndAt = &now
		b.Minutes = &minutes
		if err := tx.Save(b).Error; err != nil {
			return err
		}
		if err := audit.Record(ctx, tx, rc.OrgID, rc.UserID, models.ActionBreakEnd, "break_entry", b.ID, b, now); err != nil {
			return err
		}
		result = b
		return nil
	}()
	return result, err
}

// Status is the clock status query response.
type Status struct {
	IsClockedIn  bool
	Entry        *models.TimeEntry
	ActiveBreak  *models.BreakEntry
	TodaysShift  *models.ScheduledShift
}

func (s *Service) GetStatus(ctx context.Context, rc reqctx.Context, branchID uuid.UUID, now time.Time) (Status, error) {
	tx := s.store.Tx(ctx)
	entry, err := openEntry(ctx, tx, rc.OrgID, rc.UserID)
	if err != nil {
		return Status{}, err
	}
	st := Status{IsClockedIn: entry != nil, Entry: entry}
	if entry != nil {
		brk, err := openBreak(ctx, tx, entry.ID)
		if err != nil {
			return Status{}, err
		}
		st.ActiveBreak = brk
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)
	var shift models.ScheduledShift
	err = tx.Where("org_id = ? AND branch_id = ? AND user_id = ?", rc.OrgID, branchID, rc.UserID).
		Where("status IN ?", []models.ShiftStatus{models.ShiftPublished, models.ShiftInProgress}).
		Where("start_at >= ? AND start_at < ?", dayStart, dayEnd).
		First(&shift).Error
	if err == nil {
		st.TodaysShift = &shift
	} else if err != gorm.ErrRecordNotFound {
		return Status{}, err
	}
	return st, nil
}
