package kiosk

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shiftcore/workforce/internal/audit"
	"github.com/shiftcore/workforce/internal/errs"
	"github.com/shiftcore/workforce/internal/models"
	"github.com/shiftcore/workforce/internal/reqctx"
	"github.com/shiftcore/workforce/internal/timeclock"
)

const MaxBatchEvents = 100

var pinFormat = regexp.MustCompile(`^\d{4,6}$`)

// EventInput is one caller-supplied event, online or batched.
type EventInput struct {
	Type           models.KioskEventType
	IdempotencyKey string
	OccurredAt     time.Time
	PIN            string
}

// EventResult is the per-event outcome, used for both the single and
// the batch response shapes.
type EventResult struct {
	IdempotencyKey string
	Status         models.KioskEventStatus
	Code           string
	TimeEntryID    *uuid.UUID
	BreakEntryID   *uuid.UUID
}

// dispatchTx delegates an authenticated event to the timeclock state
// machine against the caller's transaction, so the clock action, the
// kiosk event row, and its audit record land in one transaction.
func (s *Service) dispatchTx(ctx context.Context, tx *gorm.DB, rc reqctx.Context, branchID uuid.UUID, ev EventInput, dailyOTThresholdMinutes int, now time.Time) (timeEntryID, breakEntryID *uuid.UUID, err error) {
	switch ev.Type {
	case models.EventClockIn:
		entry, err := s.timeclock.ClockInTx(ctx, tx, rc, branchID, nil, models.ClockMethodKioskPIN, timeclock.GeoInput{}, now)
		if err != nil {
			return nil, nil, err
		}
		return &entry.ID, nil, nil
	case models.EventClockOut:
		entry, err := s.timeclock.ClockOutTx(ctx, tx, rc, timeclock.GeoInput{}, dailyOTThresholdMinutes, now)
		if err != nil {
			return nil, nil, err
		}
		return &entry.ID, nil, nil
	case models.EventBreakStart:
		b, err := s.timeclock.BreakStartTx(ctx, tx, rc, now)
		if err != nil {
			return nil, nil, err
		}
		return nil, &b.ID, nil
	case models.EventBreakEnd:
		b, err := s.timeclock.BreakEndTx(ctx, tx, rc, now)
		if err != nil {
			return nil, nil, err
		}
		return nil, &b.ID, nil
	default:
		return nil, nil, errs.New(errs.Validation, "UNKNOWN_EVENT_TYPE", "unrecognized kiosk event type")
	}
}

// writeEventRow appends the KioskEvent ledger row and its audit record.
// Called from inside the same transaction as the clock action (or, for
// a pre-authentication rejection, as the sole write of that transaction).
func writeEventRow(ctx context.Context, tx *gorm.DB, device models.KioskDevice, batchID *uuid.UUID, ev EventInput, userID *uuid.UUID, timeEntryID, breakEntryID *uuid.UUID, opErr error, now time.Time) (EventResult, error) {
	status := models.EventAccepted
	code := ""
	if opErr != nil {
		status = models.EventRejected
		var e *errs.Error
		if errors.As(opErr, &e) {
			code = e.Code
		} else {
			code = "UNKNOWN_ERROR"
		}
	}

	row := models.KioskEvent{
		OrgID:          device.OrgID,
		DeviceID:       device.ID,
		BatchID:        batchID,
		IdempotencyKey: ev.IdempotencyKey,
		Type:           ev.Type,
		OccurredAt:     ev.OccurredAt,
		Status:         status,
		RejectCode:     code,
		UserID:         userID,
		TimeEntryID:    timeEntryID,
		BreakEntryID:   breakEntryID,
	}
	if err := tx.Create(&row).Error; err != nil {
		return EventResult{}, err
	}

	action := models.ActionKioskEventAccepted
	if status == models.EventRejected {
		action = models.ActionKioskEventRejected
	}
	actorID := uuid.Nil
	if userID != nil {
		actorID = *userID
	}
	if err := audit.Record(ctx, tx, device.OrgID, actorID, action, "kiosk_event", row.ID, row, now); err != nil {
		return EventResult{}, err
	}

	return EventResult{
		IdempotencyKey: ev.IdempotencyKey,
		Status:         status,
		Code:           code,
		TimeEntryID:    timeEntryID,
		BreakEntryID:   breakEntryID,
	}, nil
}

// processOneEvent runs PIN verification (always recorded), the
// delegated clock action, and the kiosk event ledger write in a single
// transaction. batchID is nil for the online single-event path.
func (s *Service) processOneEvent(ctx context.Context, device models.KioskDevice, batchID *uuid.UUID, ev EventInput, ip string, pinRateLimit, dailyOTThresholdMinutes int, now time.Time) (EventResult, error) {
	var result EventResult
	err := s.store.WithTransaction(ctx, func(tx *gorm.DB) error {
		if !pinFormat.MatchString(ev.PIN) {
			res, err := writeEventRow(ctx, tx, device, batchID, ev, nil, nil, nil,
				errs.New(errs.Validation, "INVALID_PIN_FORMAT", "PIN must be 4 to 6 digits"), now)
			result = res
			return err
		}

		allowed, err := s.CheckRateLimit(ctx, device.ID, pinRateLimit, now)
		if err != nil {
			return err
		}
		if !allowed {
			if err := audit.Record(ctx, tx, device.OrgID, uuid.Nil, models.ActionKioskRateLimited, "kiosk_device", device.ID, nil, now); err != nil {
				return err
			}
			res, err := writeEventRow(ctx, tx, device, batchID, ev, nil, nil, nil,
				errs.New(errs.RateLimited, "RATE_LIMITED", "too many invalid PIN attempts"), now)
			result = res
			return err
		}

		matched, err := PINLookup(ctx, tx, device.OrgID, ev.PIN)
		if err != nil {
			return err
		}
		var userID *uuid.UUID
		if matched != nil {
			userID = &matched.ID
		}
		if err := RecordAttempt(ctx, tx, device.OrgID, device.ID, ev.PIN, matched != nil, userID, ip, now); err != nil {
			return err
		}
		if matched == nil {
			res, err := writeEventRow(ctx, tx, device, batchID, ev, nil, nil, nil,
				errs.New(errs.Auth, "INVALID_PIN", "no user matched this PIN"), now)
			result = res
			return err
		}

		rc := reqctx.Context{OrgID: device.OrgID, UserID: matched.ID}
		timeEntryID, breakEntryID, opErr := s.dispatchTx(ctx, tx, rc, device.BranchID, ev, dailyOTThresholdMinutes, now)
		res, err := writeEventRow(ctx, tx, device, batchID, ev, userID, timeEntryID, breakEntryID, opErr, now)
		result = res
		return err
	})
	return result, err
}

// ProcessSingleEvent implements the online single-event path:
// validate session, derive the device, then delegate to
// processOneEvent.
func (s *Service) ProcessSingleEvent(ctx context.Context, sessionID uuid.UUID, ev EventInput, ip string, sessionTimeoutMinutes, pinRateLimit, dailyOTThresholdMinutes int, now time.Time) (EventResult, error) {
	tx := s.store.Tx(ctx)
	sess, err := s.ValidateSession(ctx, tx, sessionID, sessionTimeoutMinutes, now)
	if err != nil {
		return EventResult{}, err
	}
	var device models.KioskDevice
	if err := tx.First(&device, "id = ?", sess.DeviceID).Error; err != nil {
		return EventResult{}, err
	}
	return s.processOneEvent(ctx, device, nil, ev, ip, pinRateLimit, dailyOTThresholdMinutes, now)
}

// ProcessBatch implements offline batch replay: batch- and
// event-level idempotency, the max event-count and non-empty-batch
// checks, and strict in-order per-event processing where a rejected
// event never aborts the rest of the batch.
func (s *Service) ProcessBatch(ctx context.Context, sessionID uuid.UUID, batchID string, events []EventInput, ip string, sessionTimeoutMinutes, pinRateLimit, dailyOTThresholdMinutes int, now time.Time) ([]EventResult, error) {
	if len(events) == 0 {
		return nil, errs.New(errs.Validation, "EMPTY_BATCH", "batch must contain at least one event")
	}
	if len(events) > MaxBatchEvents {
		return nil, errs.Newf(errs.Validation, "BATCH_TOO_LARGE", "batch exceeds the %d event limit", MaxBatchEvents)
	}

	tx := s.store.Tx(ctx)
	sess, err := s.ValidateSession(ctx, tx, sessionID, sessionTimeoutMinutes, now)
	if err != nil {
		return nil, err
	}
	var device models.KioskDevice
	if err := tx.First(&device, "id = ?", sess.DeviceID).Error; err != nil {
		return nil, err
	}

	var existing models.KioskEventBatch
	err = tx.Where("device_id = ? AND client_batch_id = ?", device.ID, batchID).First(&existing).Error
	if err == nil {
		// Idempotent replay: the response for a known batch id is
		// reconstructed from storage, no event is reapplied.
		return s.loadStoredResults(ctx, tx, device.ID, events)
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	batch := models.KioskEventBatch{
		OrgID:         device.OrgID,
		DeviceID:      device.ID,
		ClientBatchID: batchID,
		EventCount:    len(events),
		Status:        models.BatchReceived,
	}
	if err := s.store.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&batch).Error; err != nil {
			return err
		}
		return audit.Record(ctx, tx, device.OrgID, uuid.Nil, models.ActionKioskBatchReceived, "kiosk_event_batch", batch.ID, map[string]interface{}{"event_count": len(events)}, now)
	}); err != nil {
		return nil, err
	}

	// Per-event results commit incrementally (one transaction each) so a
	// failure mid-batch still leaves earlier results durable.
	results := make([]EventResult, 0, len(events))
	accepted, rejected := 0, 0
	for _, ev := range events {
		res, err := s.processBatchEvent(ctx, device, batch.ID, ev, ip, pinRateLimit, dailyOTThresholdMinutes, now)
		if err != nil {
			return results, err
		}
		results = append(results, res)
		if res.Status == models.EventAccepted {
			accepted++
		} else {
			rejected++
		}
	}

	batch.Status = models.BatchProcessed
	batch.AcceptedCount = accepted
	batch.RejectedCount = rejected
	if err := s.store.Tx(ctx).Save(&batch).Error; err != nil {
		return results, err
	}
	return results, nil
}

// processBatchEvent is one array element of a batch: it checks
// per-event idempotency first, then delegates to processOneEvent for
// the authenticate-then-dispatch sequence.
func (s *Service) processBatchEvent(ctx context.Context, device models.KioskDevice, batchID uuid.UUID, ev EventInput, ip string, pinRateLimit, dailyOTThresholdMinutes int, now time.Time) (EventResult, error) {
	var existing models.KioskEvent
	err := s.store.Tx(ctx).Where("device_id = ? AND idempotency_key = ?", device.ID, ev.IdempotencyKey).First(&existing).Error
	if err == nil {
		return EventResult{
			IdempotencyKey: ev.IdempotencyKey,
			Status:         existing.Status,
			Code:           existing.RejectCode,
			TimeEntryID:    existing.TimeEntryID,
			BreakEntryID:   existing.BreakEntryID,
		}, nil
	}
	if err != gorm.ErrRecordNotFound {
		return EventResult{}, err
	}
	return s.processOneEvent(ctx, device, &batchID, ev, ip, pinRateLimit, dailyOTThresholdMinutes, now)
}

func (s *Service) loadStoredResults(ctx context.Context, tx *gorm.DB, deviceID uuid.UUID, events []EventInput) ([]EventResult, error) {
	out := make([]EventResult, 0, len(events))
	for _, ev := range events {
		var row models.KioskEvent
		err := tx.WithContext(ctx).Where("device_id = ? AND idempotency_key = ?", deviceID, ev.IdempotencyKey).First(&row).Error
		if err != nil {
			return nil, err
		}
		out = append(out, EventResult{
			IdempotencyKey: ev.IdempotencyKey,
			Status:         row.Status,
			Code:           row.RejectCode,
			TimeEntryID:    row.TimeEntryID,
			BreakEntryID:   row.BreakEntryID,
		})
	}
	return out, nil
}
