package kiosk

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shiftcore/workforce/internal/models"
	"github.com/shiftcore/workforce/internal/ratelimit"
	"github.com/shiftcore/workforce/internal/secrethash"
	"github.com/shiftcore/workforce/internal/store"
	"github.com/shiftcore/workforce/internal/timeclock"
)

func newIngestTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.KioskDevice{},
		&models.KioskDeviceSession{},
		&models.KioskPINAttempt{},
		&models.KioskEventBatch{},
		&models.KioskEvent{},
		&models.User{},
		&models.TimeEntry{},
		&models.BreakEntry{},
		&models.ScheduledShift{},
		&models.AuditLogEntry{},
	))
	st := store.New(db)
	tc := timeclock.NewService(st, nil)
	return NewService(st, tc, ratelimit.New(db)), st
}

func seedDeviceAndUser(t *testing.T, st *store.Store, pin string) (models.KioskDevice, models.User) {
	t.Helper()
	orgID := uuid.New()
	pinHash, err := secrethash.Hash(pin)
	require.NoError(t, err)
	user := models.User{OrgID: orgID, FullName: "Employee One", IsActive: true, PinHash: pinHash}
	require.NoError(t, st.Tx(context.Background()).Create(&user).Error)
	device := models.KioskDevice{OrgID: orgID, BranchID: uuid.New(), PublicID: "kiosk-1", SecretHash: "x", Enabled: true}
	require.NoError(t, st.Tx(context.Background()).Create(&device).Error)
	return device, user
}

func TestProcessOneEventAcceptsValidPINClockIn(t *testing.T) {
	svc, st := newIngestTestService(t)
	device, user := seedDeviceAndUser(t, st, "4321")
	now := time.Now()

	res, err := svc.processOneEvent(context.Background(), device, nil, EventInput{
		Type: models.EventClockIn, IdempotencyKey: "evt-1", OccurredAt: now, PIN: "4321",
	}, "127.0.0.1", 5, 480, now)
	require.NoError(t, err)
	assert.Equal(t, models.EventAccepted, res.Status)
	require.NotNil(t, res.TimeEntryID)

	var entry models.TimeEntry
	require.NoError(t, st.Tx(context.Background()).First(&entry, "id = ?", *res.TimeEntryID).Error)
	assert.Equal(t, user.ID, entry.UserID)
}

func TestProcessOneEventRejectsMalformedPIN(t *testing.T) {
	svc, st := newIngestTestService(t)
	device, _ := seedDeviceAndUser(t, st, "4321")
	now := time.Now()

	res, err := svc.processOneEvent(context.Background(), device, nil, EventInput{
		Type: models.EventClockIn, IdempotencyKey: "evt-bad", OccurredAt: now, PIN: "12",
	}, "127.0.0.1", 5, 480, now)
	require.NoError(t, err)
	assert.Equal(t, models.EventRejected, res.Status)
	assert.Equal(t, "INVALID_PIN_FORMAT", res.Code)
}

func TestProcessOneEventRejectsUnknownPIN(t *testing.T) {
	svc, st := newIngestTestService(t)
	device, _ := seedDeviceAndUser(t, st, "4321")
	now := time.Now()

	res, err := svc.processOneEvent(context.Background(), device, nil, EventInput{
		Type: models.EventClockIn, IdempotencyKey: "evt-2", OccurredAt: now, PIN: "9999",
	}, "127.0.0.1", 5, 480, now)
	require.NoError(t, err)
	assert.Equal(t, models.EventRejected, res.Status)
	assert.Equal(t, "INVALID_PIN", res.Code)
}

func TestProcessBatchIsIdempotentOnRepeatedBatchID(t *testing.T) {
	svc, st := newIngestTestService(t)
	device, _ := seedDeviceAndUser(t, st, "4321")
	now := time.Now()
	sess := models.KioskDeviceSession{OrgID: device.OrgID, DeviceID: device.ID, StartedAt: now, LastHeartbeatAt: now}
	require.NoError(t, st.Tx(context.Background()).Create(&sess).Error)

	events := []EventInput{{Type: models.EventClockIn, IdempotencyKey: "b1-e1", OccurredAt: now, PIN: "4321"}}

	first, err := svc.ProcessBatch(context.Background(), sess.ID, "batch-1", events, "127.0.0.1", 30, 5, 480, now)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, models.EventAccepted, first[0].Status)

	second, err := svc.ProcessBatch(context.Background(), sess.ID, "batch-1", events, "127.0.0.1", 30, 5, 480, now.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].TimeEntryID, second[0].TimeEntryID)

	var count int64
	require.NoError(t, st.Tx(context.Background()).Model(&models.TimeEntry{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestProcessBatchRejectsEmptyBatch(t *testing.T) {
	svc, st := newIngestTestService(t)
	device, _ := seedDeviceAndUser(t, st, "4321")
	now := time.Now()
	sess := models.KioskDeviceSession{OrgID: device.OrgID, DeviceID: device.ID, StartedAt: now, LastHeartbeatAt: now}
	require.NoError(t, st.Tx(context.Background()).Create(&sess).Error)

	_, err := svc.ProcessBatch(context.Background(), sess.ID, "batch-empty", nil, "127.0.0.1", 30, 5, 480, now)
	require.Error(t, err)
}

func TestProcessBatchRejectsOversizedBatch(t *testing.T) {
	svc, st := newIngestTestService(t)
	device, _ := seedDeviceAndUser(t, st, "4321")
	now := time.Now()
	sess := models.KioskDeviceSession{OrgID: device.OrgID, DeviceID: device.ID, StartedAt: now, LastHeartbeatAt: now}
	require.NoError(t, st.Tx(context.Background()).Create(&sess).Error)

	events := make([]EventInput, MaxBatchEvents+1)
	for i := range events {
		events[i] = EventInput{Type: models.EventClockIn, IdempotencyKey: uuid.NewString(), OccurredAt: now, PIN: "4321"}
	}
	_, err := svc.ProcessBatch(context.Background(), sess.ID, "batch-big", events, "127.0.0.1", 30, 5, 480, now)
	require.Error(t, err)
}

func TestProcessBatchContinuesAfterARejectedEvent(t *testing.T) {
	svc, st := newIngestTestService(t)
	device, _ := seedDeviceAndUser(t, st, "4321")
	now := time.Now()
	sess := models.KioskDeviceSession{OrgID: device.OrgID, DeviceID: device.ID, StartedAt: now, LastHeartbeatAt: now}
	require.NoError(t, st.Tx(context.Background()).Create(&sess).Error)

	events := []EventInput{
		{Type: models.EventClockIn, IdempotencyKey: "e1", OccurredAt: now, PIN: "0000"},
		{Type: models.EventClockIn, IdempotencyKey: "e2", OccurredAt: now.Add(time.Minute), PIN: "4321"},
	}
	results, err := svc.ProcessBatch(context.Background(), sess.ID, "batch-mixed", events, "127.0.0.1", 30, 5, 480, now)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, models.EventRejected, results[0].Status)
	assert.Equal(t, models.EventAccepted, results[1].Status)
}
