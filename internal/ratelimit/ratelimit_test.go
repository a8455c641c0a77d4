package ratelimit

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
)

func newTestCounter(t *testing.T) (*Counter, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.KioskPINAttempt{}))
	return New(db), db
}

func seedAttempts(t *testing.T, db *gorm.DB, deviceID uuid.UUID, n int, success bool, at time.Time) {
	t.Helper()
	for i := 0; i < n; i++ {
		a := models.KioskPINAttempt{
			OrgID: uuid.New(), DeviceID: deviceID, AttemptedAt: at,
			MaskedPIN: "**00", Success: success,
		}
		require.NoError(t, db.Create(&a).Error)
	}
}

func TestCheckAndCountAllowsUnderLimit(t *testing.T) {
	counter, db := newTestCounter(t)
	deviceID := uuid.New()
	now := time.Now()
	seedAttempts(t, db, deviceID, 2, false, now)

	allowed, remaining, err := counter.CheckAndCount(context.Background(), "kiosk_pin_attempts", "device_id", "attempted_at", deviceID, now, 60, 5)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 2, remaining)
}

func TestCheckAndCountBlocksAtLimit(t *testing.T) {
	counter, db := newTestCounter(t)
	deviceID := uuid.New()
	now := time.Now()
	seedAttempts(t, db, deviceID, 5, false, now)

	allowed, remaining, err := counter.CheckAndCount(context.Background(), "kiosk_pin_attempts", "device_id", "attempted_at", deviceID, now, 60, 5)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
}

func TestCheckAndCountIgnoresAttemptsOutsideWindow(t *testing.T) {
	counter, db := newTestCounter(t)
	deviceID := uuid.New()
	now := time.Now()
	seedAttempts(t, db, deviceID, 5, false, now.Add(-2*time.Minute))

	allowed, remaining, err := counter.CheckAndCount(context.Background(), "kiosk_pin_attempts", "device_id", "attempted_at", deviceID, now, 60, 5)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 4, remaining)
}

func TestCheckAndCountWhereExcludesSuccessfulAttempts(t *testing.T) {
	counter, db := newTestCounter(t)
	deviceID := uuid.New()
	now := time.Now()
	seedAttempts(t, db, deviceID, 10, true, now)
	seedAttempts(t, db, deviceID, 1, false, now)

	allowed, remaining, err := counter.CheckAndCountWhere(context.Background(), "kiosk_pin_attempts", "device_id", "attempted_at", deviceID, now, 60, 5, "success = ?", false)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 3, remaining)
}

func TestCheckAndCountIsScopedPerKey(t *testing.T) {
	counter, db := newTestCounter(t)
	deviceA, deviceB := uuid.New(), uuid.New()
	now := time.Now()
	seedAttempts(t, db, deviceA, 5, false, now)

	allowed, _, err := counter.CheckAndCount(context.Background(), "kiosk_pin_attempts", "device_id", "attempted_at", deviceB, now, 60, 5)
	require.NoError(t, err)
	assert.True(t, allowed)
}
