package kiosk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shiftcore/workforce/internal/models"
)

func TestMaskPINKeepsLastTwoDigits(t *testing.T) {
	assert.Equal(t, "**34", MaskPIN("1234"))
	assert.Equal(t, "12", MaskPIN("12"))
	assert.Equal(t, "1", MaskPIN("1"))
	assert.Equal(t, "****56", MaskPIN("123456"))
}

func TestDeviceHealthDisabled(t *testing.T) {
	d := models.KioskDevice{Enabled: false}
	assert.Equal(t, models.HealthDisabled, DeviceHealth(d, time.Now()))
}

func TestDeviceHealthOfflineWhenNeverSeen(t *testing.T) {
	d := models.KioskDevice{Enabled: true}
	assert.Equal(t, models.HealthOffline, DeviceHealth(d, time.Now()))
}

func TestDeviceHealthOnlineWhenRecent(t *testing.T) {
	now := time.Now()
	seen := now.Add(-1 * time.Minute)
	d := models.KioskDevice{Enabled: true, LastSeenAt: &seen}
	assert.Equal(t, models.HealthOnline, DeviceHealth(d, now))
}

func TestDeviceHealthStaleBetweenThresholds(t *testing.T) {
	now := time.Now()
	seen := now.Add(-10 * time.Minute)
	d := models.KioskDevice{Enabled: true, LastSeenAt: &seen}
	assert.Equal(t, models.HealthStale, DeviceHealth(d, now))
}

func TestDeviceHealthOfflineBeyondThreshold(t *testing.T) {
	now := time.Now()
	seen := now.Add(-45 * time.Minute)
	d := models.KioskDevice{Enabled: true, LastSeenAt: &seen}
	assert.Equal(t, models.HealthOffline, DeviceHealth(d, now))
}
