/*
Package kiosk implements shared-device authentication, PIN-based
employee identification, rate-limited attempt tracking, and idempotent
offline-batch replay. Device login follows the same session/heartbeat
shape as a human login, generalized to a shared device rather than a
single user, and relies on secrethash for the non-reversible secret
comparison.
*/
package kiosk

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shiftcore/workforce/internal/audit"
	"github.com/shiftcore/workforce/internal/errs"
	"github.com/shiftcore/workforce/internal/models"
	"github.com/shiftcore/workforce/internal/ratelimit"
	"github.com/shiftcore/workforce/internal/secrethash"
	"github.com/shiftcore/workforce/internal/store"
	"github.com/shiftcore/workforce/internal/timeclock"
)

type Service struct {
	store     *store.Store
	timeclock *timeclock.Service
	rateLimit *ratelimit.Counter
}

func NewService(s *store.Store, tc *timeclock.Service, rl *ratelimit.Counter) *Service {
	return &Service{store: s, timeclock: tc, rateLimit: rl}
}

func generateSecret() (string, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// EnrollDevice creates a new kiosk device and returns its plaintext
// secret exactly once; only the hash is ever persisted.
func (s *Service) EnrollDevice(ctx context.Context, orgID, branchID, actorID uuid.UUID, publicID, name string, now time.Time) (*models.KioskDevice, string, error) {
	secret, err := generateSecret()
	if err != nil {
		return nil, "", err
	}
	hash, err := secrethash.Hash(secret)
	if err != nil {
		return nil, "", err
	}

	var device *models.KioskDevice
	err = s.store.WithTransaction(ctx, func(tx *gorm.DB) error {
		d := models.KioskDevice{
			OrgID:      orgID,
			BranchID:   branchID,
			PublicID:   publicID,
			SecretHash: hash,
			Enabled:    true,
			Name:       name,
		}
		if err := tx.Create(&d).Error; err != nil {
			return err
		}
		if err := audit.Record(ctx, tx, orgID, actorID, models.ActionDeviceEnrolled, "kiosk_device", d.ID, map[string]interface{}{"public_id": publicID}, now); err != nil {
			return err
		}
		device = &d
		return nil
	})
	return device, secret, err
}

// RotateSecret issues a new secret hash and ends any active session in
// the same transaction, so a rotated device can never be reached
// through a session started under the old secret.
func (s *Service) RotateSecret(ctx context.Context, orgID, deviceID, actorID uuid.UUID, now time.Time) (string, error) {
	secret, err := generateSecret()
	if err != nil {
		return "", err
	}
	hash, err := secrethash.Hash(secret)
	if err != nil {
		return "", err
	}

	err = s.store.WithTransaction(ctx, func(tx *gorm.DB) error {
		var device models.KioskDevice
		if err := tx.WithContext(ctx).First(&device, "id = ?", deviceID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errs.ErrNotFoundGeneric
			}
			return err
		}
		if device.OrgID != orgID {
			return errs.ErrCrossOrg
		}
		device.SecretHash = hash
		if err := tx.Save(&device).Error; err != nil {
			return err
		}
		if err := endActiveSession(ctx, tx, deviceID, models.SessionEndRotated, now); err != nil {
			return err
		}
		return audit.Record(ctx, tx, orgID, actorID, models.ActionDeviceRotated, "kiosk_device", device.ID, nil, now)
	})
	return secret, err
}

func endActiveSession(ctx context.Context, tx *gorm.DB, deviceID uuid.UUID, reason models.SessionEndReason, now time.Time) error {
	return tx.WithContext(ctx).Model(&models.KioskDeviceSession{}).
		Where("device_id = ? AND ended_at IS NULL", deviceID).
		Updates(map[string]interface{}{"ended_at": now, "ended_reason": reason}).Error
}

// Authenticate verifies the device secret, ends any existing active
// session, and starts a new one.
func (s *Service) Authenticate(ctx context.Context, publicID, secret string, now time.Time) (*models.KioskDeviceSession, *models.KioskDevice, error) {
	var session *models.KioskDeviceSession
	var device *models.KioskDevice
	err := s.store.WithTransaction(ctx, func(tx *gorm.DB) error {
		var d models.KioskDevice
		if err := tx.WithContext(ctx).Where("public_id = ?", publicID).First(&d).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errs.New(errs.Auth, "INVALID_DEVICE", "no such device")
			}
			return err
		}
		if !d.Enabled {
			return errs.New(errs.Auth, "DEVICE_DISABLED", "device is disabled")
		}
		if !secrethash.Verify(secret, d.SecretHash) {
			return errs.New(errs.Auth, "INVALID_SECRET", "invalid device secret")
		}

		if err := endActiveSession(ctx, tx, d.ID, models.SessionEndExpired, now); err != nil {
			return err
		}

		sess := models.KioskDeviceSession{
			OrgID:           d.OrgID,
			DeviceID:        d.ID,
			StartedAt:       now,
			LastHeartbeatAt: now,
		}
		if err := tx.Create(&sess).Error; err != nil {
			return err
		}

		d.LastSeenAt = &now
		if err := tx.Save(&d).Error; err != nil {
			return err
		}

		if err := audit.Record(ctx, tx, d.OrgID, uuid.Nil, models.ActionKioskSessionStart, "kiosk_device", d.ID, nil, now); err != nil {
			return err
		}
		session = &sess
		device = &d
		return nil
	})
	return session, device, err
}

// Heartbeat updates session/device liveness markers.
func (s *Service) Heartbeat(ctx context.Context, sessionID uuid.UUID, now time.Time) error {
	return s.store.WithTransaction(ctx, func(tx *gorm.DB) error {
		var sess models.KioskDeviceSession
		if err := tx.WithContext(ctx).First(&sess, "id = ?", sessionID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errs.ErrNotFoundGeneric
			}
			return err
		}
		if sess.EndedAt != nil {
			return errs.New(errs.Auth, "SESSION_ENDED", "session has already ended")
		}
		sess.LastHeartbeatAt = now
		if err := tx.Save(&sess).Error; err != nil {
			return err
		}
		return tx.Model(&models.KioskDevice{}).Where("id = ?", sess.DeviceID).
			Updates(map[string]interface{}{"last_seen_at": now}).Error
	})
}

// ValidateSession is the pre-operation timeout check: no background
// timers - evaluated fresh on every call. A session idle longer than
// the policy timeout is ended right here and the call fails.
func (s *Service) ValidateSession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, sessionTimeoutMinutes int, now time.Time) (*models.KioskDeviceSession, error) {
	var sess models.KioskDeviceSession
	if err := tx.WithContext(ctx).First(&sess, "id = ?", sessionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.ErrNotFoundGeneric
		}
		return nil, err
	}
	if sess.EndedAt != nil {
		return nil, errs.New(errs.Auth, "SESSION_ENDED", "session has already ended")
	}
	idleMinutes := int(now.Sub(sess.LastHeartbeatAt).Minutes())
	if idleMinutes > sessionTimeoutMinutes {
		if err := endActiveSession(ctx, tx, sess.DeviceID, models.SessionEndHeartbeatTimeout, now); err != nil {
			return nil, err
		}
		return nil, errs.New(errs.Auth, "SESSION_TIMED_OUT", "kiosk session timed out")
	}
	return &sess, nil
}

// DeviceHealth derives device health at read time. The online/stale
// thresholds are policy-free constants: devices silent
// beyond 5 minutes are STALE, beyond 30 are OFFLINE.
func DeviceHealth(d models.KioskDevice, now time.Time) models.DeviceHealth {
	if !d.Enabled {
		return models.HealthDisabled
	}
	if d.LastSeenAt == nil {
		return models.HealthOffline
	}
	age := now.Sub(*d.LastSeenAt)
	switch {
	case age < 5*time.Minute:
		return models.HealthOnline
	case age < 30*time.Minute:
		return models.HealthStale
	default:
		return models.HealthOffline
	}
}

// PINLookup is org-scoped: iterate active users with a PIN hash in a
// deterministic order, returning the first whose hash verifies.
func PINLookup(ctx context.Context, tx *gorm.DB, orgID uuid.UUID, pin string) (*models.User, error) {
	var users []models.User
	if err := tx.WithContext(ctx).
		Where("org_id = ? AND is_active = ? AND pin_hash <> ''", orgID, true).
		Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID.String() < users[j].ID.String() })
	for i := range users {
		if secrethash.Verify(pin, users[i].PinHash) {
			return &users[i], nil
		}
	}
	return nil, nil
}

// MaskPIN keeps only the last two digits, so a PIN attempt log never
// stores the full PIN.
func MaskPIN(pin string) string {
	if len(pin) <= 2 {
		return pin
	}
	masked := make([]byte, len(pin)-2)
	for i := range masked {
		masked[i] = '*'
	}
	return string(masked) + pin[len(pin)-2:]
}

// RecordAttempt always records a PIN attempt, success or failure.
func RecordAttempt(ctx context.Context, tx *gorm.DB, orgID, deviceID uuid.UUID, pin string, success bool, userID *uuid.UUID, ip string, now time.Time) error {
	a := models.KioskPINAttempt{
		OrgID:       orgID,
		DeviceID:    deviceID,
		AttemptedAt: now,
		MaskedPIN:   MaskPIN(pin),
		Success:     success,
		UserID:      userID,
		IP:          ip,
	}
	return tx.WithContext(ctx).Create(&a).Error
}

// CheckRateLimit counts failed attempts for the device in the last 60
// seconds; successful verifications never count against the limit.
func (s *Service) CheckRateLimit(ctx context.Context, deviceID uuid.UUID, limit int, now time.Time) (bool, error) {
	allowed, _, err := s.rateLimit.CheckAndCountWhere(ctx, "kiosk_pin_attempts", "device_id", "attempted_at", deviceID, now, 60, limit, "success = ?", false)
	return allowed, err
}
