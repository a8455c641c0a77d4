package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shiftcore/workforce/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.AuditLogEntry{}))
	return New(db)
}

func TestWithTransactionCommitsOnNilError(t *testing.T) {
	s := newTestStore(t)
	id := uuid.New()

	err := s.WithTransaction(context.Background(), func(tx *gorm.DB) error {
		return tx.Create(&models.AuditLogEntry{
			OrgID: id, ActorID: id, ActionCode: models.ActionClockIn, EntityType: "x", EntityID: id,
		}).Error
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, s.Tx(context.Background()).Model(&models.AuditLogEntry{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	id := uuid.New()
	boom := errors.New("boom")

	err := s.WithTransaction(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Create(&models.AuditLogEntry{
			OrgID: id, ActorID: id, ActionCode: models.ActionClockIn, EntityType: "x", EntityID: id,
		}).Error; err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, s.Tx(context.Background()).Model(&models.AuditLogEntry{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestTxIsUsableWithoutExplicitTransaction(t *testing.T) {
	s := newTestStore(t)
	var count int64
	require.NoError(t, s.Tx(context.Background()).Model(&models.AuditLogEntry{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
