package compliance

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
	"github.com/shiftcore/workforce/internal/reqctx"
	"github.com/shiftcore/workforce/internal/store"
)

func setupComplianceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.WorkforcePolicy{},
		&models.TimeEntry{},
		&models.BreakEntry{},
		&models.ComplianceIncident{},
		&models.AuditLogEntry{},
	))
	return db
}

func TestEvaluateCreatesMissedMealBreakIncident(t *testing.T) {
	db := setupComplianceTestDB(t)
	svc := NewService(store.New(db))

	orgID := uuid.New()
	branchID := uuid.New()
	userID := uuid.New()
	clockIn := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	clockOut := clockIn.Add(8 * time.Hour)

	entry := models.TimeEntry{
		OrgID:      orgID,
		BranchID:   branchID,
		UserID:     userID,
		ClockInAt:  clockIn,
		ClockOutAt: &clockOut,
		Method:     models.ClockMethodPassword,
	}
	require.NoError(t, db.Create(&entry).Error)

	rc := reqctx.Context{OrgID: orgID, UserID: userID}
	summary, err := svc.Evaluate(context.Background(), rc, nil, clockIn.Add(-time.Hour), clockOut.Add(time.Hour), clockOut)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Evaluated)
	// an 8h shift with no breaks misses both the meal break (required
	// after 6h) and the rest break (required after 4h).
	assert.Equal(t, 2, summary.IncidentsCreated)

	var incidents []models.ComplianceIncident
	require.NoError(t, db.Find(&incidents).Error)
	require.Len(t, incidents, 2)
}

func TestEvaluateIsIdempotent(t *testing.T) {
	db := setupComplianceTestDB(t)
	svc := NewService(store.New(db))

	orgID := uuid.New()
	branchID := uuid.New()
	userID := uuid.New()
	clockIn := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	clockOut := clockIn.Add(8 * time.Hour)

	entry := models.TimeEntry{
		OrgID:      orgID,
		BranchID:   branchID,
		UserID:     userID,
		ClockInAt:  clockIn,
		ClockOutAt: &clockOut,
		Method:     models.ClockMethodPassword,
	}
	require.NoError(t, db.Create(&entry).Error)

	rc := reqctx.Context{OrgID: orgID, UserID: userID}
	from, to := clockIn.Add(-time.Hour), clockOut.Add(time.Hour)

	_, err := svc.Evaluate(context.Background(), rc, nil, from, to, clockOut)
	require.NoError(t, err)
	second, err := svc.Evaluate(context.Background(), rc, nil, from, to, clockOut)
	require.NoError(t, err)

	assert.Equal(t, 0, second.IncidentsCreated)
	assert.Equal(t, 2, second.IncidentsSkipped)

	var count int64
	require.NoError(t, db.Model(&models.ComplianceIncident{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestEvaluateRejectsInvertedRange(t *testing.T) {
	db := setupComplianceTestDB(t)
	svc := NewService(store.New(db))
	rc := reqctx.Context{OrgID: uuid.New()}
	now := time.Now()
	_, err := svc.Evaluate(context.Background(), rc, nil, now, now.Add(-time.Hour), now)
	assert.Error(t, err)
}

func TestEvaluateRejectsRangeTooLarge(t *testing.T) {
	db := setupComplianceTestDB(t)
	svc := NewService(store.New(db))
	rc := reqctx.Context{OrgID: uuid.New()}
	now := time.Now()
	_, err := svc.Evaluate(context.Background(), rc, nil, now.AddDate(0, 0, -(MaxRangeDays+5)), now, now)
	assert.Error(t, err)
}

func TestEvaluateNoEntriesIsNoop(t *testing.T) {
	db := setupComplianceTestDB(t)
	svc := NewService(store.New(db))
	rc := reqctx.Context{OrgID: uuid.New()}
	now := time.Now()
	summary, err := svc.Evaluate(context.Background(), rc, nil, now.Add(-time.Hour), now, now)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Evaluated)
	assert.Equal(t, 0, summary.IncidentsCreated)
}
