package timeclock

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

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.TimeEntry{},
		&models.BreakEntry{},
		&models.ScheduledShift{},
		&models.AuditLogEntry{},
	))
	return NewService(store.New(db), nil)
}

func testCtx() reqctx.Context {
	return reqctx.Context{OrgID: uuid.New(), UserID: uuid.New()}
}

func TestClockInCreatesOpenEntry(t *testing.T) {
	svc := newTestService(t)
	rc := testCtx()
	now := time.Now()

	entry, err := svc.ClockIn(context.Background(), rc, uuid.New(), nil, models.ClockMethodPassword, GeoInput{}, now)
	require.NoError(t, err)
	assert.Nil(t, entry.ClockOutAt)
	assert.Equal(t, rc.UserID, entry.UserID)
}

func TestClockInRejectsWhenAlreadyClockedIn(t *testing.T) {
	svc := newTestService(t)
	rc := testCtx()
	now := time.Now()

	_, err := svc.ClockIn(context.Background(), rc, uuid.New(), nil, models.ClockMethodPassword, GeoInput{}, now)
	require.NoError(t, err)

	_, err = svc.ClockIn(context.Background(), rc, uuid.New(), nil, models.ClockMethodPassword, GeoInput{}, now.Add(time.Minute))
	require.Error(t, err)
}

func TestClockInRejectsInvalidLatitude(t *testing.T) {
	svc := newTestService(t)
	rc := testCtx()

	_, err := svc.ClockIn(context.Background(), rc, uuid.New(), nil, models.ClockMethodPassword, GeoInput{Present: true, Lat: 200}, time.Now())
	require.Error(t, err)
}

func TestClockOutRejectsWhenNotClockedIn(t *testing.T) {
	svc := newTestService(t)
	rc := testCtx()

	_, err := svc.ClockOut(context.Background(), rc, GeoInput{}, 480, time.Now())
	require.Error(t, err)
}

func TestClockOutComputesWorkAndOvertimeMinutes(t *testing.T) {
	svc := newTestService(t)
	rc := testCtx()
	start := time.Now()

	_, err := svc.ClockIn(context.Background(), rc, uuid.New(), nil, models.ClockMethodPassword, GeoInput{}, start)
	require.NoError(t, err)

	end := start.Add(9 * time.Hour)
	out, err := svc.ClockOut(context.Background(), rc, GeoInput{}, 480, end)
	require.NoError(t, err)
	require.NotNil(t, out.WorkMinutes)
	assert.Equal(t, 540, *out.WorkMinutes)
	require.NotNil(t, out.OvertimeMinutes)
	assert.Equal(t, 60, *out.OvertimeMinutes)
}

func TestClockOutSubtractsBreakMinutes(t *testing.T) {
	svc := newTestService(t)
	rc := testCtx()
	start := time.Now()

	_, err := svc.ClockIn(context.Background(), rc, uuid.New(), nil, models.ClockMethodPassword, GeoInput{}, start)
	require.NoError(t, err)

	_, err = svc.BreakStart(context.Background(), rc, start.Add(time.Hour))
	require.NoError(t, err)
	_, err = svc.BreakEnd(context.Background(), rc, start.Add(90*time.Minute))
	require.NoError(t, err)

	end := start.Add(8 * time.Hour)
	out, err := svc.ClockOut(context.Background(), rc, GeoInput{}, 480, end)
	require.NoError(t, err)
	require.NotNil(t, out.BreakMinutes)
	assert.Equal(t, 30, *out.BreakMinutes)
	require.NotNil(t, out.WorkMinutes)
	assert.Equal(t, 450, *out.WorkMinutes)
}

func TestBreakStartRejectsWhenNotClockedIn(t *testing.T) {
	svc := newTestService(t)
	rc := testCtx()

	_, err := svc.BreakStart(context.Background(), rc, time.Now())
	require.Error(t, err)
}

func TestBreakStartRejectsDoubleBreak(t *testing.T) {
	svc := newTestService(t)
	rc := testCtx()
	now := time.Now()

	_, err := svc.ClockIn(context.Background(), rc, uuid.New(), nil, models.ClockMethodPassword, GeoInput{}, now)
	require.NoError(t, err)
	_, err = svc.BreakStart(context.Background(), rc, now.Add(time.Minute))
	require.NoError(t, err)

	_, err = svc.BreakStart(context.Background(), rc, now.Add(2*time.Minute))
	require.Error(t, err)
}

func TestBreakEndRejectsWhenNoOpenBreak(t *testing.T) {
	svc := newTestService(t)
	rc := testCtx()
	now := time.Now()

	_, err := svc.ClockIn(context.Background(), rc, uuid.New(), nil, models.ClockMethodPassword, GeoInput{}, now)
	require.NoError(t, err)

	_, err = svc.BreakEnd(context.Background(), rc, now.Add(time.Minute))
	require.Error(t, err)
}

func TestGetStatusReportsClockedOutWhenNoEntry(t *testing.T) {
	svc := newTestService(t)
	rc := testCtx()

	st, err := svc.GetStatus(context.Background(), rc, uuid.New(), time.Now())
	require.NoError(t, err)
	assert.False(t, st.IsClockedIn)
	assert.Nil(t, st.Entry)
}

func TestGetStatusReportsClockedInWithActiveBreak(t *testing.T) {
	svc := newTestService(t)
	rc := testCtx()
	branchID := uuid.New()
	now := time.Now()

	_, err := svc.ClockIn(context.Background(), rc, branchID, nil, models.ClockMethodPassword, GeoInput{}, now)
	require.NoError(t, err)
	_, err = svc.BreakStart(context.Background(), rc, now.Add(time.Minute))
	require.NoError(t, err)

	st, err := svc.GetStatus(context.Background(), rc, branchID, now.Add(2*time.Minute))
	require.NoError(t, err)
	assert.True(t, st.IsClockedIn)
	require.NotNil(t, st.ActiveBreak)
	assert.Nil(t, st.ActiveBreak.EndAt)
}
