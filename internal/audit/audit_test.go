package audit

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

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.AuditLogEntry{}))
	return db
}

func TestRecordPersistsPayloadAsJSON(t *testing.T) {
	db := newTestDB(t)
	orgID, actorID, entityID := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()

	err := Record(context.Background(), db, orgID, actorID, models.ActionClockIn, "time_entry", entityID, map[string]string{"k": "v"}, now)
	require.NoError(t, err)

	var rows []models.AuditLogEntry
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, orgID, rows[0].OrgID)
	assert.Equal(t, models.ActionClockIn, rows[0].ActionCode)
	assert.JSONEq(t, `{"k":"v"}`, string(rows[0].Payload))
}

func seedEntries(t *testing.T, db *gorm.DB, orgID uuid.UUID) (clockIn, clockOut models.AuditLogEntry) {
	t.Helper()
	base := time.Now().Add(-time.Hour)
	entityID := uuid.New()
	require.NoError(t, Record(context.Background(), db, orgID, uuid.New(), models.ActionClockIn, "time_entry", entityID, nil, base))
	require.NoError(t, Record(context.Background(), db, orgID, uuid.New(), models.ActionClockOut, "time_entry", entityID, nil, base.Add(time.Minute)))
	var rows []models.AuditLogEntry
	require.NoError(t, db.Order("occurred_at ASC").Find(&rows).Error)
	require.Len(t, rows, 2)
	return rows[0], rows[1]
}

func TestListFiltersByOrg(t *testing.T) {
	db := newTestDB(t)
	orgA, orgB := uuid.New(), uuid.New()
	seedEntries(t, db, orgA)
	seedEntries(t, db, orgB)

	out, err := List(context.Background(), db, Query{OrgID: orgA})
	require.NoError(t, err)
	assert.Len(t, out, 2)
	for _, e := range out {
		assert.Equal(t, orgA, e.OrgID)
	}
}

func TestListFiltersByActionCode(t *testing.T) {
	db := newTestDB(t)
	orgID := uuid.New()
	seedEntries(t, db, orgID)

	out, err := List(context.Background(), db, Query{OrgID: orgID, ActionCode: models.ActionClockOut})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, models.ActionClockOut, out[0].ActionCode)
}

func TestListOrdersByOccurredAtAscending(t *testing.T) {
	db := newTestDB(t)
	orgID := uuid.New()
	clockIn, clockOut := seedEntries(t, db, orgID)

	out, err := List(context.Background(), db, Query{OrgID: orgID})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, clockIn.ID, out[0].ID)
	assert.Equal(t, clockOut.ID, out[1].ID)
}

func TestListClampsOutOfRangeLimit(t *testing.T) {
	db := newTestDB(t)
	orgID := uuid.New()
	seedEntries(t, db, orgID)

	out, err := List(context.Background(), db, Query{OrgID: orgID, Limit: 5000})
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestListRespectsTimeRange(t *testing.T) {
	db := newTestDB(t)
	orgID := uuid.New()
	clockIn, clockOut := seedEntries(t, db, orgID)
	cutoff := clockIn.OccurredAt.Add(30 * time.Second)

	out, err := List(context.Background(), db, Query{OrgID: orgID, To: &cutoff})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, clockIn.ID, out[0].ID)
	_ = clockOut
}
