package reporting

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/shiftcore/workforce/internal/models"
)

func TestMinutesToHoursRounds(t *testing.T) {
	assert.True(t, minutesToHours(90).Equal(decimal.NewFromFloat(1.5)))
	assert.True(t, minutesToHours(0).IsZero())
}

func TestAggregateByGroupSplitsRegularAndOvertime(t *testing.T) {
	branchID := uuid.New()
	start := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(9 * time.Hour)
	ot := 60

	entry := models.TimeEntry{
		BranchID:        branchID,
		ClockInAt:       start,
		ClockOutAt:      &end,
		OvertimeMinutes: &ot,
	}

	out := aggregateByGroup([]models.TimeEntry{entry}, func(e models.TimeEntry) uuid.UUID { return e.BranchID })
	assert.Len(t, out, 1)
	assert.Equal(t, branchID, out[0].GroupID)
	assert.Equal(t, 1, out[0].EntryCount)
	// 9h worked, 1h overtime -> 8h regular.
	assert.True(t, out[0].RegularHours.Equal(decimal.NewFromInt(8)), out[0].RegularHours.String())
	assert.True(t, out[0].OvertimeHours.Equal(decimal.NewFromInt(1)))
}

func TestAggregateByGroupSubtractsBreaks(t *testing.T) {
	userID := uuid.New()
	start := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)
	breakStart := start.Add(4 * time.Hour)
	breakEnd := breakStart.Add(30 * time.Minute)

	entry := models.TimeEntry{
		UserID:     userID,
		ClockInAt:  start,
		ClockOutAt: &end,
		Breaks:     []models.BreakEntry{{StartAt: breakStart, EndAt: &breakEnd}},
	}

	out := aggregateByGroup([]models.TimeEntry{entry}, func(e models.TimeEntry) uuid.UUID { return e.UserID })
	assert.Len(t, out, 1)
	assert.True(t, out[0].BreakHours.Equal(decimal.NewFromFloat(0.5)))
	// 8h worked - 0.5h break = 7.5h regular (no overtime recorded).
	assert.True(t, out[0].RegularHours.Equal(decimal.NewFromFloat(7.5)))
}

func TestAggregateByGroupSortsDeterministically(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	entries := []models.TimeEntry{{BranchID: a}, {BranchID: b}}
	out1 := aggregateByGroup(entries, func(e models.TimeEntry) uuid.UUID { return e.BranchID })
	out2 := aggregateByGroup(entries, func(e models.TimeEntry) uuid.UUID { return e.BranchID })
	assert.Equal(t, out1, out2)
}
