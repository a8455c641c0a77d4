package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlannedMinutes(t *testing.T) {
	start := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)
	assert.Equal(t, 480, PlannedMinutes(start, end))
}

func TestValidateWindowRejectsEndBeforeStart(t *testing.T) {
	start := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	assert.Error(t, validateWindow(start, end))
}

func TestValidateWindowRejectsTooShort(t *testing.T) {
	start := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)
	assert.Error(t, validateWindow(start, end))
}

func TestValidateWindowRejectsTooLong(t *testing.T) {
	start := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(17 * time.Hour)
	assert.Error(t, validateWindow(start, end))
}

func TestValidateWindowAcceptsTypicalShift(t *testing.T) {
	start := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)
	assert.NoError(t, validateWindow(start, end))
}

func TestValidateWindowAcceptsBoundaries(t *testing.T) {
	start := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	assert.NoError(t, validateWindow(start, start.Add(MinPlannedMinutes*time.Minute)))
	assert.NoError(t, validateWindow(start, start.Add(MaxPlannedMinutes*time.Minute)))
}
