package geofence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shiftcore/workforce/internal/models"
)

func TestDistanceZeroForSamePoint(t *testing.T) {
	d := Distance(19.4326, -99.1332, 19.4326, -99.1332)
	assert.Equal(t, 0.0, d)
}

func TestDistanceKnownPoints(t *testing.T) {
	// Roughly 1 degree of latitude is ~111.19 km at the equator.
	d := Distance(0, 0, 1, 0)
	assert.InDelta(t, 111195.08, d, 50)
}

func TestEnforceNilFenceAlwaysAllows(t *testing.T) {
	decision := Enforce(nil, ClockIn, Location{})
	assert.True(t, decision.Allowed)
}

func TestEnforceDisabledFenceAllows(t *testing.T) {
	fence := &models.BranchGeoFence{Enabled: false}
	decision := Enforce(fence, ClockIn, Location{})
	assert.True(t, decision.Allowed)
}

func TestEnforceMissingLocationRequiresOverride(t *testing.T) {
	fence := &models.BranchGeoFence{
		Enabled:              true,
		EnforceClockIn:       true,
		AllowManagerOverride: true,
		RadiusMeters:         100,
	}
	decision := Enforce(fence, ClockIn, Location{Present: false})
	assert.False(t, decision.Allowed)
	assert.Equal(t, models.ReasonMissingLocation, decision.ReasonCode)
	assert.True(t, decision.RequiresOverride)
	assert.True(t, decision.CanOverride)
}

func TestEnforceLowAccuracyBlocked(t *testing.T) {
	fence := &models.BranchGeoFence{
		Enabled:           true,
		EnforceClockIn:    true,
		MaxAccuracyMeters: 50,
		RadiusMeters:      100,
	}
	decision := Enforce(fence, ClockIn, Location{Present: true, AccuracyMeter: 500, Lat: 0, Lng: 0})
	assert.False(t, decision.Allowed)
	assert.Equal(t, models.ReasonAccuracyTooLow, decision.ReasonCode)
}

func TestEnforceInsideRadiusAllowed(t *testing.T) {
	fence := &models.BranchGeoFence{
		Enabled:           true,
		EnforceClockIn:    true,
		MaxAccuracyMeters: 200,
		RadiusMeters:      150,
		CenterLat:         19.4326,
		CenterLng:         -99.1332,
	}
	decision := Enforce(fence, ClockIn, Location{Present: true, AccuracyMeter: 10, Lat: 19.4326, Lng: -99.1332})
	assert.True(t, decision.Allowed)
	assert.NotNil(t, decision.DistanceMeters)
}

func TestEnforceOutsideRadiusBlocked(t *testing.T) {
	fence := &models.BranchGeoFence{
		Enabled:              true,
		EnforceClockIn:       true,
		MaxAccuracyMeters:    200,
		RadiusMeters:         50,
		CenterLat:            19.4326,
		CenterLng:            -99.1332,
		AllowManagerOverride: false,
	}
	decision := Enforce(fence, ClockIn, Location{Present: true, AccuracyMeter: 10, Lat: 20.0, Lng: -99.1332})
	assert.False(t, decision.Allowed)
	assert.Equal(t, models.ReasonOutsideGeofence, decision.ReasonCode)
	assert.True(t, decision.RequiresOverride)
	assert.False(t, decision.CanOverride)
}

func TestEnforceActionNotEnforcedAllows(t *testing.T) {
	fence := &models.BranchGeoFence{
		Enabled:        true,
		EnforceClockIn: false,
		EnforceClockOut: false,
		RadiusMeters:   10,
	}
	decision := Enforce(fence, ClockOut, Location{Present: false})
	assert.True(t, decision.Allowed)
}
