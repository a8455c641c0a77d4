/*
Package geofence implements the distance and enforcement engine for
branch location checks: Haversine distance between two lat/lng points,
and the allow/block/override decision for a clock action at a branch.
*/
package geofence

import (
	"math"

	"github.com/shiftcore/workforce/internal/models"
)

// EarthRadiusMeters is the mean earth radius used for Haversine
// distance: 6,371,008.8 m.
const EarthRadiusMeters = 6371008.8

// Distance returns the great-circle distance in meters between two
// points, rounded to 2 decimal places for deterministic cross-platform
// results.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	d := EarthRadiusMeters * c

	return math.Round(d*100) / 100
}

// ClockAction names which direction of a clock event is being gated.
type ClockAction string

const (
	ClockIn  ClockAction = "CLOCK_IN"
	ClockOut ClockAction = "CLOCK_OUT"
)

// Location is the optional geo-metadata a clock request may carry.
type Location struct {
	Lat           float64
	Lng           float64
	AccuracyMeter float64
	Present       bool
}

// Decision is the outcome of an enforcement check.
type Decision struct {
	Allowed         bool
	DistanceMeters  *float64
	ReasonCode      models.GeoFenceReasonCode
	RequiresOverride bool
	CanOverride     bool
}

// Enforce implements the geo-fence enforcement ladder. fence may be
// nil (branch has no configuration), which always allows.
func Enforce(fence *models.BranchGeoFence, action ClockAction, loc Location) Decision {
	if fence == nil || !fence.Enabled {
		return Decision{Allowed: true}
	}
	enforced := (action == ClockIn && fence.EnforceClockIn) || (action == ClockOut && fence.EnforceClockOut)
	if !enforced {
		return Decision{Allowed: true}
	}

	canOverride := fence.AllowManagerOverride

	if !loc.Present {
		return Decision{
			Allowed:          false,
			ReasonCode:       models.ReasonMissingLocation,
			RequiresOverride: true,
			CanOverride:      canOverride,
		}
	}

	maxAccuracy := fence.MaxAccuracyMeters
	if maxAccuracy <= 0 {
		maxAccuracy = 200
	}
	if loc.AccuracyMeter > maxAccuracy {
		return Decision{
			Allowed:          false,
			ReasonCode:       models.ReasonAccuracyTooLow,
			RequiresOverride: true,
			CanOverride:      canOverride,
		}
	}

	dist := Distance(fence.CenterLat, fence.CenterLng, loc.Lat, loc.Lng)
	if dist <= fence.RadiusMeters {
		return Decision{Allowed: true, DistanceMeters: &dist}
	}

	return Decision{
		Allowed:          false,
		DistanceMeters:   &dist,
		ReasonCode:       models.ReasonOutsideGeofence,
		RequiresOverride: true,
		CanOverride:      canOverride,
	}
}
