package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shiftcore/workforce/internal/geofence"
)

type geofenceCheckRequest struct {
	BranchID      uuid.UUID `json:"branch_id" binding:"required"`
	Action        string    `json:"action" binding:"required"`
	Lat           float64   `json:"lat"`
	Lng           float64   `json:"lng"`
	AccuracyMeter float64   `json:"accuracy_m"`
	Present       bool      `json:"present"`
}

func (h *handlers) geofenceCheck(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	var req geofenceCheckRequest
	if !bindJSON(c, &req) {
		return
	}
	loc := geofence.Location{Lat: req.Lat, Lng: req.Lng, AccuracyMeter: req.AccuracyMeter, Present: req.Present}
	decision, err := h.svc.Geofence.Check(c.Request.Context(), rc, req.BranchID, rc.UserID, geofence.ClockAction(req.Action), loc, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, decision)
}
