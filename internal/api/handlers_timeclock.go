package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shiftcore/workforce/internal/errs"
	"github.com/shiftcore/workforce/internal/models"
	"github.com/shiftcore/workforce/internal/timeclock"
)

type geoRequest struct {
	Present  bool    `json:"present"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Accuracy float64 `json:"accuracy"`
	Source   string  `json:"source"`
	Override bool    `json:"override"`
	Reason   string  `json:"reason"`
}

func (g geoRequest) toInput() timeclock.GeoInput {
	return timeclock.GeoInput{
		Present:  g.Present,
		Lat:      g.Lat,
		Lng:      g.Lng,
		Accuracy: g.Accuracy,
		Source:   models.GeoSource(g.Source),
		Override: g.Override,
		Reason:   g.Reason,
	}
}

type clockInRequest struct {
	BranchID uuid.UUID  `json:"branch_id" binding:"required"`
	ShiftID  *uuid.UUID `json:"shift_id"`
	Method   string     `json:"method" binding:"required"`
	Geo      geoRequest `json:"geo"`
}

func (h *handlers) clockIn(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	var req clockInRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.svc.Timeclock.ClockIn(c.Request.Context(), rc, req.BranchID, req.ShiftID, models.ClockMethod(req.Method), req.Geo.toInput(), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, entry)
}

type clockOutRequest struct {
	Geo geoRequest `json:"geo"`
}

func (h *handlers) clockOut(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	var req clockOutRequest
	if !bindJSON(c, &req) {
		return
	}
	policy, err := h.loadPolicy(c.Request.Context(), rc)
	if err != nil {
		respondError(c, err)
		return
	}
	entry, err := h.svc.Timeclock.ClockOut(c.Request.Context(), rc, req.Geo.toInput(), policy.DailyOTThresholdMinutes, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, entry)
}

func (h *handlers) breakStart(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	brk, err := h.svc.Timeclock.BreakStart(c.Request.Context(), rc, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, brk)
}

func (h *handlers) breakEnd(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	brk, err := h.svc.Timeclock.BreakEnd(c.Request.Context(), rc, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, brk)
}

func (h *handlers) clockStatus(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	branchID, err := uuid.Parse(c.Query("branch_id"))
	if err != nil {
		respondError(c, errs.WithField(errs.Validation, "INVALID_BRANCH_ID", "branch_id", "must be a UUID"))
		return
	}
	status, err := h.svc.Timeclock.GetStatus(c.Request.Context(), rc, branchID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, status)
}
