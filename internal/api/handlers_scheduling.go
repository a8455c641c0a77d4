package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createShiftRequest struct {
	BranchID uuid.UUID  `json:"branch_id" binding:"required"`
	UserID   *uuid.UUID `json:"user_id"`
	Role     string     `json:"role" binding:"required"`
	StartAt  time.Time  `json:"start_at" binding:"required"`
	EndAt    time.Time  `json:"end_at" binding:"required"`
}

func (h *handlers) createShift(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	var req createShiftRequest
	if !bindJSON(c, &req) {
		return
	}
	shift, err := h.svc.Scheduling.CreateShift(c.Request.Context(), rc, req.BranchID, req.UserID, req.Role, req.StartAt, req.EndAt, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, shift)
}

type updateShiftRequest struct {
	Role    string    `json:"role" binding:"required"`
	StartAt time.Time `json:"start_at" binding:"required"`
	EndAt   time.Time `json:"end_at" binding:"required"`
}

func (h *handlers) updateShift(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	shiftID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req updateShiftRequest
	if !bindJSON(c, &req) {
		return
	}
	shift, err := h.svc.Scheduling.UpdateShift(c.Request.Context(), rc, shiftID, req.StartAt, req.EndAt, req.Role, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, shift)
}

func (h *handlers) deleteShift(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	shiftID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Scheduling.DeleteShift(c.Request.Context(), rc, shiftID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(204)
}

type cancelShiftRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *handlers) cancelShift(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	shiftID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req cancelShiftRequest
	if !bindJSON(c, &req) {
		return
	}
	shift, err := h.svc.Scheduling.CancelShift(c.Request.Context(), rc, shiftID, req.Reason, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, shift)
}

type publishRangeRequest struct {
	BranchID uuid.UUID `json:"branch_id" binding:"required"`
	From     time.Time `json:"from" binding:"required"`
	To       time.Time `json:"to" binding:"required"`
}

func (h *handlers) publishRange(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	var req publishRangeRequest
	if !bindJSON(c, &req) {
		return
	}
	shifts, err := h.svc.Scheduling.PublishRange(c.Request.Context(), rc, req.BranchID, req.From, req.To, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, shifts)
}

func (h *handlers) claimShift(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	shiftID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	claim, err := h.svc.Scheduling.Claim(c.Request.Context(), rc, shiftID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, claim)
}

func (h *handlers) approveClaim(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	claimID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	claim, err := h.svc.Scheduling.ApproveClaim(c.Request.Context(), rc, claimID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, claim)
}

func (h *handlers) rejectClaim(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	claimID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Scheduling.RejectClaim(c.Request.Context(), rc, claimID, time.Now()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(204)
}

func (h *handlers) withdrawClaim(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	claimID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Scheduling.WithdrawClaim(c.Request.Context(), rc, claimID, time.Now()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(204)
}

type executeSwapRequest struct {
	RequesterShiftID uuid.UUID `json:"requester_shift_id" binding:"required"`
	TargetShiftID    uuid.UUID `json:"target_shift_id" binding:"required"`
}

func (h *handlers) executeSwap(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	var req executeSwapRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.Scheduling.ExecuteSwap(c.Request.Context(), rc, req.RequesterShiftID, req.TargetShiftID, time.Now()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(204)
}
