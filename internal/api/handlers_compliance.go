package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type evaluateComplianceRequest struct {
	BranchID *uuid.UUID `json:"branch_id"`
	From     time.Time  `json:"from" binding:"required"`
	To       time.Time  `json:"to" binding:"required"`
}

func (h *handlers) evaluateCompliance(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	var req evaluateComplianceRequest
	if !bindJSON(c, &req) {
		return
	}
	summary, err := h.svc.Compliance.Evaluate(c.Request.Context(), rc, req.BranchID, req.From, req.To, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, summary)
}
