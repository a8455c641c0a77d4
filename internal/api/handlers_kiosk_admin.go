package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type enrollDeviceRequest struct {
	BranchID uuid.UUID `json:"branch_id" binding:"required"`
	PublicID string    `json:"public_id" binding:"required"`
	Name     string    `json:"name" binding:"required"`
}

func (h *handlers) enrollDevice(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	var req enrollDeviceRequest
	if !bindJSON(c, &req) {
		return
	}
	device, secret, err := h.svc.Kiosk.EnrollDevice(c.Request.Context(), rc.OrgID, req.BranchID, rc.UserID, req.PublicID, req.Name, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, gin.H{"device": device, "secret": secret})
}

func (h *handlers) rotateDeviceSecret(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	deviceID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	secret, err := h.svc.Kiosk.RotateSecret(c.Request.Context(), rc.OrgID, deviceID, rc.UserID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"secret": secret})
}
