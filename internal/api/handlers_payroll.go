package api

import (
	"time"

	"github.com/gin-gonic/gin"
)

func (h *handlers) calculatePayroll(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	runID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	run, err := h.svc.Payroll.Calculate(c.Request.Context(), rc, runID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, run)
}

func (h *handlers) generatePayslips(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	runID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	payslips, err := h.svc.Payroll.GeneratePayslips(c.Request.Context(), rc, runID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, payslips)
}

func (h *handlers) approvePayroll(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	runID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	run, err := h.svc.Payroll.Approve(c.Request.Context(), rc, runID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, run)
}

func (h *handlers) postPayroll(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	runID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	run, err := h.svc.Payroll.Post(c.Request.Context(), rc, runID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, run)
}

func (h *handlers) payPayroll(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	runID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	run, err := h.svc.Payroll.Pay(c.Request.Context(), rc, runID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, run)
}

func (h *handlers) voidPayroll(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	runID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	run, err := h.svc.Payroll.Void(c.Request.Context(), rc, runID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, run)
}
