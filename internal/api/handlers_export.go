package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shiftcore/workforce/internal/exportx"
)

func writeCSV(c *gin.Context, filename string, result exportx.Result, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("X-Content-Hash", result.Hash)
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Data(200, "text/csv; charset=utf-8", result.Bytes)
}

func (h *handlers) exportKioskEvents(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	from, to, ok := queryRange(c)
	if !ok {
		return
	}
	result, err := h.svc.Exportx.ExportKioskEvents(c.Request.Context(), rc, exportx.Range{From: from, To: to})
	writeCSV(c, "kiosk-events.csv", result, err)
}

func (h *handlers) exportPINAttempts(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	from, to, ok := queryRange(c)
	if !ok {
		return
	}
	result, err := h.svc.Exportx.ExportPINAttempts(c.Request.Context(), rc, exportx.Range{From: from, To: to})
	writeCSV(c, "pin-attempts.csv", result, err)
}

func (h *handlers) exportComplianceIncidents(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	from, to, ok := queryRange(c)
	if !ok {
		return
	}
	// Penalty rate and currency are caller-specified rather than an org
	// policy field, since they describe how the export should price a
	// penalty, not a workforce rule.
	penaltyCents, _ := strconv.ParseInt(c.DefaultQuery("penalty_cents_per_minute", "0"), 10, 64)
	currency := c.DefaultQuery("currency", "USD")
	result, err := h.svc.Exportx.ExportComplianceIncidents(c.Request.Context(), rc, exportx.Range{From: from, To: to}, penaltyCents, currency)
	writeCSV(c, "compliance-incidents.csv", result, err)
}

func (h *handlers) exportTimeEntries(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	from, to, ok := queryRange(c)
	if !ok {
		return
	}
	result, err := h.svc.Exportx.ExportTimeEntries(c.Request.Context(), rc, exportx.Range{From: from, To: to})
	writeCSV(c, "time-entries.csv", result, err)
}

func (h *handlers) exportPayrollWorkbook(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	runID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	bytes, err := h.svc.Exportx.ExportPayrollWorkbook(c.Request.Context(), rc, runID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\"payroll-"+runID.String()+".xlsx\"")
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", bytes)
}

func (h *handlers) exportPayslipPDF(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	runID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	userID, ok := paramUUID(c, "userId")
	if !ok {
		return
	}
	bytes, err := h.svc.Exportx.ExportPayslipPDF(c.Request.Context(), rc, runID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\"payslip-"+userID.String()+".pdf\"")
	c.Data(200, "application/pdf", bytes)
}
