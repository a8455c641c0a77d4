package api

import (
	"github.com/gin-gonic/gin"

	"github.com/shiftcore/workforce/internal/reporting"
)

func (h *handlers) laborByBranch(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	from, to, ok := queryRange(c)
	if !ok {
		return
	}
	kpis, err := h.svc.Reporting.LaborByBranch(c.Request.Context(), rc, reporting.Range{From: from, To: to})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, kpis)
}

func (h *handlers) laborByUser(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	from, to, ok := queryRange(c)
	if !ok {
		return
	}
	kpis, err := h.svc.Reporting.LaborByUser(c.Request.Context(), rc, reporting.Range{From: from, To: to})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, kpis)
}

func (h *handlers) incidentCounts(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	from, to, ok := queryRange(c)
	if !ok {
		return
	}
	counts, err := h.svc.Reporting.IncidentCountsByType(c.Request.Context(), rc, optionalBranchID(c), reporting.Range{From: from, To: to})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, counts)
}

func (h *handlers) payrollCost(c *gin.Context) {
	rc, ok := mustReqCtx(c)
	if !ok {
		return
	}
	runID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	summary, err := h.svc.Reporting.PayrollCost(c.Request.Context(), rc, runID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, summary)
}
