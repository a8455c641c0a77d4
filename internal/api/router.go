/*
Package api wires the workforce core's domain services onto HTTP. It
specifies routes, not business logic: a declarative table of (method,
path, required-role, handler) consumed by gin, with routes grouped
under "/api/v1" and registered per domain.
*/
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/shiftcore/workforce/internal/compliance"
	"github.com/shiftcore/workforce/internal/exportx"
	"github.com/shiftcore/workforce/internal/geofence"
	"github.com/shiftcore/workforce/internal/kiosk"
	"github.com/shiftcore/workforce/internal/middleware"
	"github.com/shiftcore/workforce/internal/models/enums"
	"github.com/shiftcore/workforce/internal/payroll"
	"github.com/shiftcore/workforce/internal/reporting"
	"github.com/shiftcore/workforce/internal/scheduling"
	"github.com/shiftcore/workforce/internal/store"
	"github.com/shiftcore/workforce/internal/timeclock"
)

// Services bundles every domain service the transport layer dispatches
// to, plus the store for the small amount of cross-cutting reads
// (policy lookups) no single domain service owns. Built once in main
// and passed to NewRouter.
type Services struct {
	Store      *store.Store
	Scheduling *scheduling.Service
	Timeclock  *timeclock.Service
	Kiosk      *kiosk.Service
	Geofence   *geofence.Service
	Compliance *compliance.Service
	Payroll    *payroll.Service
	Exportx    *exportx.Service
	Reporting  *reporting.Service
}

// route is one entry of the declarative (method, path, role, handler)
// table; role is the minimum RoleLevel the caller must satisfy, or 0 for
// "authenticated, no further gate" (the handler does finer-grained
// scope checks itself where the role model is data-dependent).
type route struct {
	Method  string
	Path    string
	Role    enums.RoleLevel
	Handler gin.HandlerFunc
}

// NewRouter builds the gin.Engine: global middleware, public kiosk
// routes (no bearer), then the authenticated /api/v1 surface.
func NewRouter(svc *Services, auth *middleware.AuthMiddleware, ginLogger gin.HandlerFunc, corsMiddleware gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(corsMiddleware, ginLogger, gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	registerPublicKioskRoutes(r.Group("/public/kiosk"), svc)

	api := r.Group("/api/v1")
	for _, rt := range routeTable(svc) {
		handlers := []gin.HandlerFunc{auth.RequireAuth()}
		if rt.Role > 0 {
			handlers = append(handlers, auth.RequireRole(rt.Role))
		}
		handlers = append(handlers, rt.Handler)
		api.Handle(rt.Method, rt.Path, handlers...)
	}

	return r
}

func routeTable(svc *Services) []route {
	h := &handlers{svc: svc}
	return []route{
		// Scheduling
		{"POST", "/shifts", enums.RoleLead, h.createShift},
		{"PUT", "/shifts/:id", enums.RoleLead, h.updateShift},
		{"DELETE", "/shifts/:id", enums.RoleLead, h.deleteShift},
		{"POST", "/shifts/:id/cancel", enums.RoleLead, h.cancelShift},
		{"POST", "/shifts/publish", enums.RoleLead, h.publishRange},
		{"POST", "/shifts/:id/claim", 0, h.claimShift},
		{"POST", "/claims/:id/approve", enums.RoleManager, h.approveClaim},
		{"POST", "/claims/:id/reject", enums.RoleManager, h.rejectClaim},
		{"POST", "/claims/:id/withdraw", 0, h.withdrawClaim},
		{"POST", "/shifts/swap", 0, h.executeSwap},

		// Timeclock
		{"POST", "/timeclock/clock-in", 0, h.clockIn},
		{"POST", "/timeclock/clock-out", 0, h.clockOut},
		{"POST", "/timeclock/break/start", 0, h.breakStart},
		{"POST", "/timeclock/break/end", 0, h.breakEnd},
		{"GET", "/timeclock/status", 0, h.clockStatus},

		// Geo-fence
		{"POST", "/geofence/check", 0, h.geofenceCheck},

		// Kiosk device management
		{"POST", "/kiosk/devices", enums.RoleManager, h.enrollDevice},
		{"POST", "/kiosk/devices/:id/rotate", enums.RoleManager, h.rotateDeviceSecret},

		// Compliance
		{"POST", "/compliance/evaluate", enums.RoleManager, h.evaluateCompliance},

		// Payroll
		{"POST", "/payroll/runs/:id/calculate", enums.RoleManager, h.calculatePayroll},
		{"POST", "/payroll/runs/:id/payslips", enums.RoleManager, h.generatePayslips},
		{"POST", "/payroll/runs/:id/approve", enums.RoleManager, h.approvePayroll},
		{"POST", "/payroll/runs/:id/post", enums.RoleGeneralManager, h.postPayroll},
		{"POST", "/payroll/runs/:id/pay", enums.RoleGeneralManager, h.payPayroll},
		{"POST", "/payroll/runs/:id/void", enums.RoleGeneralManager, h.voidPayroll},

		// CSV export
		{"GET", "/export/kiosk-events", enums.RoleManager, h.exportKioskEvents},
		{"GET", "/export/pin-attempts", enums.RoleManager, h.exportPINAttempts},
		{"GET", "/export/compliance-incidents", enums.RoleManager, h.exportComplianceIncidents},
		{"GET", "/export/time-entries", enums.RoleManager, h.exportTimeEntries},
		{"GET", "/payroll/runs/:id/workbook", enums.RoleManager, h.exportPayrollWorkbook},
		{"GET", "/payroll/runs/:id/payslips/:userId/pdf", enums.RoleManager, h.exportPayslipPDF},

		// Reporting: KPIs and grouped counts
		{"GET", "/reports/labor/branch", enums.RoleManager, h.laborByBranch},
		{"GET", "/reports/labor/user", enums.RoleManager, h.laborByUser},
		{"GET", "/reports/compliance/counts", enums.RoleManager, h.incidentCounts},
		{"GET", "/reports/payroll/:id/cost", enums.RoleManager, h.payrollCost},
	}
}
