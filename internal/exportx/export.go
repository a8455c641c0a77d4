package exportx

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shiftcore/workforce/internal/models"
	"github.com/shiftcore/workforce/internal/models/enums"
	"github.com/shiftcore/workforce/internal/reqctx"
	"github.com/shiftcore/workforce/internal/store"
)

type Service struct {
	store *store.Store
}

func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

// Range bounds an export by a natural date column, inclusive.
type Range struct {
	From, To time.Time
}

func (s *Service) userLookup(ctx context.Context, orgID uuid.UUID) (map[uuid.UUID]models.User, error) {
	var users []models.User
	if err := s.store.Tx(ctx).Where("org_id = ?", orgID).Find(&users).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]models.User, len(users))
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (s *Service) branchLookup(ctx context.Context, orgID uuid.UUID) (map[uuid.UUID]models.Branch, error) {
	var branches []models.Branch
	if err := s.store.Tx(ctx).Where("org_id = ?", orgID).Find(&branches).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]models.Branch, len(branches))
	for _, b := range branches {
		out[b.ID] = b
	}
	return out, nil
}

func (s *Service) deviceLookup(ctx context.Context, orgID uuid.UUID) (map[uuid.UUID]models.KioskDevice, error) {
	var devices []models.KioskDevice
	if err := s.store.Tx(ctx).Where("org_id = ?", orgID).Find(&devices).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]models.KioskDevice, len(devices))
	for _, d := range devices {
		out[d.ID] = d
	}
	return out, nil
}

// ExportKioskEvents renders the "Kiosk events" export for a date
// range, ordered (occurred-at asc, id asc).
func (s *Service) ExportKioskEvents(ctx context.Context, rc reqctx.Context, r Range) (Result, error) {
	var events []models.KioskEvent
	err := s.store.Tx(ctx).Where("org_id = ? AND occurred_at >= ? AND occurred_at <= ?", rc.OrgID, r.From, r.To).
		Order("occurred_at ASC, id ASC").Find(&events).Error
	if err != nil {
		return Result{}, err
	}
	devices, err := s.deviceLookup(ctx, rc.OrgID)
	if err != nil {
		return Result{}, err
	}
	users, err := s.userLookup(ctx, rc.OrgID)
	if err != nil {
		return Result{}, err
	}
	branches, err := s.branchLookup(ctx, rc.OrgID)
	if err != nil {
		return Result{}, err
	}

	rows := make([]KioskEventRow, 0, len(events))
	for _, e := range events {
		device := devices[e.DeviceID]
		userName := ""
		if e.UserID != nil {
			userName = users[*e.UserID].FullName
		}
		rows = append(rows, KioskEventRow{
			Event:        e,
			ReceivedAt:   e.CreatedAt,
			DeviceName:   device.Name,
			BranchName:   branches[device.BranchID].Name,
			UserFullName: userName,
		})
	}
	return Render(KioskEventsTable(rows))
}

// ExportPINAttempts renders the "PIN attempts" export.
func (s *Service) ExportPINAttempts(ctx context.Context, rc reqctx.Context, r Range) (Result, error) {
	var attempts []models.KioskPINAttempt
	err := s.store.Tx(ctx).Where("org_id = ? AND attempted_at >= ? AND attempted_at <= ?", rc.OrgID, r.From, r.To).
		Order("attempted_at ASC, id ASC").Find(&attempts).Error
	if err != nil {
		return Result{}, err
	}
	devices, err := s.deviceLookup(ctx, rc.OrgID)
	if err != nil {
		return Result{}, err
	}
	users, err := s.userLookup(ctx, rc.OrgID)
	if err != nil {
		return Result{}, err
	}
	branches, err := s.branchLookup(ctx, rc.OrgID)
	if err != nil {
		return Result{}, err
	}

	rows := make([]PINAttemptRow, 0, len(attempts))
	for _, a := range attempts {
		device := devices[a.DeviceID]
		userName := ""
		if a.UserID != nil {
			userName = users[*a.UserID].FullName
		}
		rows = append(rows, PINAttemptRow{
			Attempt:      a,
			DeviceName:   device.Name,
			BranchName:   branches[device.BranchID].Name,
			UserFullName: userName,
		})
	}
	return Render(PINAttemptsTable(rows))
}

// ExportComplianceIncidents renders the "Compliance incidents"
// export. Currency and per-minute penalty rate are supplied by the
// caller; a zero rate yields zero penalty amounts rather than failing.
func (s *Service) ExportComplianceIncidents(ctx context.Context, rc reqctx.Context, r Range, penaltyCentsPerMinute int64, currency string) (Result, error) {
	var incidents []models.ComplianceIncident
	err := s.store.Tx(ctx).Where("org_id = ? AND incident_date >= ? AND incident_date <= ?", rc.OrgID, r.From, r.To).
		Order("incident_date ASC, user_id ASC, id ASC").Find(&incidents).Error
	if err != nil {
		return Result{}, err
	}
	users, err := s.userLookup(ctx, rc.OrgID)
	if err != nil {
		return Result{}, err
	}
	branches, err := s.branchLookup(ctx, rc.OrgID)
	if err != nil {
		return Result{}, err
	}

	rows := make([]ComplianceIncidentRow, 0, len(incidents))
	for _, inc := range incidents {
		u := users[inc.UserID]
		rows = append(rows, ComplianceIncidentRow{
			Incident:           inc,
			UserFullName:       u.FullName,
			UserEmail:          u.Email,
			BranchName:         branches[inc.BranchID].Name,
			PenaltyAmountCents: int64(inc.PenaltyMinutes) * penaltyCentsPerMinute,
			Currency:           currency,
		})
	}
	return Render(ComplianceIncidentsTable(rows))
}

// ExportTimeEntries renders the "Time entries with geo" export.
func (s *Service) ExportTimeEntries(ctx context.Context, rc reqctx.Context, r Range) (Result, error) {
	var entries []models.TimeEntry
	err := s.store.Tx(ctx).Where("org_id = ? AND clock_in_at >= ? AND clock_in_at <= ?", rc.OrgID, r.From, r.To).
		Order("clock_in_at ASC, user_id ASC, id ASC").Find(&entries).Error
	if err != nil {
		return Result{}, err
	}
	users, err := s.userLookup(ctx, rc.OrgID)
	if err != nil {
		return Result{}, err
	}

	rows := make([]TimeEntryRow, 0, len(entries))
	for _, e := range entries {
		u := users[e.UserID]
		rows = append(rows, TimeEntryRow{
			Entry:        e,
			UserFullName: u.FullName,
			UserEmail:    u.Email,
			Role:         enums.RoleLevel(u.RoleLevel).String(),
		})
	}
	return Render(TimeEntriesTable(rows))
}

// ExportPayrollWorkbook renders the whole run's payslips as an .xlsx
// workbook, for payroll teams that want a spreadsheet rather than a CSV.
func (s *Service) ExportPayrollWorkbook(ctx context.Context, rc reqctx.Context, runID uuid.UUID) ([]byte, error) {
	var run models.PayrollRun
	if err := s.store.Tx(ctx).Where("org_id = ?", rc.OrgID).First(&run, "id = ?", runID).Error; err != nil {
		return nil, err
	}
	var payslips []models.Payslip
	if err := s.store.Tx(ctx).Where("payroll_run_id = ?", runID).Order("user_id ASC").Find(&payslips).Error; err != nil {
		return nil, err
	}
	users, err := s.userLookup(ctx, rc.OrgID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.User, len(users))
	for id, u := range users {
		byID[id.String()] = u
	}
	return RenderPayrollWorkbook(run, payslips, byID)
}

// ExportPayslipPDF renders one employee's payslip within a run as a PDF.
func (s *Service) ExportPayslipPDF(ctx context.Context, rc reqctx.Context, runID, userID uuid.UUID) ([]byte, error) {
	var run models.PayrollRun
	if err := s.store.Tx(ctx).Where("org_id = ?", rc.OrgID).First(&run, "id = ?", runID).Error; err != nil {
		return nil, err
	}
	var payslip models.Payslip
	if err := s.store.Tx(ctx).Where("payroll_run_id = ? AND user_id = ?", runID, userID).First(&payslip).Error; err != nil {
		return nil, err
	}
	var user models.User
	if err := s.store.Tx(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return RenderPayslipPDF(run, payslip, user.FullName)
}
