/*
Package reporting implements the KPI and grouped-count aggregation
layer: read-only views over completed time entries, compliance
incidents, and payroll runs. Each KPI is its own typed query rather
than a free-string report-type dispatch, and every monetary aggregate
is computed in shopspring/decimal.
*/
package reporting

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shiftcore/workforce/internal/models"
	"github.com/shiftcore/workforce/internal/reqctx"
	"github.com/shiftcore/workforce/internal/store"
)

type Service struct {
	store *store.Store
}

func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

// Range bounds a report by a natural date column, inclusive.
type Range struct {
	From, To time.Time
}

// LaborKPI is the hours/labor summary for one grouping key (a branch or
// a user, depending on the call).
type LaborKPI struct {
	GroupID         uuid.UUID
	RegularHours    decimal.Decimal
	OvertimeHours   decimal.Decimal
	BreakHours      decimal.Decimal
	EntryCount      int
}

// LaborByBranch aggregates completed time entries into per-branch
// regular/overtime/break hour totals for the range.
func (s *Service) LaborByBranch(ctx context.Context, rc reqctx.Context, r Range) ([]LaborKPI, error) {
	var entries []models.TimeEntry
	err := s.store.Tx(ctx).Where("org_id = ? AND clock_out_at IS NOT NULL", rc.OrgID).
		Where("clock_in_at >= ? AND clock_in_at <= ?", r.From, r.To).
		Preload("Breaks").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return aggregateByGroup(entries, func(e models.TimeEntry) uuid.UUID { return e.BranchID }), nil
}

// LaborByUser aggregates completed time entries into per-user
// regular/overtime/break hour totals for the range.
func (s *Service) LaborByUser(ctx context.Context, rc reqctx.Context, r Range) ([]LaborKPI, error) {
	var entries []models.TimeEntry
	err := s.store.Tx(ctx).Where("org_id = ? AND clock_out_at IS NOT NULL", rc.OrgID).
		Where("clock_in_at >= ? AND clock_in_at <= ?", r.From, r.To).
		Preload("Breaks").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return aggregateByGroup(entries, func(e models.TimeEntry) uuid.UUID { return e.UserID }), nil
}

func aggregateByGroup(entries []models.TimeEntry, keyOf func(models.TimeEntry) uuid.UUID) []LaborKPI {
	byGroup := map[uuid.UUID]*LaborKPI{}
	for _, e := range entries {
		key := keyOf(e)
		kpi, ok := byGroup[key]
		if !ok {
			kpi = &LaborKPI{GroupID: key}
			byGroup[key] = kpi
		}
		workMinutes := 0
		if e.ClockOutAt != nil {
			workMinutes = int(e.ClockOutAt.Sub(e.ClockInAt).Minutes())
		}
		breakMinutes := 0
		for _, b := range e.Breaks {
			if b.EndAt != nil {
				breakMinutes += int(b.EndAt.Sub(b.StartAt).Minutes())
			}
		}
		netMinutes := workMinutes - breakMinutes
		if netMinutes < 0 {
			netMinutes = 0
		}
		overtimeMinutes := 0
		if e.OvertimeMinutes != nil {
			overtimeMinutes = *e.OvertimeMinutes
		}
		regularMinutes := netMinutes - overtimeMinutes
		if regularMinutes < 0 {
			regularMinutes = 0
		}

		kpi.RegularHours = kpi.RegularHours.Add(minutesToHours(regularMinutes))
		kpi.OvertimeHours = kpi.OvertimeHours.Add(minutesToHours(overtimeMinutes))
		kpi.BreakHours = kpi.BreakHours.Add(minutesToHours(breakMinutes))
		kpi.EntryCount++
	}

	out := make([]LaborKPI, 0, len(byGroup))
	for _, kpi := range byGroup {
		out = append(out, *kpi)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GroupID.String() < out[j].GroupID.String() })
	return out
}

func minutesToHours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60)).Round(2)
}

// IncidentCount is a grouped count of compliance incidents by type.
type IncidentCount struct {
	Type  models.IncidentType
	Count int
}

// IncidentCountsByType returns the number of compliance incidents of
// each type within the range (optionally scoped to a branch).
func (s *Service) IncidentCountsByType(ctx context.Context, rc reqctx.Context, branchID *uuid.UUID, r Range) ([]IncidentCount, error) {
	var incidents []models.ComplianceIncident
	q := s.store.Tx(ctx).Where("org_id = ? AND incident_date >= ? AND incident_date <= ?", rc.OrgID, r.From, r.To)
	if branchID != nil {
		q = q.Where("branch_id = ?", *branchID)
	}
	if err := q.Find(&incidents).Error; err != nil {
		return nil, err
	}
	counts := map[models.IncidentType]int{}
	for _, inc := range incidents {
		counts[inc.Type]++
	}
	types := []models.IncidentType{models.MealBreakMissed, models.MealBreakShort, models.RestBreakMissed, models.RestBreakShort}
	out := make([]IncidentCount, 0, len(types))
	for _, t := range types {
		out = append(out, IncidentCount{Type: t, Count: counts[t]})
	}
	return out, nil
}

// PayrollCostSummary is the aggregate cost for a PayrollRun, rolled up
// from its payslips.
type PayrollCostSummary struct {
	PayrollRunID         uuid.UUID
	EmployeeCount        int
	GrossEarnings        decimal.Decimal
	NetPay               decimal.Decimal
	TaxesWithheld        decimal.Decimal
	EmployerContribTotal decimal.Decimal
	TotalEmployerCost    decimal.Decimal
}

// PayrollCost rolls up every payslip in a run into one cost summary.
func (s *Service) PayrollCost(ctx context.Context, rc reqctx.Context, runID uuid.UUID) (PayrollCostSummary, error) {
	var payslips []models.Payslip
	if err := s.store.Tx(ctx).Where("org_id = ? AND payroll_run_id = ?", rc.OrgID, runID).Find(&payslips).Error; err != nil {
		return PayrollCostSummary{}, err
	}
	summary := PayrollCostSummary{PayrollRunID: runID, EmployeeCount: len(payslips)}
	for _, p := range payslips {
		summary.GrossEarnings = summary.GrossEarnings.Add(p.GrossEarnings)
		summary.NetPay = summary.NetPay.Add(p.NetPay)
		summary.TaxesWithheld = summary.TaxesWithheld.Add(p.TaxesWithheld)
		summary.EmployerContribTotal = summary.EmployerContribTotal.Add(p.EmployerContribTotal)
		summary.TotalEmployerCost = summary.TotalEmployerCost.Add(p.TotalEmployerCost)
	}
	return summary, nil
}
