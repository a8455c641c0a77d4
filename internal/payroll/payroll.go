/*
Package payroll implements pay-period-scoped hours aggregation, the
payroll run lifecycle, gross-to-net payslip generation, and balanced GL
posting. Hours are aggregated per user over the run's pay period, the
run itself advances through a DRAFT→CALCULATED→APPROVED→POSTED→
PAID|VOID state machine, and all monetary arithmetic goes through
shopspring/decimal via internal/money rather than float64.
*/
package payroll

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shiftcore/workforce/internal/audit"
	"github.com/shiftcore/workforce/internal/errs"
	"github.com/shiftcore/workforce/internal/models"
	"github.com/shiftcore/workforce/internal/models/enums"
	"github.com/shiftcore/workforce/internal/money"
	"github.com/shiftcore/workforce/internal/reqctx"
	"github.com/shiftcore/workforce/internal/store"
)

type Service struct {
	store *store.Store
}

func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

type userAccumulator struct {
	regularMinutes  int
	overtimeMinutes int
	breakMinutes    int
}

// Calculate aggregates approved time entries within the run's pay
// period into payroll-run-line rows, one per user, and flips the run
// DRAFT → CALCULATED.
func (s *Service) Calculate(ctx context.Context, rc reqctx.Context, runID uuid.UUID, now time.Time) (*models.PayrollRun, error) {
	if !rc.RequireRole(enums.RoleManager) {
		return nil, errs.New(errs.Forbidden, "INSUFFICIENT_ROLE", "calculating a payroll run requires manager role or above")
	}

	var run *models.PayrollRun
	err := s.store.WithTransaction(ctx, func(tx *gorm.DB) error {
		var r models.PayrollRun
		if err := tx.First(&r, "id = ?", runID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errs.ErrNotFoundGeneric
			}
			return err
		}
		if r.OrgID != rc.OrgID {
			return errs.ErrCrossOrg
		}
		if r.Status != models.PayrollDraft {
			return errs.New(errs.StateConflict, "RUN_NOT_DRAFT", "payroll run must be DRAFT to calculate")
		}

		var period models.PayPeriod
		if err := tx.First(&period, "id = ?", r.PayPeriodID).Error; err != nil {
			return err
		}

		var policy models.WorkforcePolicy
		if err := tx.Where("org_id = ?", rc.OrgID).First(&policy).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				policy = *models.DefaultWorkforcePolicy(rc.OrgID)
			} else {
				return err
			}
		}

		q := tx.Where("org_id = ? AND approved = ? AND clock_out_at IS NOT NULL", rc.OrgID, true).
			Where("clock_in_at >= ? AND clock_out_at <= ?", period.StartDate, period.EndDate).
			Preload("Breaks")
		if r.BranchID != nil {
			q = q.Where("branch_id = ?", *r.BranchID)
		}
		var entries []models.TimeEntry
		if err := q.Find(&entries).Error; err != nil {
			return err
		}

		byUser := map[uuid.UUID]*userAccumulator{}
		for _, e := range entries {
			acc, ok := byUser[e.UserID]
			if !ok {
				acc = &userAccumulator{}
				byUser[e.UserID] = acc
			}

			worked := int(e.ClockOutAt.Sub(e.ClockInAt).Minutes())
			breaks := 0
			for _, b := range e.Breaks {
				if b.EndAt != nil {
					breaks += int(b.EndAt.Sub(b.StartAt).Minutes())
				}
			}
			net := worked - breaks
			if net < 0 {
				net = 0
			}

			dailyRegular := net
			dailyOT := 0
			if net > policy.DailyOTThresholdMinutes {
				dailyRegular = policy.DailyOTThresholdMinutes
				dailyOT = net - policy.DailyOTThresholdMinutes
			}

			acc.regularMinutes += dailyRegular
			acc.overtimeMinutes += dailyOT
			acc.breakMinutes += breaks
		}

		userIDs := make([]uuid.UUID, 0, len(byUser))
		for id := range byUser {
			userIDs = append(userIDs, id)
		}
		sort.Slice(userIDs, func(i, j int) bool { return userIDs[i].String() < userIDs[j].String() })

		for _, userID := range userIDs {
			acc := byUser[userID]
			// Weekly cap: the portion of regular minutes above the
			// weekly-OT threshold shifts into overtime.
			if acc.regularMinutes > policy.WeeklyOTThresholdMinutes {
				shifted := acc.regularMinutes - policy.WeeklyOTThresholdMinutes
				acc.regularMinutes -= shifted
				acc.overtimeMinutes += shifted
			}

			regularHours := money.Persist(minutesToHours(acc.regularMinutes))
			overtimeHours := money.Persist(minutesToHours(acc.overtimeMinutes))
			breakHours := money.Persist(minutesToHours(acc.breakMinutes))
			paidHours := money.Persist(regularHours.Add(overtimeHours.Mul(decimal.NewFromFloat(1.5))))

			line := models.PayrollRunLine{
				OrgID:         rc.OrgID,
				PayrollRunID:  r.ID,
				UserID:        userID,
				RegularHours:  regularHours,
				OvertimeHours: overtimeHours,
				BreakHours:    breakHours,
				PaidHours:     paidHours,
			}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
		}

		r.Status = models.PayrollCalculated
		r.CalculatedByID = &rc.UserID
		r.CalculatedAt = &now
		if err := tx.Save(&r).Error; err != nil {
			return err
		}
		if err := audit.Record(ctx, tx, rc.OrgID, rc.UserID, models.ActionPayrollCalculated, "payroll_run", r.ID, r, now); err != nil {
			return err
		}
		run = &r
		return nil
	})
	return run, err
}

func minutesToHours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60))
}

// Approve transitions CALCULATED → APPROVED.
func (s *Service) Approve(ctx context.Context, rc reqctx.Context, runID uuid.UUID, now time.Time) (*models.PayrollRun, error) {
	if !rc.RequireRole(enums.RoleManager) {
		return nil, errs.New(errs.Forbidden, "INSUFFICIENT_ROLE", "approving a payroll run requires manager role or above")
	}
	return s.transition(ctx, rc, runID, models.PayrollCalculated, models.PayrollApproved, func(r *models.PayrollRun) {
		r.ApprovedByID = &rc.UserID
		r.ApprovedAt = &now
	}, models.ActionPayrollApproved, now)
}

func (s *Service) transition(ctx context.Context, rc reqctx.Context, runID uuid.UUID, from, to models.PayrollRunStatus, mutate func(*models.PayrollRun), action models.ActionCode, now time.Time) (*models.PayrollRun, error) {
	var run *models.PayrollRun
	err := s.store.WithTransaction(ctx, func(tx *gorm.DB) error {
		var r models.PayrollRun
		if err := tx.First(&r, "id = ?", runID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errs.ErrNotFoundGeneric
			}
			return err
		}
		if r.OrgID != rc.OrgID {
			return errs.ErrCrossOrg
		}
		if r.Status != from {
			return errs.Newf(errs.StateConflict, "RUN_WRONG_STATE", "payroll run must be %s, is %s", from, r.Status)
		}
		mutate(&r)
		r.Status = to
		if err := tx.Save(&r).Error; err != nil {
			return err
		}
		if err := audit.Record(ctx, tx, rc.OrgID, rc.UserID, action, "payroll_run", r.ID, r, now); err != nil {
			return err
		}
		run = &r
		return nil
	})
	return run, err
}
