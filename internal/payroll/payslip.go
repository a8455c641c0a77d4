package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shiftcore/workforce/internal/audit"
	"github.com/shiftcore/workforce/internal/errs"
	"github.com/shiftcore/workforce/internal/models"
	"github.com/shiftcore/workforce/internal/reqctx"
	"github.com/shiftcore/workforce/internal/money"
)

// GeneratePayslips runs the gross-to-net calculation for every
// payroll-run-line of a CALCULATED run, writing one Payslip (plus
// its line items) per user. Idempotent: an existing payslip for a user
// is left untouched rather than duplicated.
func (s *Service) GeneratePayslips(ctx context.Context, rc reqctx.Context, runID uuid.UUID, now time.Time) ([]models.Payslip, error) {
	var payslips []models.Payslip
	err := s.store.WithTransaction(ctx, func(tx *gorm.DB) error {
		var run models.PayrollRun
		if err := tx.First(&run, "id = ?", runID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errs.ErrNotFoundGeneric
			}
			return err
		}
		if run.OrgID != rc.OrgID {
			return errs.ErrCrossOrg
		}
		if run.Status != models.PayrollCalculated {
			return errs.New(errs.StateConflict, "RUN_NOT_CALCULATED", "payslips can only be generated for a CALCULATED run")
		}

		var lines []models.PayrollRunLine
		if err := tx.Where("payroll_run_id = ?", runID).Order("user_id ASC").Find(&lines).Error; err != nil {
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

		for _, line := range lines {
			var existing models.Payslip
			err := tx.Where("payroll_run_id = ? AND user_id = ?", runID, line.UserID).First(&existing).Error
			if err == nil {
				payslips = append(payslips, existing)
				continue
			}
			if err != gorm.ErrRecordNotFound {
				return err
			}

			var profile models.CompensationProfile
			if err := tx.Where("org_id = ? AND user_id = ? AND effective_from <= ?", rc.OrgID, line.UserID, now).
				Where("effective_to IS NULL OR effective_to >= ?", now).
				Order("effective_from DESC").First(&profile).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return errs.Newf(errs.Validation, "NO_COMPENSATION_PROFILE", "no effective compensation profile for user %s", line.UserID)
				}
				return err
			}

			var components []models.CompensationComponent
			cq := tx.Where("org_id = ? AND enabled = ?", rc.OrgID, true)
			if run.BranchID != nil {
				cq = cq.Where("scope = ? OR (scope = ? AND branch_id = ?)", models.ScopeOrg, models.ScopeBranch, *run.BranchID)
			} else {
				cq = cq.Where("scope = ?", models.ScopeOrg)
			}
			if err := cq.Find(&components).Error; err != nil {
				return err
			}

			payslip, items, err := computeGrossToNet(line, profile, components, policy)
			if err != nil {
				return err
			}
			payslip.OrgID = rc.OrgID
			payslip.PayrollRunID = runID
			payslip.UserID = line.UserID
			if err := tx.Create(&payslip).Error; err != nil {
				return err
			}
			for i := range items {
				items[i].OrgID = rc.OrgID
				items[i].PayslipID = payslip.ID
				if err := tx.Create(&items[i]).Error; err != nil {
					return err
				}
			}
			payslip.LineItems = items
			if err := audit.Record(ctx, tx, rc.OrgID, rc.UserID, models.ActionPayrollCalculated, "payslip", payslip.ID, payslip, now); err != nil {
				return err
			}
			payslips = append(payslips, payslip)
		}
		return nil
	})
	return payslips, err
}

// componentBase returns the amount the EARNING/DEDUCTION/TAX/EMPLOYER_CONTRIB
// component contributes, per its Calc kind.
func componentBase(c models.CompensationComponent, hourlyRate, base decimal.Decimal) decimal.Decimal {
	switch c.Calc {
	case models.CalcFixed:
		return money.Internal(c.Value)
	case models.CalcRate:
		return money.Internal(c.Value.Mul(hourlyRate))
	case models.CalcPercent:
		return money.PercentOf(base, c.Value)
	default:
		return money.Zero
	}
}

// computeGrossToNet runs the gross-to-net calculation as a fixed
// 8-step order, so every payslip's line items are reproducible from
// the same inputs regardless of call order.
func computeGrossToNet(line models.PayrollRunLine, profile models.CompensationProfile, components []models.CompensationComponent, policy models.WorkforcePolicy) (models.Payslip, []models.PayslipLineItem, error) {
	var items []models.PayslipLineItem

	// Step 1: grossEarnings = base * paidHours + Σ(EARNING components).
	baseEarnings := money.Internal(profile.HourlyRate.Mul(line.PaidHours))
	earningsTotal := baseEarnings
	for _, c := range components {
		if c.Type != models.ComponentEarning {
			continue
		}
		amt := componentBase(c, profile.HourlyRate, baseEarnings)
		earningsTotal = earningsTotal.Add(amt)
		items = append(items, models.PayslipLineItem{ComponentCode: c.Code, ComponentType: c.Type, Amount: money.Persist(amt)})
	}
	grossEarnings := money.Internal(earningsTotal)

	// Step 2: preTaxDeductions = Σ(DEDUCTION components flagged pre-tax).
	preTaxDeductions := money.Zero
	var postTaxComponents []models.CompensationComponent
	for _, c := range components {
		if c.Type != models.ComponentDeduction {
			continue
		}
		if c.PreTax {
			amt := componentBase(c, profile.HourlyRate, grossEarnings)
			preTaxDeductions = preTaxDeductions.Add(amt)
			items = append(items, models.PayslipLineItem{ComponentCode: c.Code, ComponentType: c.Type, Amount: money.Persist(amt)})
		} else {
			postTaxComponents = append(postTaxComponents, c)
		}
	}
	preTaxDeductions = money.Internal(preTaxDeductions)

	// Step 3: taxableWages = grossEarnings - preTaxDeductions.
	taxableWages := money.Internal(grossEarnings.Sub(preTaxDeductions))

	// Step 4: taxesWithheld = taxableWages * policy.tax-percent + Σ(TAX components).
	taxesWithheld := money.PercentOf(taxableWages, decimal.NewFromFloat(policy.TaxPercent))
	for _, c := range components {
		if c.Type != models.ComponentTax {
			continue
		}
		amt := componentBase(c, profile.HourlyRate, taxableWages)
		taxesWithheld = taxesWithheld.Add(amt)
		items = append(items, models.PayslipLineItem{ComponentCode: c.Code, ComponentType: c.Type, Amount: money.Persist(amt)})
	}
	taxesWithheld = money.Internal(taxesWithheld)

	// Step 5: postTaxDeductions = Σ(DEDUCTION components flagged post-tax).
	postTaxDeductions := money.Zero
	for _, c := range postTaxComponents {
		amt := componentBase(c, profile.HourlyRate, grossEarnings)
		postTaxDeductions = postTaxDeductions.Add(amt)
		items = append(items, models.PayslipLineItem{ComponentCode: c.Code, ComponentType: c.Type, Amount: money.Persist(amt)})
	}
	postTaxDeductions = money.Internal(postTaxDeductions)

	// Step 6: netPay = grossEarnings - preTaxDeductions - taxesWithheld - postTaxDeductions.
	netPay := money.Internal(grossEarnings.Sub(preTaxDeductions).Sub(taxesWithheld).Sub(postTaxDeductions))

	// Step 7: employerContribTotal = Σ(EMPLOYER_CONTRIB components).
	employerContribTotal := money.Zero
	for _, c := range components {
		if c.Type != models.ComponentEmployerContrib {
			continue
		}
		amt := componentBase(c, profile.HourlyRate, grossEarnings)
		employerContribTotal = employerContribTotal.Add(amt)
		items = append(items, models.PayslipLineItem{ComponentCode: c.Code, ComponentType: c.Type, Amount: money.Persist(amt)})
	}
	employerContribTotal = money.Internal(employerContribTotal)

	// Step 8: totalEmployerCost = grossEarnings + employerContribTotal.
	totalEmployerCost := money.Internal(grossEarnings.Add(employerContribTotal))

	// Detect drift between netPay computed from internal-scale values and
	// netPay recomputed from the four persisted (2-decimal) totals:
	// rounding each total separately before subtracting can disagree with
	// rounding the result once, by a cent or two.
	driftNote := ""
	recomputedFromPersisted := money.Persist(grossEarnings).
		Sub(money.Persist(preTaxDeductions)).
		Sub(money.Persist(taxesWithheld)).
		Sub(money.Persist(postTaxDeductions))
	if !recomputedFromPersisted.Equal(money.Persist(netPay)) {
		driftNote = fmt.Sprintf("rounding drift: component-sum net %s vs computed net %s", recomputedFromPersisted, money.Persist(netPay))
	}

	payslip := models.Payslip{
		GrossEarnings:        money.Persist(grossEarnings),
		PreTaxDeductions:     money.Persist(preTaxDeductions),
		TaxableWages:         money.Persist(taxableWages),
		TaxesWithheld:        money.Persist(taxesWithheld),
		PostTaxDeductions:    money.Persist(postTaxDeductions),
		NetPay:               money.Persist(netPay),
		EmployerContribTotal: money.Persist(employerContribTotal),
		TotalEmployerCost:    money.Persist(totalEmployerCost),
		RoundingDriftNote:    driftNote,
	}
	return payslip, items, nil
}
